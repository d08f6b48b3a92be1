package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/contract"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/services"
)

// ResourceKinder resolves the kind tag of an identifier.
type ResourceKinder interface {
	ResourceKind(identifier string) (string, error)
}

// BookResponse is a book as returned by the API.
type BookResponse struct {
	entities.Book
	URI     string `json:"uri"`
	DialURI string `json:"dial_uri,omitempty"`
}

type restockRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

type BooksController struct {
	inventory *services.InventoryService
	kinds     ResourceKinder
}

func NewBooksController(inventory *services.InventoryService, kinds ResourceKinder) *BooksController {
	return &BooksController{
		inventory: inventory,
		kinds:     kinds,
	}
}

func (controller *BooksController) toResponse(b *entities.Book) BookResponse {
	return BookResponse{
		Book:    *b,
		URI:     contract.ItemURI(controller.inventory.Collection(), b.ID),
		DialURI: b.DialURI(),
	}
}

// setKind sets the resource kind header. An identifier that cannot be
// resolved simply goes without the header.
func (controller *BooksController) setKind(c *gin.Context, identifier string) {
	if controller.kinds == nil {
		return
	}
	if kind, err := controller.kinds.ResourceKind(identifier); err == nil {
		c.Header(HeaderResourceKind, kind)
	}
}

func (controller *BooksController) itemURI(id int64) string {
	return contract.ItemURI(controller.inventory.Collection(), id)
}

// List handles GET /api/books?supplier=...&sort=-quantity
func (controller *BooksController) List(c *gin.Context) {
	books, err := controller.inventory.List(c.Request.Context(), services.ListOptions{
		Supplier: c.Query("supplier"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		respondServiceError(c, err, "list books")
		return
	}

	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, controller.toResponse(&books[i]))
	}

	controller.setKind(c, controller.inventory.Collection())
	c.IndentedJSON(http.StatusOK, gin.H{"books": out, "count": len(out)})
}

// Get handles GET /api/books/:id
func (controller *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.inventory.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}

	controller.setKind(c, controller.itemURI(id))
	c.IndentedJSON(http.StatusOK, controller.toResponse(book))
}

// Create handles POST /api/books
func (controller *BooksController) Create(c *gin.Context) {
	values, ok := bindValues(c)
	if !ok {
		return
	}

	book, err := controller.inventory.Create(c.Request.Context(), values)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}

	resp := controller.toResponse(book)
	controller.setKind(c, resp.URI)
	c.Header("Location", resp.URI)
	respondCreated(c, resp)
}

// Update handles PATCH /api/books/:id
func (controller *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	values, ok := bindValues(c)
	if !ok {
		return
	}

	book, err := controller.inventory.Edit(c.Request.Context(), id, values)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}

	controller.setKind(c, controller.itemURI(id))
	c.IndentedJSON(http.StatusOK, controller.toResponse(book))
}

// Delete handles DELETE /api/books/:id
func (controller *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.inventory.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "delete book")
		return
	}

	controller.setKind(c, controller.itemURI(id))
	c.Status(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/books
func (controller *BooksController) DeleteAll(c *gin.Context) {
	res, err := controller.inventory.PurgeAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "delete all books")
		return
	}

	controller.setKind(c, controller.inventory.Collection())
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "All books deleted",
		Data:    gin.H{"deleted": res.BooksDeleted},
	})
}

// Sell handles POST /api/books/:id/sale
func (controller *BooksController) Sell(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.inventory.Sell(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "sell book")
		return
	}

	controller.setKind(c, controller.itemURI(id))
	c.IndentedJSON(http.StatusOK, controller.toResponse(book))
}

// Restock handles POST /api/books/:id/restock with {"amount": n}
func (controller *BooksController) Restock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "amount is required")
		return
	}

	book, err := controller.inventory.Restock(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondServiceError(c, err, "restock book")
		return
	}

	controller.setKind(c, controller.itemURI(id))
	c.IndentedJSON(http.StatusOK, controller.toResponse(book))
}
