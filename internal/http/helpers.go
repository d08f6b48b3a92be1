package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/contract"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/provider"
	"github.com/mrlokans/bookstore/internal/services"
	"github.com/mrlokans/bookstore/internal/validator"
)

// HeaderResourceKind carries the kind tag of the addressed identifier.
const HeaderResourceKind = "X-Resource-Kind"

// Machine-readable error codes.
const (
	CodeValidation = "validation_failed"
	CodeRouting    = "unroutable"
	CodeNotFound   = "not_found"
	CodeOutOfStock = "out_of_stock"
	CodeConflict   = "conflict"
	CodeConstraint = "constraint_violation"
	CodeBusy       = "busy"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // per-field messages for validation errors
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondServiceError maps an inventory or provider error to a status code.
// Anything it does not recognise is a 500.
func respondServiceError(c *gin.Context, err error, context string) {
	var verr *validator.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   verr.Error(),
			Code:    CodeValidation,
			Details: verr.Fields,
		})
	case errors.Is(err, provider.ErrUnroutable), errors.Is(err, provider.ErrUnsupported):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeRouting})
	case errors.Is(err, services.ErrInvalidSort), errors.Is(err, services.ErrInvalidQty):
		respondBadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, services.ErrOutOfStock):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeOutOfStock})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeConflict})
	case errors.Is(err, database.ErrConstraint):
		log.Printf("Constraint violation (%s): %v", context, err)
		c.JSON(http.StatusConflict, ErrorResponse{Error: "constraint violation", Code: CodeConstraint})
	case errors.Is(err, database.ErrBusy):
		log.Printf("Store busy (%s): %v", context, err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store is busy, try again", Code: CodeBusy})
	default:
		respondInternalError(c, err, context)
	}
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts a book id from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
	if err != nil || id < 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

// bindValues decodes a JSON object keyed by column name. Numbers keep their
// literal text so a price of 9 is stored as "9". Only scalar values and known
// columns are accepted.
func bindValues(c *gin.Context) (contract.Values, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "could not read request body")
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		respondBadRequest(c, "request body must be a JSON object")
		return nil, false
	}

	values := make(contract.Values, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case json.Number:
			values[k] = v.String()
		case string, bool, nil:
			values[k] = v
		default:
			respondBadRequest(c, fmt.Sprintf("field %q must be a scalar", k))
			return nil, false
		}
	}

	if err := values.CheckColumns(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeValidation})
		return nil, false
	}
	return values, true
}
