package entities

import (
	"github.com/spf13/cast"

	"github.com/mrlokans/bookstore/internal/contract"
)

// Book is the typed view of one row of the books table.
type Book struct {
	ID                  int64  `json:"id"`
	ProductName         string `json:"product_name"`
	Price               string `json:"price"`
	Quantity            int64  `json:"quantity"`
	SupplierName        string `json:"supplier_name"`
	SupplierPhoneNumber string `json:"supplier_phone_number"`
}

// BookFromRow converts a row keyed by column name. Columns missing from a
// projected row keep their zero value; NULLs become empty strings.
func BookFromRow(row map[string]any) Book {
	return Book{
		ID:                  cast.ToInt64(row[contract.ColumnID]),
		ProductName:         cast.ToString(row[contract.ColumnProductName]),
		Price:               cast.ToString(row[contract.ColumnPrice]),
		Quantity:            cast.ToInt64(row[contract.ColumnQuantity]),
		SupplierName:        cast.ToString(row[contract.ColumnSupplierName]),
		SupplierPhoneNumber: cast.ToString(row[contract.ColumnSupplierPhoneNumber]),
	}
}

// Values returns an insert payload for the book. The id is left out because
// the store assigns it.
func (b Book) Values() contract.Values {
	return contract.Values{
		contract.ColumnProductName:         b.ProductName,
		contract.ColumnPrice:               b.Price,
		contract.ColumnQuantity:            b.Quantity,
		contract.ColumnSupplierName:        b.SupplierName,
		contract.ColumnSupplierPhoneNumber: b.SupplierPhoneNumber,
	}
}

// DialURI returns a tel: link for calling the supplier, or "" when the book
// has no phone number.
func (b Book) DialURI() string {
	if b.SupplierPhoneNumber == "" {
		return ""
	}
	return "tel:" + b.SupplierPhoneNumber
}
