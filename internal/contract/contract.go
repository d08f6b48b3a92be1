// Package contract describes the books table and the identifiers used to
// address it. Nothing in here changes at runtime.
//
// # Identifiers
//
// A collection identifier addresses the whole table:
//
//	content://com.example.android.bookstore/books
//
// An item identifier addresses one row by id:
//
//	content://com.example.android.bookstore/books/3
//
// The short forms "books" and "books/3" are accepted by the router as well.
package contract

import (
	"strconv"
	"strings"
)

const (
	// Authority namespaces every identifier and kind tag.
	Authority = "com.example.android.bookstore"

	// Scheme is the scheme of fully qualified identifiers.
	Scheme = "content"

	// PathBooks is the path segment of the books collection.
	PathBooks = "books"

	// TableName is the name of the books table in the store.
	TableName = "books"
)

// Column names of the books table.
const (
	ColumnID                  = "id"
	ColumnProductName         = "productName"
	ColumnPrice               = "price"
	ColumnQuantity            = "quantity"
	ColumnSupplierName        = "supplierName"
	ColumnSupplierPhoneNumber = "supplierPhoneNumber"
)

// Kind tags follow the directory/item convention of cursor MIME types.
const (
	dirBaseType  = "vnd.android.cursor.dir"
	itemBaseType = "vnd.android.cursor.item"

	// ContentListType is the kind of a collection identifier.
	ContentListType = dirBaseType + "/" + Authority + "/" + PathBooks

	// ContentItemType is the kind of an item identifier.
	ContentItemType = itemBaseType + "/" + Authority + "/" + PathBooks
)

// ContentURI is the fully qualified collection identifier.
const ContentURI = Scheme + "://" + Authority + "/" + PathBooks

var columns = []string{
	ColumnID,
	ColumnProductName,
	ColumnPrice,
	ColumnQuantity,
	ColumnSupplierName,
	ColumnSupplierPhoneNumber,
}

// Columns returns the table columns in declaration order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// IsColumn reports whether name is a column of the books table.
func IsColumn(name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// CollectionURI returns the fully qualified collection identifier under
// authority. CollectionURI(Authority) equals ContentURI.
func CollectionURI(authority string) string {
	return Scheme + "://" + authority + "/" + PathBooks
}

// ItemURI appends id to a collection identifier.
func ItemURI(collection string, id int64) string {
	return strings.TrimSuffix(collection, "/") + "/" + strconv.FormatInt(id, 10)
}
