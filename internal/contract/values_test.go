package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues_AsString(t *testing.T) {
	v := Values{
		ColumnProductName:  "The Giver",
		ColumnPrice:        9,
		ColumnSupplierName: nil,
	}

	s, ok := v.AsString(ColumnProductName)
	require.True(t, ok)
	assert.Equal(t, "The Giver", s)

	s, ok = v.AsString(ColumnPrice)
	require.True(t, ok)
	assert.Equal(t, "9", s)

	_, ok = v.AsString(ColumnSupplierName)
	assert.False(t, ok, "nil value has no text")

	_, ok = v.AsString(ColumnQuantity)
	assert.False(t, ok, "absent key has no text")
}

func TestValues_AsInteger(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{"int", 4, 4, true},
		{"int64", int64(-1), -1, true},
		{"numeric text", "12", 12, true},
		{"padded text", " 3 ", 3, true},
		{"integral float", 2.0, 2, true},
		{"fractional float", 2.5, 0, false},
		{"word", "four", 0, false},
		{"empty text", "", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Values{ColumnQuantity: tt.value}.AsInteger(ColumnQuantity)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValues_HasAndKeys(t *testing.T) {
	v := Values{ColumnSupplierName: nil, ColumnPrice: "9"}

	assert.True(t, v.Has(ColumnSupplierName))
	assert.False(t, v.Has(ColumnQuantity))
	assert.Equal(t, []string{ColumnPrice, ColumnSupplierName}, v.Keys())
}

func TestValues_CheckColumns(t *testing.T) {
	assert.NoError(t, Values{ColumnPrice: "1"}.CheckColumns())
	err := Values{"colour": "red"}.CheckColumns()
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.ErrorContains(t, err, "colour")
}

func TestItemURI(t *testing.T) {
	assert.Equal(t, "books/1", ItemURI("books", 1))
	assert.Equal(t, ContentURI+"/42", ItemURI(ContentURI, 42))
	assert.Equal(t, "books/7", ItemURI("books/", 7))
}

func TestCollectionURI(t *testing.T) {
	assert.Equal(t, ContentURI, CollectionURI(Authority))
	assert.Equal(t, "content://org.example.shop/books", CollectionURI("org.example.shop"))
}

func TestColumns_ReturnsCopy(t *testing.T) {
	cols := Columns()
	cols[0] = "mutated"

	assert.Equal(t, ColumnID, Columns()[0])
	assert.True(t, IsColumn(ColumnSupplierPhoneNumber))
	assert.False(t, IsColumn("_id"))
}
