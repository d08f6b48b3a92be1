// Package validator checks book write payloads before they reach the store.
//
// Validation is pure: it never touches storage and always ends in either nil
// or an *Error listing every failing field.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mrlokans/bookstore/internal/contract"
)

// PhoneRX matches digits and hyphens in any order, including the empty string.
var PhoneRX = regexp.MustCompile(`^[0-9-]*$`)

// Messages reported per field.
const (
	MsgMissingTitle  = "missing title"
	MsgInvalidPrice  = "missing/invalid price"
	MsgInvalidQty    = "invalid quantity"
	MsgInvalidPhone  = "invalid phone number"
	MsgIDNotWritable = "id is assigned by the store"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid payload")

// Mode selects the insert or update rule set.
type Mode int

const (
	Insert Mode = iota
	Update
)

func (m Mode) String() string {
	if m == Update {
		return "update"
	}
	return "insert"
}

// Error carries the failing fields and their messages.
type Error struct {
	Mode   Mode
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s rejected: %s", e.Mode, strings.Join(parts, "; "))
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Validator accumulates field errors. The first message recorded for a field
// is the one reported.
type Validator struct {
	Errors map[string]string
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid reports whether no errors were recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message for key unless key already failed.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check records message for key when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Matches reports whether value matches rx.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// ValidateBook applies the book rules to values. On insert, productName,
// price and supplierPhoneNumber must be present; on update only the keys
// present are checked.
func ValidateBook(v *Validator, values contract.Values, mode Mode) {
	required := mode == Insert

	v.Check(!values.Has(contract.ColumnID), contract.ColumnID, MsgIDNotWritable)

	if required || values.Has(contract.ColumnProductName) {
		name, ok := values.AsString(contract.ColumnProductName)
		v.Check(ok && name != "", contract.ColumnProductName, MsgMissingTitle)
	}

	if required || values.Has(contract.ColumnPrice) {
		_, ok := values.AsString(contract.ColumnPrice)
		v.Check(ok, contract.ColumnPrice, MsgInvalidPrice)
	}

	if values.Has(contract.ColumnQuantity) {
		qty, ok := values.AsInteger(contract.ColumnQuantity)
		v.Check(ok && qty >= 0, contract.ColumnQuantity, MsgInvalidQty)
	}

	if required || values.Has(contract.ColumnSupplierPhoneNumber) {
		phone, ok := values.AsString(contract.ColumnSupplierPhoneNumber)
		v.Check(ok && Matches(phone, PhoneRX), contract.ColumnSupplierPhoneNumber, MsgInvalidPhone)
	}
}

// Validate runs ValidateBook on a fresh Validator and returns nil or *Error.
func Validate(values contract.Values, mode Mode) error {
	v := New()
	ValidateBook(v, values, mode)
	if v.Valid() {
		return nil
	}
	return &Error{Mode: mode, Fields: v.Errors}
}
