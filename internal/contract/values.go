package contract

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ErrUnknownColumn is returned for payload keys or projections that are not
// columns of the books table.
var ErrUnknownColumn = errors.New("unknown column")

// Values is a write payload: column name to value. A key mapped to nil is
// present with a null value, which is different from an absent key.
type Values map[string]any

// Has reports whether key is present, even if its value is nil.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// AsString returns the value of key as text. The second result is false when
// the key is absent, the value is nil, or it has no textual form.
func (v Values) AsString(key string) (string, bool) {
	raw, ok := v[key]
	if !ok || raw == nil {
		return "", false
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

// AsInteger returns the value of key as an integer. Numeric text is parsed in
// base 10; floating point values must be integral.
func (v Values) AsInteger(key string) (int64, bool) {
	raw, ok := v[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch n := raw.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	case float32:
		return integral(float64(n))
	case float64:
		return integral(n)
	case bool:
		return 0, false
	}
	i, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, false
	}
	return i, true
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Keys returns the payload keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheckColumns returns an error naming the first key that is not a column.
func (v Values) CheckColumns() error {
	for _, k := range v.Keys() {
		if !IsColumn(k) {
			return fmt.Errorf("%w %q", ErrUnknownColumn, k)
		}
	}
	return nil
}
