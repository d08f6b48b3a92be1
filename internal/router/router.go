// Package router classifies resource identifiers into routing codes.
//
// A Router is built once with its rules and never changes afterwards, so a
// single instance can be shared by any number of goroutines:
//
//	r := router.Default()
//	m := r.Route("content://com.example.android.bookstore/books/42")
//	// m.Kind == router.Item, m.ID == 42
package router

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mrlokans/bookstore/internal/contract"
)

// Kind is the routing code of an identifier.
type Kind int

const (
	Unroutable Kind = iota
	Collection
	Item
)

func (k Kind) String() string {
	switch k {
	case Collection:
		return "collection"
	case Item:
		return "item"
	default:
		return "unroutable"
	}
}

// IDWildcard matches one non-negative integer path segment.
const IDWildcard = "#"

// Rule maps a path pattern to a routing code. Segments are separated by "/";
// a segment equal to IDWildcard captures the row id.
type Rule struct {
	Pattern string
	Kind    Kind
}

// Match is the result of routing an identifier. ID is only set for Item.
type Match struct {
	Kind Kind
	ID   int64
}

type rule struct {
	segments []string
	kind     Kind
}

// Router matches identifiers against a fixed rule set.
type Router struct {
	authority string
	rules     []rule
}

// New returns a router for authority with the given rules. Rules are tried in
// order and the first match wins.
func New(authority string, rules ...Rule) *Router {
	r := &Router{authority: authority, rules: make([]rule, 0, len(rules))}
	for _, ru := range rules {
		r.rules = append(r.rules, rule{
			segments: strings.Split(ru.Pattern, "/"),
			kind:     ru.Kind,
		})
	}
	return r
}

// Default returns the router for the books table.
func Default() *Router {
	return ForAuthority(contract.Authority)
}

// ForAuthority returns the books router accepting authority in fully
// qualified identifiers.
func ForAuthority(authority string) *Router {
	return New(authority,
		Rule{Pattern: contract.PathBooks, Kind: Collection},
		Rule{Pattern: contract.PathBooks + "/" + IDWildcard, Kind: Item},
	)
}

// Authority returns the authority this router accepts.
func (r *Router) Authority() string {
	return r.authority
}

// Route classifies identifier. Accepted shapes are "books[/<id>]",
// "<authority>/books[/<id>]" and "content://<authority>/books[/<id>]".
func (r *Router) Route(identifier string) Match {
	path, ok := r.path(identifier)
	if !ok {
		return Match{Kind: Unroutable}
	}
	segments := strings.Split(path, "/")
	for _, ru := range r.rules {
		if m, ok := ru.match(segments); ok {
			return m
		}
	}
	return Match{Kind: Unroutable}
}

// path strips the scheme and authority from identifier.
func (r *Router) path(identifier string) (string, bool) {
	// Queries and fragments never address a row, not even empty ones.
	if identifier == "" || strings.ContainsAny(identifier, "?#") {
		return "", false
	}
	if strings.Contains(identifier, "://") {
		u, err := url.Parse(identifier)
		if err != nil || u.Scheme != contract.Scheme || u.User != nil || u.Host != r.authority {
			return "", false
		}
		if u.ForceQuery || u.RawQuery != "" || u.Fragment != "" || !strings.HasPrefix(u.Path, "/") {
			return "", false
		}
		return u.Path[1:], true
	}
	if rest, found := strings.CutPrefix(identifier, r.authority+"/"); found {
		return rest, true
	}
	return identifier, true
}

func (ru rule) match(segments []string) (Match, bool) {
	if len(segments) != len(ru.segments) {
		return Match{}, false
	}
	m := Match{Kind: ru.kind}
	for i, want := range ru.segments {
		got := segments[i]
		if want != IDWildcard {
			if got != want {
				return Match{}, false
			}
			continue
		}
		id, ok := parseID(got)
		if !ok {
			return Match{}, false
		}
		m.ID = id
	}
	return m, true
}

// parseID accepts base-10 digits only, so signs and spaces are rejected.
func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
