// Package postgrest builds query-parameter maps for the backend's
// PostgREST-style filter dialect (`column=operator.value`).
package postgrest

import (
	"fmt"
	"net/url"
	"strings"
)

// Params is a query-parameter map. Builders only ever insert a key when a
// constraint actually exists; omission is the contract for "no constraint".
type Params map[string]string

// patternEscaper backslash-escapes the wildcard and grouping metacharacters
// of the dialect so user text cannot alter query semantics or inject extra
// predicate terms.
var patternEscaper = strings.NewReplacer(
	`%`, `\%`,
	`_`, `\_`,
	`,`, `\,`,
	`(`, `\(`,
	`)`, `\)`,
)

// EscapePattern escapes `% _ , ( )` in s for use inside an ilike pattern.
func EscapePattern(s string) string { return patternEscaper.Replace(s) }

// Eq adds an equality constraint on col.
func (p Params) Eq(col, value string) Params {
	p[col] = "eq." + value
	return p
}

// ILike adds a case-insensitive substring constraint on col.
func (p Params) ILike(col, query string) Params {
	p[col] = "ilike.*" + EscapePattern(query) + "*"
	return p
}

// OrILike adds a multi-column OR of case-insensitive substring constraints.
func (p Params) OrILike(query string, cols ...string) Params {
	esc := EscapePattern(query)
	terms := make([]string, len(cols))
	for i, c := range cols {
		terms[i] = c + ".ilike.*" + esc + "*"
	}
	p["or"] = "(" + strings.Join(terms, ",") + ")"
	return p
}

// Order sets the sort key, e.g. "updated_at.desc" or a compound
// "is_resolved.asc,created_at.desc".
func (p Params) Order(key string) Params {
	p["order"] = key
	return p
}

// Limit caps the number of returned rows.
func (p Params) Limit(n int) Params {
	p["limit"] = fmt.Sprintf("%d", n)
	return p
}

// Select sets the column/embed projection, e.g. "*,clients(name)".
func (p Params) Select(projection string) Params {
	p["select"] = projection
	return p
}

// Encode renders the parameters as a URL query string.
func (p Params) Encode() string {
	v := url.Values{}
	for k, val := range p {
		v.Set(k, val)
	}
	return v.Encode()
}
