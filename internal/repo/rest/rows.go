package rest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/workroom-hq/workroom-go/internal/model"
)

// numeric decodes a nullable numeric column that may arrive as a JSON number
// or as a numeric string. Malformed or non-finite values decode to "unknown
// amount" (nil), never to an error; bad money data must not poison a whole
// listing.
type numeric struct{ val *float64 }

func (n *numeric) UnmarshalJSON(b []byte) error {
	n.val = nil
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var q string
		if json.Unmarshal(b, &q) != nil {
			return nil
		}
		s = strings.TrimSpace(q)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.val = &f
	return nil
}

func (n numeric) ptr() *float64 {
	if n.val == nil {
		return nil
	}
	f := *n.val
	return &f
}

// nameRow is the shape of a one-level embedded parent used only for its name,
// e.g. `clients(name)`.
type nameRow struct {
	Name *string `json:"name"`
}

func (r *nameRow) name() *string {
	if r == nil {
		return nil
	}
	return r.Name
}

// putOpt inserts col only when the patch field participates; an explicit
// clear becomes a JSON null.
func putOpt[T any](body map[string]any, col string, o model.Opt[T]) {
	if !o.Present() {
		return
	}
	if o.IsNull() {
		body[col] = nil
		return
	}
	v, _ := o.Get()
	body[col] = v
}

// putPtr inserts col only for a non-nil optional input field.
func putPtr[T any](body map[string]any, col string, v *T) {
	if v != nil {
		body[col] = *v
	}
}

func notFoundErr(kind, id string) error {
	return fmt.Errorf("%w: %s %s", model.ErrNotFound, kind, id)
}
