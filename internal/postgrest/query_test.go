package postgrest

import (
	"net/url"
	"testing"
)

func TestParamsOmitUnsetFilters(t *testing.T) {
	p := Params{}.Select("*").Order("updated_at.desc")
	q, err := url.ParseQuery(p.Encode())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(q) != 2 {
		t.Fatalf("expected only select and order, got %v", q)
	}
	if q.Get("select") != "*" || q.Get("order") != "updated_at.desc" {
		t.Fatalf("unexpected values: %v", q)
	}
}

func TestEq(t *testing.T) {
	p := Params{}.Eq("id", "abc-123")
	if p["id"] != "eq.abc-123" {
		t.Fatalf("got %q", p["id"])
	}
}

func TestILikeWrapsAndEscapes(t *testing.T) {
	p := Params{}.ILike("name", "50% off")
	if got, want := p["name"], `ilike.*50\% off*`; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEscapePattern(t *testing.T) {
	cases := map[string]string{
		"plain":   "plain",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		"x,y":     `x\,y`,
		"(group)": `\(group\)`,
		"":        "",
	}
	for in, want := range cases {
		if got := EscapePattern(in); got != want {
			t.Errorf("EscapePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

// A search term containing the dialect's metacharacters must not be able to
// add or split predicate terms inside the or group.
func TestOrILikeEscapesTermSeparators(t *testing.T) {
	p := Params{}.OrILike("a,b", "name", "notes")
	want := `(name.ilike.*a\,b*,notes.ilike.*a\,b*)`
	if p["or"] != want {
		t.Fatalf("got %q want %q", p["or"], want)
	}
}

func TestLimit(t *testing.T) {
	p := Params{}.Limit(1)
	if p["limit"] != "1" {
		t.Fatalf("got %q", p["limit"])
	}
}

func TestEncodeRoundTripsThroughURL(t *testing.T) {
	p := Params{}.Select("*,clients(name)").Eq("status", "active").OrILike("q&r", "name", "notes")
	q, err := url.ParseQuery(p.Encode())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.Get("select") != "*,clients(name)" {
		t.Fatalf("select mangled: %q", q.Get("select"))
	}
	if q.Get("status") != "eq.active" {
		t.Fatalf("status mangled: %q", q.Get("status"))
	}
	if q.Get("or") != `(name.ilike.*q&r*,notes.ilike.*q&r*)` {
		t.Fatalf("or mangled: %q", q.Get("or"))
	}
}
