// Package repotest holds the repository compliance suite and a fake backend
// speaking enough of the PostgREST dialect to exercise the REST driver
// without a hosted instance.
package repotest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workroom-hq/workroom-go/internal/model"
)

type row = map[string]any

// relation describes one embeddable relationship reachable from a table's
// select projection.
type relation struct {
	embed  string // key used in select and in the response payload
	table  string
	fk     string // column on the child (toMany) or on the row itself (toOne)
	toMany bool
}

// FakeBackend is an http.Handler that emulates the subset of the backend the
// REST driver uses: /rest/v1 tables with eq/ilike/or/order/limit/select,
// /auth/v1/admin/users, and /storage/v1/object uploads. State lives in
// memory; rows keep whatever columns the driver writes plus generated
// id/created_at/updated_at.
type FakeBackend struct {
	mu     sync.Mutex
	tables map[string][]row
	rels   map[string][]relation

	objects   map[string][]byte
	authUsers []string
	requests  []string

	authStatus  int // non-zero: provisioning fails with this status
	patchStatus int // non-zero: next PATCH fails with this status, once

	clock time.Time
}

// NewFakeBackend builds an empty backend with the application's relations
// wired in.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		tables:  map[string][]row{},
		objects: map[string][]byte{},
		clock:   time.Now().UTC(),
		rels: map[string][]relation{
			"clients": {
				{embed: "client_contacts", table: "client_contacts", fk: "client_id", toMany: true},
				{embed: "documents", table: "documents", fk: "client_id", toMany: true},
			},
			"projects": {
				{embed: "clients", table: "clients", fk: "client_id"},
			},
			"tasks": {
				{embed: "clients", table: "clients", fk: "client_id"},
				{embed: "projects", table: "projects", fk: "project_id"},
			},
			"client_notes": {
				{embed: "client_note_attachments", table: "client_note_attachments", fk: "note_id", toMany: true},
			},
		},
	}
}

// FailAuth makes every subsequent auth provisioning call fail with status.
// Zero restores success.
func (f *FakeBackend) FailAuth(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authStatus = status
}

// FailNextPatch makes the next PATCH request fail with status, then resets.
func (f *FakeBackend) FailNextPatch(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patchStatus = status
}

// AuthUsers returns the ids of provisioned identities, in creation order.
func (f *FakeBackend) AuthUsers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authUsers...)
}

// Objects returns the stored object keys (bucket/path).
func (f *FakeBackend) Objects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

// Rows returns a copy of a table's rows, in insertion order.
func (f *FakeBackend) Rows(table string) []row {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]row, 0, len(f.tables[table]))
	for _, r := range f.tables[table] {
		out = append(out, copyRow(r))
	}
	return out
}

// Requests returns "METHOD path?rawquery" for every request seen.
func (f *FakeBackend) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	line := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		line += "?" + r.URL.RawQuery
	}
	f.requests = append(f.requests, line)
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/v1/admin/users" && r.Method == http.MethodPost:
		f.handleAuth(w, r)
	case strings.HasPrefix(r.URL.Path, "/storage/v1/object/"):
		f.handleObject(w, r)
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		f.handleTable(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeBackend) handleAuth(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.authStatus != 0 {
		http.Error(w, `{"msg":"provisioning disabled"}`, f.authStatus)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	id := uuid.NewString()
	f.authUsers = append(f.authUsers, id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "email": body.Email})
}

func (f *FakeBackend) handleObject(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/")
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPost:
		content, _ := io.ReadAll(r.Body)
		f.objects[key] = content
		writeJSON(w, http.StatusOK, map[string]any{"Key": key})
	case http.MethodDelete:
		if _, ok := f.objects[key]; !ok {
			http.Error(w, `{"msg":"object not found"}`, http.StatusNotFound)
			return
		}
		delete(f.objects, key)
		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (f *FakeBackend) handleTable(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	q := r.URL.Query()

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		rows := f.matchRows(table, q)
		orderRows(rows, q.Get("order"))
		if lim := q.Get("limit"); lim != "" {
			var n int
			fmt.Sscanf(lim, "%d", &n)
			if n >= 0 && n < len(rows) {
				rows = rows[:n]
			}
		}
		out := make([]row, 0, len(rows))
		for _, rw := range rows {
			out = append(out, f.shape(table, rw, q.Get("select")))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		inserted, err := f.insert(table, r.Body)
		if err != nil {
			http.Error(w, `{"msg":"bad payload"}`, http.StatusBadRequest)
			return
		}
		if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
			writeJSON(w, http.StatusCreated, inserted)
			return
		}
		w.WriteHeader(http.StatusCreated)

	case http.MethodPatch:
		if f.patchStatus != 0 {
			status := f.patchStatus
			f.patchStatus = 0
			http.Error(w, `{"msg":"patch rejected"}`, status)
			return
		}
		var patch row
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, `{"msg":"bad payload"}`, http.StatusBadRequest)
			return
		}
		for _, rw := range f.matchRows(table, q) {
			for k, v := range patch {
				rw[k] = v
			}
			rw["updated_at"] = f.now()
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		matched := f.matchRows(table, q)
		kept := f.tables[table][:0]
		for _, rw := range f.tables[table] {
			if !containsRow(matched, rw) {
				kept = append(kept, rw)
			}
		}
		f.tables[table] = kept
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (f *FakeBackend) insert(table string, body io.Reader) ([]row, error) {
	var raw any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}
	var incoming []row
	switch v := raw.(type) {
	case []any:
		for _, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("array element is not an object")
			}
			incoming = append(incoming, m)
		}
	case map[string]any:
		incoming = append(incoming, v)
	default:
		return nil, fmt.Errorf("unsupported payload")
	}

	inserted := make([]row, 0, len(incoming))
	for _, rw := range incoming {
		if _, ok := rw["id"]; !ok {
			rw["id"] = uuid.NewString()
		}
		ts := f.now()
		if _, ok := rw["created_at"]; !ok {
			rw["created_at"] = ts
		}
		if _, ok := rw["updated_at"]; !ok {
			rw["updated_at"] = ts
		}
		f.tables[table] = append(f.tables[table], rw)
		inserted = append(inserted, copyRow(rw))
	}
	return inserted, nil
}

// matchRows returns pointers into table storage for rows satisfying every
// filter parameter. Reserved keys (select, order, limit) are not filters.
func (f *FakeBackend) matchRows(table string, q map[string][]string) []row {
	var out []row
nextRow:
	for _, rw := range f.tables[table] {
		for key, vals := range q {
			if key == "select" || key == "order" || key == "limit" || len(vals) == 0 {
				continue
			}
			if key == "or" {
				if !matchOr(rw, vals[0]) {
					continue nextRow
				}
				continue
			}
			if !matchPredicate(rw, key, vals[0]) {
				continue nextRow
			}
		}
		out = append(out, rw)
	}
	return out
}

// matchPredicate evaluates one "op.value" constraint against a column.
func matchPredicate(rw row, col, pred string) bool {
	op, val, ok := strings.Cut(pred, ".")
	if !ok {
		return false
	}
	switch op {
	case "eq":
		return colString(rw[col]) == val
	case "ilike":
		return ilikeMatch(val, colString(rw[col]))
	}
	return false
}

// matchOr evaluates "(c1.op.v,c2.op.v)"; commas inside patterns arrive
// backslash-escaped and must not split terms.
func matchOr(rw row, group string) bool {
	group = strings.TrimSuffix(strings.TrimPrefix(group, "("), ")")
	for _, term := range splitUnescaped(group, ',') {
		col, pred, ok := strings.Cut(term, ".")
		if ok && matchPredicate(rw, col, pred) {
			return true
		}
	}
	return false
}

func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			cur.WriteByte(s[i])
			cur.WriteByte(s[i+1])
			i++
			continue
		}
		if s[i] == sep {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(s[i])
	}
	parts = append(parts, cur.String())
	return parts
}

// ilikeMatch interprets the dialect's pattern: * is a wildcard, backslash
// escapes a literal metacharacter, matching is case-insensitive.
func ilikeMatch(pattern, value string) bool {
	var sb strings.Builder
	sb.WriteString("(?is)^")
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			if i+1 < len(pattern) {
				i++
				sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
			}
		case '*', '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
	}
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// shape copies a row and attaches the embeds named in the select projection.
func (f *FakeBackend) shape(table string, rw row, sel string) row {
	out := copyRow(rw)
	if sel == "" {
		return out
	}
	for _, part := range splitProjection(sel) {
		name, inner, ok := strings.Cut(part, "(")
		if !ok {
			continue
		}
		inner = strings.TrimSuffix(inner, ")")
		rel, found := f.relation(table, name)
		if !found {
			continue
		}
		if rel.toMany {
			children := []row{}
			for _, child := range f.tables[rel.table] {
				if colString(child[rel.fk]) == colString(rw["id"]) {
					children = append(children, project(child, inner))
				}
			}
			out[rel.embed] = children
			continue
		}
		fkVal := colString(rw[rel.fk])
		out[rel.embed] = nil
		if fkVal == "" {
			continue
		}
		for _, parent := range f.tables[rel.table] {
			if colString(parent["id"]) == fkVal {
				out[rel.embed] = project(parent, inner)
				break
			}
		}
	}
	return out
}

func (f *FakeBackend) relation(table, embed string) (relation, bool) {
	for _, rel := range f.rels[table] {
		if rel.embed == embed {
			return rel, true
		}
	}
	return relation{}, false
}

// splitProjection splits a select value on top-level commas only.
func splitProjection(sel string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	for i := 0; i < len(sel); i++ {
		switch sel[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, cur.String())
				cur.Reset()
				continue
			}
		}
		cur.WriteByte(sel[i])
	}
	parts = append(parts, cur.String())
	return parts
}

func project(rw row, cols string) row {
	if cols == "*" || cols == "" {
		return copyRow(rw)
	}
	out := row{}
	for _, c := range strings.Split(cols, ",") {
		out[c] = rw[c]
	}
	return out
}

func copyRow(rw row) row {
	out := make(row, len(rw))
	for k, v := range rw {
		out[k] = v
	}
	return out
}

func containsRow(set []row, rw row) bool {
	for _, e := range set {
		if colString(e["id"]) == colString(rw["id"]) {
			return true
		}
	}
	return false
}

func colString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// orderRows applies a compound "col.dir,col.dir" order key.
func orderRows(rows []row, key string) {
	if key == "" {
		return
	}
	type clause struct {
		col  string
		desc bool
	}
	var clauses []clause
	for _, part := range strings.Split(key, ",") {
		col, dir, _ := strings.Cut(part, ".")
		clauses = append(clauses, clause{col: col, desc: dir == "desc"})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, c := range clauses {
			av, bv := colString(rows[i][c.col]), colString(rows[j][c.col])
			if av == bv {
				continue
			}
			if c.desc {
				return av > bv
			}
			return av < bv
		}
		return false
	})
}

func (f *FakeBackend) now() string {
	f.clock = f.clock.Add(time.Millisecond)
	return f.clock.Format(model.TimestampLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
