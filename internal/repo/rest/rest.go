// Package rest implements the repository contracts against the hosted
// PostgREST-style backend. Each entity file owns its row shape, the mapping
// to the domain model, and the repository methods for that table.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/config"
	"github.com/workroom-hq/workroom-go/internal/errs"
	"github.com/workroom-hq/workroom-go/internal/postgrest"
	"github.com/workroom-hq/workroom-go/internal/repo"
	"github.com/workroom-hq/workroom-go/internal/session"
	"github.com/workroom-hq/workroom-go/internal/storage"
)

// maxAttempts bounds retries of recoverable transport failures per request.
const maxAttempts = 4

type restStore struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
	sess    session.Session
	objects *storage.Client
}

// New constructs the REST-backed store. The HTTP client is wrapped so every
// request carries the apikey and bearer headers; a debug transport is layered
// underneath when requested via environment.
func New(cfg *config.Config, log zerolog.Logger, sess session.Session) repo.Store {
	base := http.RoundTripper(http.DefaultTransport)
	if debugLoggingRequested() {
		base = &debugTransport{base: base}
	}
	hc := &http.Client{
		Timeout:   cfg.HTTPTimeout(),
		Transport: &apiKeyTransport{base: base, apiKey: cfg.APIKey, token: sess.Token()},
	}
	return &restStore{
		http:    hc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		log:     log,
		sess:    sess,
		objects: storage.New(cfg.BaseURL, cfg.APIKey, cfg.StorageBucket),
	}
}

func (s *restStore) Clients() repo.Clients               { return &clients{s} }
func (s *restStore) Projects() repo.Projects             { return &projects{s} }
func (s *restStore) Tasks() repo.Tasks                   { return &tasks{s} }
func (s *restStore) TaskCategories() repo.TaskCategories { return &categories{s} }
func (s *restStore) Documents() repo.Documents           { return &documents{s} }
func (s *restStore) Notes() repo.ClientNotes             { return &notes{s} }

// apiKeyTransport adds the apikey and Authorization headers to every request.
type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
	token  string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("apikey", t.apiKey)
	bearer := t.token
	if bearer == "" {
		bearer = t.apiKey
	}
	cloned.Header.Set("Authorization", "Bearer "+bearer)
	return t.base.RoundTrip(cloned)
}

// ------------------------------
// request plumbing
// ------------------------------

// doPath issues one JSON request against an absolute backend path and decodes
// the response into out (out may be nil). A 204 or empty body is "no content",
// not an error. Recoverable failures are retried with exponential backoff;
// irrecoverable ones fail immediately.
func (s *restStore) doPath(ctx context.Context, method, p string, params postgrest.Params, body any, out any, extra map[string]string) error {
	op := method + " " + p

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	url := s.baseURL + p
	if len(params) > 0 {
		url += "?" + params.Encode()
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	exp.MaxInterval = 5 * time.Second
	bo := backoff.WithContext(backoff.WithMaxRetries(exp, maxAttempts-1), ctx)

	return backoff.Retry(func() error {
		err := s.doOnce(ctx, method, op, url, payload, out, extra)
		if err != nil && errs.IsIrrecoverable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

func (s *restStore) doOnce(ctx context.Context, method, op, url string, payload []byte, out any, extra map[string]string) error {
	if err := ctx.Err(); err != nil {
		return backoff.Permanent(err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return backoff.Permanent(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(method).Inc()
	if err != nil {
		requestFailuresTotal.WithLabelValues(method).Inc()
		return errs.FromNetwork(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		requestFailuresTotal.WithLabelValues(method).Inc()
		raw, _ := io.ReadAll(resp.Body)
		return errs.FromStatus(op, resp.StatusCode, string(raw))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.FromNetwork(op, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return backoff.Permanent(err)
	}
	return nil
}

// table helpers against /rest/v1/<table>

func (s *restStore) getRows(ctx context.Context, table string, params postgrest.Params, out any) error {
	return s.doPath(ctx, http.MethodGet, "/rest/v1/"+table, params, nil, out, nil)
}

// insert posts body and asks for the affected rows back.
func (s *restStore) insert(ctx context.Context, table string, body, out any) error {
	return s.doPath(ctx, http.MethodPost, "/rest/v1/"+table, nil, body, out,
		map[string]string{"Prefer": "return=representation"})
}

func (s *restStore) patchRows(ctx context.Context, table string, params postgrest.Params, body any) error {
	return s.doPath(ctx, http.MethodPatch, "/rest/v1/"+table, params, body, nil, nil)
}

// deleteRows is a no-op from the caller's perspective when nothing matches.
func (s *restStore) deleteRows(ctx context.Context, table string, params postgrest.Params) error {
	return s.doPath(ctx, http.MethodDelete, "/rest/v1/"+table, params, nil, nil, nil)
}
