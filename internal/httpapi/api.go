package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"smartshop.org/internal/audit"
	"smartshop.org/internal/creds"
	"smartshop.org/internal/obs"
	"smartshop.org/internal/session"
	"smartshop.org/internal/vendors"
)

// Verifier is the authority boundary the login handler talks to.
type Verifier interface {
	Verify(ctx context.Context, username, digest string) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

// Searcher is the vendor aggregation boundary.
type Searcher interface {
	Search(ctx context.Context, query string) map[string]vendors.Result
}

// API is the HTTP layer.
type API struct {
	mux      *http.ServeMux
	verifier Verifier
	tokens   *creds.Issuer
	sessions *session.Store
	search   Searcher
	version  string

	rateBurst  int
	ratePerSec int
}

// New wires the handlers. All collaborators are passed in explicitly; the
// API owns no shared mutable state of its own.
func New(verifier Verifier, tokens *creds.Issuer, sessions *session.Store, search Searcher, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		verifier:   verifier,
		tokens:     tokens,
		sessions:   sessions,
		search:     search,
		version:    version,
		rateBurst:  20,
		ratePerSec: 10,
	}

	a.mux.HandleFunc("/login", a.handleLogin)
	a.mux.HandleFunc("/public", a.handlePublic)
	a.mux.HandleFunc("/private", a.handlePrivate)
	a.mux.HandleFunc("/session", a.handleSession)
	a.mux.HandleFunc("/product-search", a.handleProductSearch)

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- operational handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "smartshop-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := a.verifier.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// --- open and gated endpoints ---

func (a *API) handlePublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "This endpoint is open to anyone",
	})
}

func (a *API) handlePrivate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	identity, ok := creds.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "only valid bearer tokens reach this endpoint",
		"user":    identity,
	})
}

// handleSession serves the cached snapshot without re-contacting the
// authority.
func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	snap, ok := a.sessions.Current()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	body := map[string]any{"error": msg}
	if rid := audit.RequestIDFromContext(r.Context()); rid != "" {
		body["request_id"] = rid
	}
	writeJSON(w, code, body)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
}

func decodeJSON(r *http.Request, v any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}
