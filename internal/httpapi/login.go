package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"smartshop.org/internal/audit"
	"smartshop.org/internal/authority"
	"smartshop.org/internal/creds"
	"smartshop.org/internal/obs"
	"smartshop.org/internal/snapshot"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Auth      *snapshot.Snapshot `json:"auth"`
}

// handleLogin runs the whole login pipeline: digest, authority verification,
// snapshot decode, durable save, token issuance. Credential rejections stay
// distinguishable from operational failures all the way to the client.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	// The plaintext secret is digested immediately and not referenced again.
	digest := creds.Digest(req.Password)

	raw, err := a.verifier.Verify(r.Context(), username, digest)
	if err != nil {
		switch {
		case errors.Is(err, authority.ErrInvalidCredentials):
			_ = audit.LogEvent(r.Context(), "login.rejected", map[string]any{"username": username})
			writeError(w, r, http.StatusUnauthorized, "account was not found")
		case errors.Is(err, authority.ErrUnavailable):
			obs.Log("error", "authority unavailable", map[string]any{"error": err.Error()})
			writeError(w, r, http.StatusServiceUnavailable, "service unavailable, try again later")
		default:
			obs.Log("error", "authority verification failed", map[string]any{"error": err.Error()})
			writeError(w, r, http.StatusInternalServerError, "service error")
		}
		return
	}

	snap, err := snapshot.Decode(raw)
	if err != nil {
		// Schema drift on the authority side; keep the detail internal.
		obs.Log("error", "authority payload rejected", map[string]any{"error": err.Error()})
		writeError(w, r, http.StatusInternalServerError, "service error")
		return
	}

	if err := a.sessions.Save(snap); err != nil {
		obs.Log("error", "session save failed", map[string]any{"error": err.Error()})
		writeError(w, r, http.StatusInternalServerError, "service error")
		return
	}
	_ = audit.LogEvent(r.Context(), "session.saved", map[string]any{"company": snap.Company.ID})

	token, expiresAt, err := a.tokens.Issue(username)
	if err != nil {
		obs.Log("error", "token issuance failed", map[string]any{"error": err.Error()})
		writeError(w, r, http.StatusInternalServerError, "service error")
		return
	}
	_ = audit.LogEvent(r.Context(), "login.succeeded", map[string]any{
		"username":   username,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Auth:      snap,
	})
}
