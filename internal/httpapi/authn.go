package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"smartshop.org/internal/creds"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Paths reachable without a token. Product search is deliberately open: it
// carries no session state.
var publicPaths = []string{
	"/login",
	"/public",
	"/product-search",
	"/metrics",
	"/healthz",
	"/readyz",
	"/",
}

// withAuth gates every non-public path behind bearer-token validation and
// stores the verified identity in the request context.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		identity, err := a.tokens.Validate(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			switch {
			case errors.Is(err, creds.ErrTokenExpired):
				writeError(w, r, http.StatusUnauthorized, "token expired")
			case errors.Is(err, creds.ErrTokenSignature):
				writeError(w, r, http.StatusUnauthorized, "bad token signature")
			default:
				writeError(w, r, http.StatusUnauthorized, "malformed token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(creds.ContextWithIdentity(r.Context(), identity)))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
