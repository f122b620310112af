package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"smartshop.org/internal/vendors"
)

type vendorEntry struct {
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type searchResponse struct {
	Name    string                 `json:"name"`
	Results map[string]vendorEntry `json:"results"`
}

// handleProductSearch fans the query out to every configured vendor and
// returns their raw answers keyed by vendor name. Partial failure is a
// normal outcome; only a unanimous failure escalates.
func (a *API) handleProductSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	results := a.search.Search(r.Context(), name)

	entries := make(map[string]vendorEntry, len(results))
	for vendor, res := range results {
		entry := vendorEntry{Payload: res.Payload}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		entries[vendor] = entry
	}

	code := http.StatusOK
	if vendors.AllFailed(results) {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, searchResponse{Name: name, Results: entries})
}
