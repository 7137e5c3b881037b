package discom

import (
	"encoding/json"
	"net/http"
	"sort"
)

// Handler serves the static provider reference table.
type Handler struct{}

// NewHandler constructs a discom handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeHTTP handles GET /api/v1/discoms. Without a name parameter it
// lists the known provider names.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	name := r.URL.Query().Get("name")
	if name == "" {
		names := Names()
		sort.Strings(names)
		_ = json.NewEncoder(w).Encode(map[string]any{"discoms": names})
		return
	}

	d, ok := Lookup(name)
	if !ok {
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(d)
}
