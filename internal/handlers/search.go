package handlers

import (
	"net/http"
	"strings"
)

// GET /search
func (h *Handlers) SearchForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "search_client", map[string]any{"Title": "Search clients"})
}

// POST /search
func (h *Handlers) SearchSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	q := strings.TrimSpace(r.FormValue("search_term"))

	clients, err := h.Clients.Search(r.Context(), q)
	if err != nil {
		h.dbError(w, r, err)
		return
	}
	h.render(w, "view_clients", listPage{
		Title:    "Search results",
		Clients:  clients,
		Searched: true,
		Query:    q,
	})
}
