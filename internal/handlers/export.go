package handlers

import (
	"bytes"
	"net/http"

	"github.com/lojf/clientbook/internal/services"
)

// GET /export
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Clients.Export(r.Context(), &buf); err != nil {
		h.dbError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+services.ExportFilename)
	_, _ = buf.WriteTo(w)
}
