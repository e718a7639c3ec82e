package handlers

import (
	"errors"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/lojf/clientbook/internal/models"
	"github.com/lojf/clientbook/internal/services"
)

// GET /clients/{id}/qr.png renders the client as a scannable vCard.
func (h *Handlers) QR(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	c, err := h.Clients.Get(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.dbError(w, r, err)
		return
	}

	png, err := qrcode.Encode(VCard(*c), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

var vcardEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\n", `\n`)

// VCard encodes c as a vCard 3.0 card. Absent fields are left out.
func VCard(c models.Client) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	b.WriteString("FN:" + vcardEscaper.Replace(c.Name) + "\r\n")
	if e := c.EmailOrEmpty(); e != "" {
		b.WriteString("EMAIL:" + vcardEscaper.Replace(e) + "\r\n")
	}
	if p := c.PhoneOrEmpty(); p != "" {
		b.WriteString("TEL:" + vcardEscaper.Replace(p) + "\r\n")
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}
