// internal/handlers/flash.go
package handlers

import (
	"net/http"
	"strings"
)

type Flash struct {
	Kind string // "ok" or "error"
	Text string
}

const msgNotFound = "Client not found."

// Messages that arrive through ?message= but describe a failure.
var errText = map[string]bool{
	msgNotFound: true,
}

// MakeFlash reads ?message= and falls back to the handler-provided strings.
func MakeFlash(r *http.Request, errStr, msgStr string) *Flash {
	if raw := strings.TrimSpace(r.URL.Query().Get("message")); raw != "" {
		if errText[raw] {
			return &Flash{Kind: "error", Text: raw}
		}
		return &Flash{Kind: "ok", Text: raw}
	}
	if errStr != "" {
		return &Flash{Kind: "error", Text: errStr}
	}
	if msgStr != "" {
		return &Flash{Kind: "ok", Text: msgStr}
	}
	return nil
}

func okFlash(text string) *Flash    { return &Flash{Kind: "ok", Text: text} }
func errorFlash(text string) *Flash { return &Flash{Kind: "error", Text: text} }
