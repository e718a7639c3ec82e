package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lojf/clientbook/internal/metrics"
	"github.com/lojf/clientbook/internal/models"
	"github.com/lojf/clientbook/internal/services"
)

type addPage struct {
	Title       string
	Form        services.ClientInput
	Suggestions map[string][]string
	Flash       *Flash
}

type editPage struct {
	Title string
	ID    uint
	Form  services.ClientInput
	Flash *Flash
}

type listPage struct {
	Title    string
	Clients  []models.Client
	Searched bool
	Query    string
	Flash    *Flash
}

// GET /add
func (h *Handlers) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "add_client", addPage{Title: "Add client", Suggestions: map[string][]string{}})
}

// POST /add
func (h *Handlers) AddSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	in := formInput(r)

	sugg, err := h.suggestions(r.Context(), in)
	if err != nil {
		h.Log.Errorw("suggestion lookup failed", "err", err)
		http.Error(w, "suggestion service unavailable", http.StatusBadGateway)
		return
	}

	page := addPage{Title: "Add client", Form: in, Suggestions: sugg}
	c, err := h.Clients.Add(r.Context(), in)
	if err != nil {
		msg, ok := services.UserMessage(err)
		if !ok {
			h.dbError(w, r, err)
			return
		}
		page.Flash = errorFlash(msg)
		h.render(w, "add_client", page)
		return
	}
	page.Form = services.ClientInput{}
	page.Flash = okFlash(fmt.Sprintf("Client '%s' added.", c.Name))
	h.render(w, "add_client", page)
}

// suggestions asks the suggestion service about the name and, when given, the email.
func (h *Handlers) suggestions(ctx context.Context, in services.ClientInput) (map[string][]string, error) {
	out := map[string][]string{}
	for _, f := range []struct{ key, text string }{
		{services.FieldName, strings.TrimSpace(in.Name)},
		{services.FieldEmail, strings.TrimSpace(in.Email)},
	} {
		if f.text == "" {
			continue
		}
		got, err := h.Suggest.Suggest(ctx, f.text)
		if err != nil {
			h.Metrics.Suggest(metrics.ResultError)
			return nil, err
		}
		h.Metrics.Suggest(metrics.ResultOK)
		if len(got) > 0 {
			out[f.key] = got
		}
	}
	return out, nil
}

// GET /edit/{id}
func (h *Handlers) EditForm(w http.ResponseWriter, r *http.Request) {
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
	h.render(w, "edit_client", editPage{
		Title: "Edit client",
		ID:    c.ID,
		Form:  services.ClientInput{Name: c.Name, Email: c.EmailOrEmpty(), Phone: c.PhoneOrEmpty()},
	})
}

// POST /edit/{id}
func (h *Handlers) EditSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	_ = r.ParseForm()
	in := formInput(r)

	c, err := h.Clients.Edit(r.Context(), id, in)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		msg, ok := services.UserMessage(err)
		if !ok {
			h.dbError(w, r, err)
			return
		}
		h.render(w, "edit_client", editPage{Title: "Edit client", ID: id, Form: in, Flash: errorFlash(msg)})
		return
	}
	redirectToList(w, r, fmt.Sprintf("Client '%s' updated.", c.Name))
}

// GET /remove/{id}
func (h *Handlers) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	c, err := h.Clients.Remove(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		redirectToList(w, r, msgNotFound)
		return
	}
	if err != nil {
		h.dbError(w, r, err)
		return
	}
	redirectToList(w, r, fmt.Sprintf("Client '%s' removed.", c.Name))
}

// GET /view
func (h *Handlers) View(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Clients.List(r.Context())
	if err != nil {
		h.dbError(w, r, err)
		return
	}
	h.render(w, "view_clients", listPage{
		Title:   "Clients",
		Clients: clients,
		Flash:   MakeFlash(r, "", ""),
	})
}

func redirectToList(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/view?message="+url.QueryEscape(message), http.StatusSeeOther)
}
