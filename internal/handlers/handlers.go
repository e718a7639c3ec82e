package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lojf/clientbook/internal/metrics"
	"github.com/lojf/clientbook/internal/services"
	"github.com/lojf/clientbook/internal/suggest"
	"github.com/lojf/clientbook/internal/views"
)

// Deps are the collaborators every handler needs. Ping may be nil.
type Deps struct {
	Views   views.Set
	Clients *services.Clients
	Suggest suggest.Suggester
	Metrics *metrics.Metrics
	Ping    func() error
	Log     *zap.SugaredLogger
}

type Handlers struct {
	Deps
}

func New(d Deps) *Handlers {
	if d.Suggest == nil {
		d.Suggest = suggest.Nop{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	return &Handlers{Deps: d}
}

func (h *Handlers) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Views.Render(w, page, data); err != nil {
		h.Log.Errorw("render failed", "page", page, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handlers) dbError(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	http.Error(w, "db error", http.StatusInternalServerError)
}

// clientID reads the {id} URL parameter. Ids start at 1.
func clientID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func formInput(r *http.Request) services.ClientInput {
	return services.ClientInput{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
		Phone: r.FormValue("phone"),
	}
}
