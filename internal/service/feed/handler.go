package feed

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/fitmatch/engine/internal/app"
	"github.com/fitmatch/engine/internal/db"
	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/utils/httpx"
)

var validate = validator.New()

// Registrar ties the feed endpoints into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(router *mux.Router) {
	h := &handler{svc: NewService(r.appCtx)}
	router.HandleFunc("/feed", h.getFeed).Methods(http.MethodGet)
}

type handler struct {
	svc *Service
}

// getFeed handles GET /feed?radius_km=&goals=&level=&same_gym=.
func (h *handler) getFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	candidates, err := h.svc.BuildFeed(r.Context(), viewerID, filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
	})
}

func parseFilters(r *http.Request) (Filters, error) {
	q := r.URL.Query()
	var f Filters

	if raw := q.Get("radius_km"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, svcErr.InvalidInput("radius_km must be a number")
		}
		f.RadiusKm = radius
	}

	if raw := q.Get("goals"); raw != "" {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				f.Goals = append(f.Goals, g)
			}
		}
	}

	f.Level = db.Level(strings.ToLower(strings.TrimSpace(q.Get("level"))))

	switch strings.ToLower(q.Get("same_gym")) {
	case "1", "true", "yes", "on":
		f.SameGymOnly = true
	}

	if err := validate.Struct(f); err != nil {
		return f, svcErr.InvalidInput("invalid feed filters: " + err.Error())
	}
	return f, nil
}
