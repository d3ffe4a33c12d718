package swipe

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/fitmatch/engine/internal/app"
	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/utils/httpx"
)

var validate = validator.New()

// Registrar ties the swipe endpoints into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(router *mux.Router) {
	h := &handler{svc: NewService(r.appCtx)}
	router.HandleFunc("/swipes/like", h.like).Methods(http.MethodPost)
	router.HandleFunc("/swipes/pass", h.pass).Methods(http.MethodPost)
	router.HandleFunc("/blocks", h.block).Methods(http.MethodPost)
	router.HandleFunc("/admirers", h.listAdmirers).Methods(http.MethodGet)
	router.HandleFunc("/admirers/count", h.countAdmirers).Methods(http.MethodGet)
}

type handler struct {
	svc *Service
}

type targetRequest struct {
	ToUserID uint64 `json:"toUserId" validate:"required"`
}

func decodeTarget(r *http.Request) (uint64, error) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, svcErr.InvalidInput("invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return 0, svcErr.InvalidInput("toUserId is required")
	}
	return req.ToUserID, nil
}

func (h *handler) like(w http.ResponseWriter, r *http.Request) {
	fromID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	toID, err := decodeTarget(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	result, err := h.svc.Like(r.Context(), fromID, toID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, result)
}

func (h *handler) pass(w http.ResponseWriter, r *http.Request) {
	fromID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	toID, err := decodeTarget(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.svc.Pass(r.Context(), fromID, toID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]bool{"passed": true})
}

func (h *handler) block(w http.ResponseWriter, r *http.Request) {
	fromID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	toID, err := decodeTarget(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.svc.Block(r.Context(), fromID, toID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]bool{"blocked": true})
}

func (h *handler) listAdmirers(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var token *string
	if raw := r.URL.Query().Get("token"); raw != "" {
		token = &raw
	}

	admirers, nextToken, err := h.svc.ListAdmirers(r.Context(), userID, token)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	resp := map[string]interface{}{"admirers": admirers}
	if nextToken != nil {
		resp["nextToken"] = *nextToken
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *handler) countAdmirers(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	count, err := h.svc.CountAdmirers(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]int64{"count": count})
}
