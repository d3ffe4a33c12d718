package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	svcErr "github.com/fitmatch/engine/internal/errors"
	"github.com/fitmatch/engine/internal/logger"
)

// RespondJSON writes payload as a JSON response.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError maps err through the engine error taxonomy and writes it.
// 5xx causes are logged here so handlers don't have to.
func RespondError(w http.ResponseWriter, err error) {
	apiErr := svcErr.Map(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", apiErr.Code, "err", err)
	}
	RespondJSON(w, apiErr.Status, apiErr)
}

// UserID extracts the caller's id. Authentication happens upstream; the
// gateway injects the verified id as X-User-ID.
func UserID(r *http.Request) (uint64, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, svcErr.Unauthorized("missing X-User-ID header")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Unauthorized("invalid X-User-ID header")
	}
	return id, nil
}
