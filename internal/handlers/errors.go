package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"modshop/internal/services"
	"modshop/internal/utils"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeServiceError answers with the status for err. Internal failures are logged and
// reported with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
		utils.SendJSONError(w, "Internal server error", status)
		return
	}
	log.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg(msg)
	utils.SendJSONError(w, err.Error(), status)
}

func respondWithCount(w http.ResponseWriter, count int64) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// queryVersion reads the optional ?version= parameter. ok is false when it was present but
// malformed; a 400 has then been written.
func queryVersion(w http.ResponseWriter, r *http.Request) (_ *int64, ok bool) {
	raw := r.URL.Query().Get("version")
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		utils.SendJSONError(w, "version must be a non-negative integer", http.StatusBadRequest)
		return nil, false
	}
	return &v, true
}
