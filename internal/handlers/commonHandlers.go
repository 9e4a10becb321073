package handlers

import (
	"net/http"

	"modshop/internal/database"
	"modshop/internal/utils"
)

type CommonHandler struct {
	db database.Service
}

func NewCommonHandler(db database.Service) *CommonHandler {
	return &CommonHandler{db: db}
}

func (h *CommonHandler) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithMessage(w, http.StatusOK, "modshop API is running")
}

// HealthHandler reports the database ping result; an unreachable database answers 503.
func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := h.db.Health()
	status := http.StatusOK
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	utils.RespondWithJSON(w, status, health)
}
