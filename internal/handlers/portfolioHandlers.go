package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"modshop/internal/models"
	"modshop/internal/services"
	"modshop/internal/utils"
)

type PortfolioHandler struct {
	service services.PortfolioService
}

func NewPortfolioHandler(service services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.service.GetPortfolio(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error getting portfolio")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, portfolio)
}

func (h *PortfolioHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.PortfolioEntry
	if err := utils.DecodeJSON(w, r, &entry); err != nil {
		return
	}

	created, err := h.service.AddEntry(r.Context(), mux.Vars(r)["section"], entry)
	if err != nil {
		writeServiceError(w, r, err, "Error adding portfolio entry")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *PortfolioHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	version, ok := queryVersion(w, r)
	if !ok {
		return
	}

	var entry models.PortfolioEntry
	if err := utils.DecodeJSON(w, r, &entry); err != nil {
		return
	}

	vars := mux.Vars(r)
	updated, err := h.service.UpdateEntry(r.Context(), vars["section"], vars["ref"], entry, version)
	if err != nil {
		writeServiceError(w, r, err, "Error updating portfolio entry")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *PortfolioHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	version, ok := queryVersion(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.service.DeleteEntry(r.Context(), vars["section"], vars["ref"], version); err != nil {
		writeServiceError(w, r, err, "Error deleting portfolio entry")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Portfolio entry deleted successfully")
}
