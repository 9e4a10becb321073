package handlers

import (
	"net/http"

	"modshop/internal/models"
	"modshop/internal/services"
	"modshop/internal/utils"
)

type AdminHandler struct {
	adminService     services.AdminService
	dashboardService *services.DashboardService
}

func NewAdminHandler(adminService services.AdminService, dashboardService *services.DashboardService) *AdminHandler {
	return &AdminHandler{adminService: adminService, dashboardService: dashboardService}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.AdminLogin
	if err := utils.DecodeJSON(w, r, &creds); err != nil {
		return
	}

	resp, err := h.adminService.Login(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err, "Error logging in admin")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error building dashboard")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard)
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	admin, err := h.adminService.CreateAdmin(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Error creating admin")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, admin)
}

func (h *AdminHandler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.GetAdmins(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error listing admins")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) CountAdmins(w http.ResponseWriter, r *http.Request) {
	count, err := h.adminService.CountAdmins(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error counting admins")
		return
	}
	respondWithCount(w, count)
}

func (h *AdminHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	admin, err := h.adminService.GetAdmin(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error getting admin")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, admin)
}

func (h *AdminHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var req models.AdminRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	admin, err := h.adminService.UpdateAdmin(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Error updating admin")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, admin)
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.adminService.DeleteAdmin(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Error deleting admin")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Admin deleted successfully")
}
