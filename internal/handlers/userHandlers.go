package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"modshop/internal/models"
	"modshop/internal/services"
	"modshop/internal/utils"
)

type UserHandler struct {
	userService  services.UserService
	adminService services.AdminService
}

// NewUserHandler serves user profiles. Admin tokens on /me are resolved through adminService.
func NewUserHandler(userService services.UserService, adminService services.AdminService) *UserHandler {
	return &UserHandler{userService: userService, adminService: adminService}
}

func isAdminRequest(r *http.Request) bool {
	claims, ok := utils.ClaimsFromContext(r.Context())
	return ok && claims.IsAdmin && claims.Role == models.RoleAdmin
}

func (h *UserHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	if isAdminRequest(r) {
		admin, err := h.adminService.GetAdmin(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err, "Error getting admin profile")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, admin)
		return
	}

	user, err := h.userService.GetUserProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Error getting user profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	if isAdminRequest(r) {
		utils.SendJSONError(w, "Admin accounts are updated via /api/admins/{id}", http.StatusForbidden)
		return
	}

	var updatePayload models.UserProfileUpdate
	if err := utils.DecodeJSON(w, r, &updatePayload); err != nil {
		return
	}

	updatedUser, err := h.userService.UpdateUserProfile(r.Context(), userID, updatePayload)
	if err != nil {
		writeServiceError(w, r, err, "Error updating user profile")
		return
	}

	log.Info().Str("user_id", userID.Hex()).Msg("User profile updated")
	utils.RespondWithJSON(w, http.StatusOK, updatedUser)
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error listing users")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) CountUsers(w http.ResponseWriter, r *http.Request) {
	count, err := h.userService.CountUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error counting users")
		return
	}
	respondWithCount(w, count)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	user, err := h.userService.GetUserProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Error getting user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, r, err, "Error deleting user")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "User deleted successfully")
}
