package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"modshop/internal/models"
	"modshop/internal/services"
	"modshop/internal/utils"
)

// AuthHandler serves the email OTP registration flow and customer login.
type AuthHandler struct {
	otpService  services.OTPService
	userService services.UserService
}

func NewAuthHandler(otpService services.OTPService, userService services.UserService) *AuthHandler {
	return &AuthHandler{otpService: otpService, userService: userService}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.SendOTPRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.otpService.SendOTP(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err, "Error sending OTP")
		return
	}

	log.Info().Str("email", req.Email).Msg("OTP sent")
	utils.RespondWithMessage(w, http.StatusOK, "OTP sent to email")
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.otpService.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		writeServiceError(w, r, err, "Error verifying OTP")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Email verified")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.userService.RegisterUser(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Error registering user")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Login
	if err := utils.DecodeJSON(w, r, &creds); err != nil {
		return
	}

	resp, err := h.userService.LoginUser(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err, "Error logging in user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
