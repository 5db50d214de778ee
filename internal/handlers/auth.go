package handlers

import (
	"net/http"
	"net/url"

	"github.com/huyhoangtran00/portfolio/internal/metrics"
	"github.com/huyhoangtran00/portfolio/internal/services"
	"github.com/sirupsen/logrus"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type AuthHandlers struct {
	auth    *services.AuthService
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
}

func NewAuthHandlers(auth *services.AuthService, m *metrics.Metrics, logger logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{auth: auth, metrics: m, logger: logger}
}

func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	h.metrics.AuthEvent("signup", err)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	h.metrics.AuthEvent("login", err)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	h.metrics.AuthEvent("refresh", err)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := services.ValidateEmail(req.Email); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	msg := h.auth.ForgotPassword(r.Context(), req.Email)
	h.metrics.AuthEvent("forgot_password", nil)

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Frontends may hand back the token still percent-encoded from the link.
	token := req.Token
	if unescaped, err := url.QueryUnescape(token); err == nil {
		token = unescaped
	}

	msg, err := h.auth.ResetPassword(r.Context(), token, req.NewPassword)
	h.metrics.AuthEvent("reset_password", err)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}
