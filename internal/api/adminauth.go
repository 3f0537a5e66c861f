package api

import (
	"errors"
	"log/slog"
	"net/http"

	apimw "elon_broker/internal/api/middleware"
	"elon_broker/internal/auth"
)

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminAuthResponse struct {
	Admin     any    `json:"admin"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"`
}

// HandleAdminLogin обрабатывает вход администратора.
// Заблокированный аккаунт получает 423.
func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.deps.Admins.Authenticate(req.Username, req.Password, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrAccountLocked) {
			h.respondError(w, http.StatusLocked, "Account is locked. Try again later.")
			return
		}

		h.respondError(w, http.StatusUnauthorized, "Invalid credentials")

		return
	}

	token, err := h.deps.Auth.GenerateAdminToken(admin.ID, admin.Username, admin.Role, admin.Permissions)
	if err != nil {
		h.logger.Error("Failed to generate admin token", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	h.respondSuccess(w, "Login successful", AdminAuthResponse{
		Admin:     admin,
		Token:     token,
		ExpiresIn: "24h",
	})
}

// HandleAdminLogout завершает админскую сессию
func (h *Handler) HandleAdminLogout(w http.ResponseWriter, r *http.Request) {
	h.respondSuccess(w, "Logout successful", nil)
}

// HandleAdminProfile возвращает профиль администратора
func (h *Handler) HandleAdminProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := apimw.GetAdminClaims(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	admin, ok := h.deps.Admins.GetByID(claims.ID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Admin not found")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{"admin": admin}})
}

// HandleAdminChangePassword меняет пароль администратора
func (h *Handler) HandleAdminChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := apimw.GetAdminClaims(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	var req ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		h.respondError(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}

	if len(req.NewPassword) < 6 {
		h.respondError(w, http.StatusBadRequest, "New password must be at least 6 characters long")
		return
	}

	if err := h.deps.Admins.ChangePassword(claims.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.respondError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}

		h.logger.Error("Failed to change admin password", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	h.respondSuccess(w, "Password changed successfully", nil)
}

type AdminUpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// HandleAdminUpdateProfile обновляет профиль администратора
func (h *Handler) HandleAdminUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := apimw.GetAdminClaims(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	var req AdminUpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	admin, ok := h.deps.Admins.UpdateProfile(claims.ID, req.FullName, req.Email)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Admin not found")
		return
	}

	h.respondSuccess(w, "Profile updated successfully", map[string]any{"admin": admin})
}

// HandleAdminVerifyToken подтверждает валидность админского токена
func (h *Handler) HandleAdminVerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := apimw.GetAdminClaims(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"admin": claims,
		"valid": true,
	}})
}

// HandleAdminLoginHistory возвращает историю входов
func (h *Handler) HandleAdminLoginHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := apimw.GetAdminClaims(r.Context()); !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	history := h.deps.Admins.LoginHistory(50)
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{"loginHistory": history}})
}

type AdminResetPasswordRequest struct {
	Secret      string `json:"secret"`
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// HandleAdminResetPassword - временный endpoint восстановления доступа.
// Работает только при заданном TEMP_ADMIN_RESET_SECRET и требует его в теле.
func (h *Handler) HandleAdminResetPassword(w http.ResponseWriter, r *http.Request) {
	if h.deps.TempAdminResetSecret == "" {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	var req AdminResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Secret != h.deps.TempAdminResetSecret {
		h.respondError(w, http.StatusUnauthorized, "Invalid reset secret")
		return
	}

	if req.Username == "" || len(req.NewPassword) < 6 {
		h.respondError(w, http.StatusBadRequest, "Username and a password of at least 6 characters are required")
		return
	}

	if err := h.deps.Admins.ResetPassword(req.Username, req.NewPassword); err != nil {
		h.respondError(w, http.StatusNotFound, "Admin not found")
		return
	}

	h.respondSuccess(w, "Password reset successfully", nil)
}

// clientIP извлекает адрес клиента с учетом прокси
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}

	return r.RemoteAddr
}
