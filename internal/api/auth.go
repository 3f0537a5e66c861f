package api

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	apimw "elon_broker/internal/api/middleware"
	"elon_broker/internal/funding"
	"elon_broker/internal/storage"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User      any    `json:"user"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"`
}

// HandleRegister обрабатывает регистрацию нового пользователя
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.requireUsers(w) {
		return
	}

	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	// Валидация
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	if !emailRe.MatchString(req.Email) {
		h.respondError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	if len(req.Password) < 6 {
		h.respondError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	passwordHash, err := h.deps.Auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Internal server error during registration")

		return
	}

	user, err := h.deps.Users.CreateUser(r.Context(), req.Name, req.Email, passwordHash, funding.DefaultBalance)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			h.respondError(w, http.StatusBadRequest, "User with this email already exists")
			return
		}

		h.logger.Error("Failed to create user", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Internal server error during registration")

		return
	}

	token, err := h.deps.Auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("Failed to generate token", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Internal server error during registration")

		return
	}

	h.logger.Info("👤 User registered", slog.Int("user_id", user.ID), slog.String("email", user.Email))

	h.respondCreated(w, "User registered successfully", AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: "24h",
	})
}

// HandleLogin обрабатывает вход пользователя.
// Неизвестный email и неверный пароль дают одинаковый ответ.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.requireUsers(w) {
		return
	}

	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.deps.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		h.logger.Error("Failed to get user", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Internal server error during login")

		return
	}

	if !user.IsActive {
		h.respondError(w, http.StatusUnauthorized, "Account has been deactivated. Please contact support.")
		return
	}

	if err := h.deps.Auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.deps.Auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("Failed to generate token", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Internal server error during login")

		return
	}

	h.respondSuccess(w, "Login successful", AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: "24h",
	})
}

// HandleProfile возвращает профиль текущего пользователя
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := apimw.GetUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: user})
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// HandleUpdateProfile обновляет имя пользователя
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := apimw.GetUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Name == "" {
		h.respondSuccess(w, "Profile updated successfully", user)
		return
	}

	updated, err := h.deps.Users.UpdateUserName(r.Context(), user.ID, req.Name)
	if err != nil {
		h.logger.Error("Failed to update profile", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Error updating user profile")

		return
	}

	h.respondSuccess(w, "Profile updated successfully", updated)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleChangePassword меняет пароль пользователя
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := apimw.GetUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
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

	if err := h.deps.Auth.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		h.respondError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := h.deps.Auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.Error("Failed to hash password", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Error changing password")

		return
	}

	if err := h.deps.Users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		h.logger.Error("Failed to update password", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Error changing password")

		return
	}

	h.respondSuccess(w, "Password changed successfully. Please login again.", nil)
}

// HandleLogout завершает сессию. Токены stateless, так что это подтверждение
// для фронтенда.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.respondSuccess(w, "Logged out successfully", nil)
}

// HandleVerifyToken подтверждает валидность токена
func (h *Handler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	user, ok := apimw.GetUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	h.respondSuccess(w, "Token is valid", map[string]any{
		"userId": user.ID,
		"email":  user.Email,
	})
}

// HandleBalance возвращает баланс пользователя
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := apimw.GetUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: user.Balance})
}

// HandleActivities возвращает страницу активности пользователя.
// Лента операций пока не персистится, поэтому список пуст.
func (h *Handler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	if _, ok := apimw.GetUser(r.Context()); !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"activities": []any{},
		"total":      0,
		"offset":     offset,
		"limit":      limit,
	}})
}
