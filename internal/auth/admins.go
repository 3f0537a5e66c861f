package auth

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"elon_broker/internal/models"
)

const (
	maxLoginAttempts = 10
	lockDuration     = 30 * time.Minute
)

// LoginRecord - запись истории входов администратора
type LoginRecord struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"adminId"`
	Username  string    `json:"username"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminStore хранит администраторов в памяти.
// Счетчик неудачных входов и блокировка живут на записи администратора.
type AdminStore struct {
	mu      sync.RWMutex
	admins  map[string]*models.AdminUser // ключ - username в нижнем регистре
	history []LoginRecord
	svc     *Service
	logger  *slog.Logger
}

// NewAdminStore создает хранилище с дефолтным администратором
func NewAdminStore(svc *Service, defaultPassword string, logger *slog.Logger) *AdminStore {
	s := &AdminStore{
		admins: make(map[string]*models.AdminUser),
		svc:    svc,
		logger: logger,
	}

	hash, err := svc.HashPassword(defaultPassword)
	if err != nil {
		logger.Error("❌ Failed to hash default admin password", slog.Any("error", err))
		return s
	}

	s.admins["admin"] = &models.AdminUser{
		ID:           "admin-001",
		Username:     "admin",
		Email:        "admin@elonbroker.com",
		PasswordHash: hash,
		FullName:     "System Administrator",
		Role:         "super_admin",
		Permissions:  []string{"users", "deposits", "withdrawals", "kyc", "loans", "settings"},
		CreatedAt:    time.Now(),
		IsActive:     true,
	}

	return s
}

// Authenticate проверяет логин и пароль администратора.
// После maxLoginAttempts неудачных попыток аккаунт блокируется на lockDuration.
func (s *AdminStore) Authenticate(username, password, ip, userAgent string) (*models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.admins[strings.ToLower(username)]
	if !ok || !admin.IsActive {
		s.recordLogin("", username, ip, userAgent, false)
		return nil, ErrInvalidCredentials
	}

	if admin.LockedUntil != nil {
		if time.Now().Before(*admin.LockedUntil) {
			s.recordLogin(admin.ID, username, ip, userAgent, false)
			return nil, ErrAccountLocked
		}
		// Срок блокировки истек
		admin.LockedUntil = nil
		admin.LoginAttempts = 0
	}

	if err := s.svc.VerifyPassword(admin.PasswordHash, password); err != nil {
		admin.LoginAttempts++
		if admin.LoginAttempts >= maxLoginAttempts {
			until := time.Now().Add(lockDuration)
			admin.LockedUntil = &until

			s.logger.Warn("🔒 Admin account locked",
				slog.String("username", admin.Username),
				slog.Time("until", until))
		}

		s.recordLogin(admin.ID, username, ip, userAgent, false)

		return nil, ErrInvalidCredentials
	}

	admin.LoginAttempts = 0
	admin.LockedUntil = nil
	now := time.Now()
	admin.LastLogin = &now

	s.recordLogin(admin.ID, username, ip, userAgent, true)

	cp := *admin
	return &cp, nil
}

// recordLogin вызывается под s.mu
func (s *AdminStore) recordLogin(adminID, username, ip, userAgent string, success bool) {
	s.history = append(s.history, LoginRecord{
		ID:        uuid.NewString(),
		AdminID:   adminID,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Success:   success,
		Timestamp: time.Now(),
	})
	if len(s.history) > 100 {
		s.history = s.history[len(s.history)-100:]
	}
}

// GetByID возвращает администратора по id
func (s *AdminStore) GetByID(id string) (*models.AdminUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if admin.ID == id {
			cp := *admin
			return &cp, true
		}
	}

	return nil, false
}

// ChangePassword меняет пароль администратора после проверки текущего
func (s *AdminStore) ChangePassword(id, currentPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, admin := range s.admins {
		if admin.ID != id {
			continue
		}

		if err := s.svc.VerifyPassword(admin.PasswordHash, currentPassword); err != nil {
			return ErrInvalidCredentials
		}

		hash, err := s.svc.HashPassword(newPassword)
		if err != nil {
			return err
		}

		admin.PasswordHash = hash
		return nil
	}

	return ErrInvalidCredentials
}

// UpdateProfile обновляет имя и email администратора
func (s *AdminStore) UpdateProfile(id, fullName, email string) (*models.AdminUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, admin := range s.admins {
		if admin.ID != id {
			continue
		}

		if fullName != "" {
			admin.FullName = fullName
		}
		if email != "" {
			admin.Email = strings.ToLower(email)
		}

		cp := *admin
		return &cp, true
	}

	return nil, false
}

// ResetPassword безусловно устанавливает новый пароль и снимает блокировку.
// Используется только временным endpoint восстановления доступа.
func (s *AdminStore) ResetPassword(username, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.admins[strings.ToLower(username)]
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := s.svc.HashPassword(newPassword)
	if err != nil {
		return err
	}

	admin.PasswordHash = hash
	admin.LoginAttempts = 0
	admin.LockedUntil = nil

	s.logger.Warn("⚠️  Admin password was reset", slog.String("username", admin.Username))

	return nil
}

// LoginHistory возвращает последние записи истории входов
func (s *AdminStore) LoginHistory(limit int) []LoginRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	out := make([]LoginRecord, limit)
	copy(out, s.history[len(s.history)-limit:])

	// Новые записи первыми
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}
