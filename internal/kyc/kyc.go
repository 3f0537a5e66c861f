package kyc

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrNotFound        = errors.New("kyc application not found")
	ErrAlreadyVerified = errors.New("user is already verified")
	ErrInvalidDecision = errors.New("status must be either \"approved\" or \"rejected\"")
)

// PersonalInfo - анкета заявителя
type PersonalInfo struct {
	FullName      string `json:"fullName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Nationality   string `json:"nationality"`
	Address       string `json:"address"`
	PhoneNumber   string `json:"phoneNumber"`
	Occupation    string `json:"occupation"`
	SourceOfFunds string `json:"sourceOfFunds"`
}

// Document - загруженный документ
type Document struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
	FileSize   int       `json:"fileSize"`
}

// Application - заявка на верификацию
type Application struct {
	ID                string       `json:"id"`
	UserID            string       `json:"userId"`
	UserName          string       `json:"userName"`
	UserEmail         string       `json:"userEmail"`
	PersonalInfo      PersonalInfo `json:"personalInfo"`
	Documents         []Document   `json:"documents"`
	VerificationLevel string       `json:"verificationLevel"`
	Status            string       `json:"status"`
	SubmittedAt       time.Time    `json:"submittedAt"`
	ReviewedAt        *time.Time   `json:"reviewedAt"`
	ReviewedBy        string       `json:"reviewedBy,omitempty"`
	AdminNotes        string       `json:"adminNotes"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// StatusView - статус верификации для пользователя
type StatusView struct {
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	AdminNotes  string     `json:"adminNotes,omitempty"`
	Documents   []Document `json:"documents,omitempty"`
	Message     string     `json:"message"`
}

// Service хранит KYC заявки в памяти, по одной на пользователя
type Service struct {
	mu           sync.RWMutex
	applications map[string]*Application // ключ - userID
	order        []string
	logger       *slog.Logger
	now          func() time.Time
}

// NewService создает KYC сервис
func NewService(logger *slog.Logger) *Service {
	return &Service{
		applications: make(map[string]*Application),
		logger:       logger,
		now:          time.Now,
	}
}

// Status возвращает статус верификации пользователя
func (s *Service) Status(userID string) StatusView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[userID]
	if !ok {
		return StatusView{Status: "not_submitted", Message: "No KYC application found"}
	}

	docs := make([]Document, len(app.Documents))
	copy(docs, app.Documents)

	submitted := app.SubmittedAt
	return StatusView{
		Status:      app.Status,
		SubmittedAt: &submitted,
		ReviewedAt:  app.ReviewedAt,
		AdminNotes:  app.AdminNotes,
		Documents:   docs,
		Message:     "KYC status retrieved successfully",
	}
}

// Submit создает или пересоздает заявку. Уже верифицированный
// пользователь подать новую не может.
func (s *Service) Submit(userID, userName, userEmail string, info PersonalInfo, documents []Document, level string) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.applications[userID]; ok && existing.Status == "verified" {
		return nil, ErrAlreadyVerified
	}

	if level == "" {
		level = "basic"
	}
	if documents == nil {
		documents = []Document{}
	}

	now := s.now()
	app := &Application{
		ID:                fmt.Sprintf("kyc_%d", now.UnixNano()),
		UserID:            userID,
		UserName:          userName,
		UserEmail:         userEmail,
		PersonalInfo:      info,
		Documents:         documents,
		VerificationLevel: level,
		Status:            "pending",
		SubmittedAt:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, ok := s.applications[userID]; !ok {
		s.order = append(s.order, userID)
	}
	s.applications[userID] = app

	s.logger.Info("📋 KYC submitted",
		slog.String("user_id", userID),
		slog.String("user_name", userName))

	cp := *app
	return &cp, nil
}

// UploadDocument добавляет документ к заявке пользователя
func (s *Service) UploadDocument(userID, documentType, filename string, fileSize int) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[userID]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	doc := Document{
		ID:         fmt.Sprintf("doc_%d", now.UnixNano()),
		Type:       documentType,
		Filename:   filename,
		UploadedAt: now,
		FileSize:   fileSize,
	}

	app.Documents = append(app.Documents, doc)
	app.UpdatedAt = now

	return &doc, nil
}

// Pending возвращает заявки, ожидающие проверки
func (s *Service) Pending() []*Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Application{}
	for _, userID := range s.order {
		app := s.applications[userID]
		if app.Status == "pending" {
			cp := *app
			out = append(out, &cp)
		}
	}

	return out
}

// Review выносит решение по заявке: approved делает пользователя verified
func (s *Service) Review(applicationID, decision, adminNotes, reviewedBy string) (*Application, error) {
	if decision != "approved" && decision != "rejected" {
		return nil, ErrInvalidDecision
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, userID := range s.order {
		app := s.applications[userID]
		if app.ID != applicationID {
			continue
		}

		now := s.now()
		if decision == "approved" {
			app.Status = "verified"
		} else {
			app.Status = "rejected"
		}
		app.AdminNotes = adminNotes
		app.ReviewedAt = &now
		app.ReviewedBy = reviewedBy
		app.UpdatedAt = now

		s.logger.Info("✅ KYC reviewed",
			slog.String("application_id", applicationID),
			slog.String("decision", decision))

		cp := *app
		return &cp, nil
	}

	return nil, ErrNotFound
}
