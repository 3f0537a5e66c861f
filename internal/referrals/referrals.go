package referrals

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

var (
	ErrAlreadyExists = errors.New("referral already exists")
	ErrNotFound      = errors.New("referral not found")
)

// Пороги реферальных уровней
const (
	silverThreshold  = 10
	goldThreshold    = 20
	diamondThreshold = 50
)

// Referral - приведенный пользователь
type Referral struct {
	ID                string    `json:"id"`
	ReferrerID        string    `json:"referrerId"`
	ReferredUserID    string    `json:"referredUserId"`
	ReferredUserName  string    `json:"referredUserName"`
	ReferredUserEmail string    `json:"referredUserEmail"`
	Status            string    `json:"status"`
	RegistrationDate  time.Time `json:"registrationDate"`
	TotalCommission   float64   `json:"totalCommissionEarned"`
	LastActivityDate  time.Time `json:"lastActivityDate"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Stats - реферальная статистика одного пользователя
type Stats struct {
	TotalReferrals     int     `json:"totalReferrals"`
	ActiveReferrals    int     `json:"activeReferrals"`
	TotalCommissions   float64 `json:"totalCommissions"`
	PendingCommissions float64 `json:"pendingCommissions"`
	Tier               string  `json:"tier"`
	NextTierProgress   int     `json:"nextTierProgress"`
	CommissionRate     float64 `json:"commissionRate"`
	NextPayoutDate     string  `json:"nextPayoutDate"`
}

func defaultStats() *Stats {
	return &Stats{
		Tier:           "Bronze",
		CommissionRate: 5,
		NextPayoutDate: "2024-01-15",
	}
}

// Commission - запись о начисленной комиссии
type Commission struct {
	Amount          float64   `json:"amount"`
	TransactionType string    `json:"transactionType,omitempty"`
	TransactionID   string    `json:"transactionId,omitempty"`
	AddedAt         time.Time `json:"addedAt"`
}

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	UserID           string  `json:"userId"`
	TotalReferrals   int     `json:"totalReferrals"`
	TotalCommissions float64 `json:"totalCommissions"`
	Tier             string  `json:"tier"`
}

// Statistics - общая реферальная статистика
type Statistics struct {
	TotalReferrals           int            `json:"totalReferrals"`
	ActiveReferrals          int            `json:"activeReferrals"`
	TotalCommissions         float64        `json:"totalCommissions"`
	TierDistribution         map[string]int `json:"tierDistribution"`
	AverageCommissionPerUser float64        `json:"averageCommissionPerUser"`
}

// Service хранит реферальные связи и статистику в памяти
type Service struct {
	mu        sync.RWMutex
	referrals []*Referral
	stats     map[string]*Stats
	logger    *slog.Logger
	now       func() time.Time
}

// NewService создает реферальный сервис
func NewService(logger *slog.Logger) *Service {
	return &Service{
		stats:  make(map[string]*Stats),
		logger: logger,
		now:    time.Now,
	}
}

// UserData возвращает статистику, список рефералов и ссылку пользователя
func (s *Service) UserData(userID string) (Stats, []*Referral, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := defaultStats()
	if st, ok := s.stats[userID]; ok {
		cp := *st
		stats = &cp
	}

	out := []*Referral{}
	for _, ref := range s.referrals {
		if ref.ReferrerID == userID {
			cp := *ref
			out = append(out, &cp)
		}
	}

	return *stats, out, fmt.Sprintf("https://elonbroker.com/ref/%s", userID)
}

// applyTier пересчитывает уровень по числу рефералов
func applyTier(st *Stats) {
	switch {
	case st.TotalReferrals >= diamondThreshold:
		st.Tier = "Diamond"
		st.CommissionRate = 15
	case st.TotalReferrals >= goldThreshold:
		st.Tier = "Gold"
		st.CommissionRate = 10
	case st.TotalReferrals >= silverThreshold:
		st.Tier = "Silver"
		st.CommissionRate = 7
	default:
		st.Tier = "Bronze"
		st.CommissionRate = 5
	}
}

// Register регистрирует нового реферала и обновляет уровень реферера
func (s *Service) Register(referrerID, referredUserID, referredUserName, referredUserEmail string, registrationDate *time.Time) (*Referral, Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ref := range s.referrals {
		if ref.ReferrerID == referrerID && ref.ReferredUserID == referredUserID {
			return nil, Stats{}, ErrAlreadyExists
		}
	}

	now := s.now()
	regDate := now
	if registrationDate != nil {
		regDate = *registrationDate
	}

	ref := &Referral{
		ID:                fmt.Sprintf("ref_%d", now.UnixNano()),
		ReferrerID:        referrerID,
		ReferredUserID:    referredUserID,
		ReferredUserName:  referredUserName,
		ReferredUserEmail: referredUserEmail,
		Status:            "active",
		RegistrationDate:  regDate,
		LastActivityDate:  now,
		CreatedAt:         now,
	}
	s.referrals = append(s.referrals, ref)

	st, ok := s.stats[referrerID]
	if !ok {
		st = defaultStats()
		s.stats[referrerID] = st
	}
	st.TotalReferrals++
	st.ActiveReferrals++
	applyTier(st)

	s.logger.Info("👥 New referral",
		slog.String("referrer_id", referrerID),
		slog.String("referred", referredUserName),
		slog.String("tier", st.Tier))

	refCp := *ref
	stCp := *st
	return &refCp, stCp, nil
}

// AddCommission начисляет комиссию рефереру
func (s *Service) AddCommission(referrerID, referredUserID string, amount float64, transactionType, transactionID string) (*Commission, Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *Referral
	for _, ref := range s.referrals {
		if ref.ReferrerID != referrerID {
			continue
		}
		if referredUserID != "" && ref.ReferredUserID != referredUserID {
			continue
		}
		found = ref
		break
	}
	if found == nil {
		return nil, Stats{}, ErrNotFound
	}

	now := s.now()
	found.TotalCommission += amount
	found.LastActivityDate = now

	st, ok := s.stats[referrerID]
	if !ok {
		st = defaultStats()
		s.stats[referrerID] = st
	}
	st.TotalCommissions += amount
	st.PendingCommissions += amount

	s.logger.Info("💰 Commission added",
		slog.String("referrer_id", referrerID),
		slog.Float64("amount", amount))

	stCp := *st
	return &Commission{
		Amount:          amount,
		TransactionType: transactionType,
		TransactionID:   transactionID,
		AddedAt:         now,
	}, stCp, nil
}

// Leaderboard возвращает топ-10 рефереров
func (s *Service) Leaderboard() []LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LeaderboardEntry, 0, len(s.stats))
	for userID, st := range s.stats {
		out = append(out, LeaderboardEntry{
			UserID:           userID,
			TotalReferrals:   st.TotalReferrals,
			TotalCommissions: st.TotalCommissions,
			Tier:             st.Tier,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalReferrals != out[j].TotalReferrals {
			return out[i].TotalReferrals > out[j].TotalReferrals
		}
		return out[i].UserID < out[j].UserID
	})

	if len(out) > 10 {
		out = out[:10]
	}

	return out
}

// Statistics считает общую статистику программы
func (s *Service) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{TierDistribution: map[string]int{}}
	stats.TotalReferrals = len(s.referrals)
	for _, ref := range s.referrals {
		if ref.Status == "active" {
			stats.ActiveReferrals++
		}
	}

	for _, st := range s.stats {
		stats.TotalCommissions += st.TotalCommissions
		stats.TierDistribution[st.Tier]++
	}

	if len(s.stats) > 0 {
		stats.AverageCommissionPerUser = stats.TotalCommissions / float64(len(s.stats))
	}

	return stats
}
