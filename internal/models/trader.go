package models

import "time"

// Platform - интеграция с внешней торговой платформой
type Platform struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	APIURL        string   `json:"apiUrl"`
	WebsocketURL  string   `json:"websocketUrl,omitempty"`
	Features      []string `json:"features"`
	MinCopyAmount float64  `json:"minCopyAmount"`
	MaxCopyAmount float64  `json:"maxCopyAmount"`
	TraderCount   int      `json:"traderCount,omitempty"`
}

// Trader - профиль трейдера для copy trading.
// Статические поля профиля; изменяемое live состояние живет в симуляторе.
type Trader struct {
	ID               string    `json:"id"`
	Platform         string    `json:"platform"`
	Name             string    `json:"name"`
	RealName         string    `json:"realName"`
	Avatar           string    `json:"avatar"`
	Verified         bool      `json:"verified"`
	Country          string    `json:"country"`
	JoinDate         string    `json:"joinDate"`
	ROI              float64   `json:"roi"`
	MonthlyReturn    float64   `json:"monthlyReturn"`
	WeeklyReturn     float64   `json:"weeklyReturn"`
	DailyReturn      float64   `json:"dailyReturn"`
	Followers        int       `json:"followers"`
	Copiers          int       `json:"copiers"`
	WinRate          float64   `json:"winRate"`
	TotalTrades      int       `json:"totalTrades"`
	ProfitableTrades int       `json:"profitableTrades"`
	RiskScore        float64   `json:"riskScore"`
	MaxDrawdown      float64   `json:"maxDrawdown"`
	SharpeRatio      float64   `json:"sharpeRatio"`
	TotalProfit      float64   `json:"totalProfit"`
	ActivePositions  int       `json:"activePositions"`
	TotalAssets      float64   `json:"totalAssets"`
	Description      string    `json:"description"`
	Specializations  []string  `json:"specializations"`
	TradingStyle     string    `json:"tradingStyle"`
	AvgHoldingPeriod string    `json:"avgHoldingPeriod"`
	LastTradeTime    time.Time `json:"lastTradeTime"`
	Status           string    `json:"status"`
}

// LiveTrade - открытая позиция трейдера в симуляции
type LiveTrade struct {
	ID        string     `json:"id,omitempty"`
	Symbol    string     `json:"symbol"`
	Direction string     `json:"direction"`
	Size      float64    `json:"size"`
	PnL       float64    `json:"pnl"`
	Status    string     `json:"status,omitempty"`
	OpenTime  *time.Time `json:"openTime,omitempty"`
	CloseTime *time.Time `json:"closeTime,omitempty"`
}

// TraderActivity - запись недавней активности трейдера
type TraderActivity struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Trade     LiveTrade `json:"trade"`
}

// CopyRelationship связывает пользователя с копируемым трейдером
type CopyRelationship struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	TraderID         string    `json:"traderId"`
	TraderName       string    `json:"traderName"`
	TraderAvatar     string    `json:"traderAvatar"`
	Platform         string    `json:"platform"`
	Amount           float64   `json:"amount"`
	RiskLevel        string    `json:"riskLevel"`
	StartDate        time.Time `json:"startDate"`
	Status           string    `json:"status"`
	TotalProfit      float64   `json:"totalProfit"`
	TotalLoss        float64   `json:"totalLoss"`
	OpenTrades       int       `json:"openTrades"`
	ClosedTrades     int       `json:"closedTrades"`
	SuccessRate      float64   `json:"successRate"`
	LastActivity     time.Time `json:"lastActivity"`
	CurrentValue     float64   `json:"currentValue,omitempty"`
	ProfitPercentage float64   `json:"profitPercentage,omitempty"`
}

// TraderUpdate - кадр live потока по одному трейдеру
type TraderUpdate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	IsTrading     bool      `json:"isTrading"`
	CurrentTrades int       `json:"currentTrades"`
	DailyReturn   float64   `json:"dailyReturn"`
	LastActivity  time.Time `json:"lastActivity"`
}

// StreamFrame - кадр SSE/websocket потока
type StreamFrame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
