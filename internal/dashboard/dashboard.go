package dashboard

import (
	"time"
)

// Пакет отдает демонстрационные данные дашборда. Цифры согласованы
// с балансом кошелька, реальная агрегация подключается позже.

// UserInfo - краткая карточка пользователя
type UserInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinDate string `json:"joinDate"`
}

// Overview - сводка главного экрана
type Overview struct {
	User             UserInfo  `json:"user"`
	TotalBalance     float64   `json:"totalBalance"`
	AvailableBalance float64   `json:"availableBalance"`
	LockedBalance    float64   `json:"lockedBalance"`
	TotalProfit      float64   `json:"totalProfit"`
	TotalLoss        float64   `json:"totalLoss"`
	ProfitPercentage float64   `json:"profitPercentage"`
	AccountStatus    string    `json:"accountStatus"`
	LastLogin        time.Time `json:"lastLogin"`
}

// BalanceTransaction - операция в истории баланса
type BalanceTransaction struct {
	ID       int     `json:"id"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
}

// Balance - детализация баланса по валютам
type Balance struct {
	TotalBalance       float64              `json:"totalBalance"`
	AvailableBalance   float64              `json:"availableBalance"`
	LockedInTrades     float64              `json:"lockedInTrades"`
	PendingWithdrawals float64              `json:"pendingWithdrawals"`
	Currencies         map[string]float64   `json:"currencies"`
	RecentTransactions []BalanceTransaction `json:"recentTransactions"`
}

// DocumentStatus - статус загруженного документа
type DocumentStatus struct {
	Status        string `json:"status"`
	DocumentType  string `json:"documentType,omitempty"`
	SubmittedDate string `json:"submittedDate"`
}

// KYCLimits - лимиты на вывод
type KYCLimits struct {
	Daily   float64            `json:"daily"`
	Monthly float64            `json:"monthly"`
	Used    map[string]float64 `json:"used"`
}

// KYCStatus - статус верификации для дашборда
type KYCStatus struct {
	KYCStatus          string                    `json:"kycStatus"`
	VerificationLevel  int                       `json:"verificationLevel"`
	SubmittedDocuments map[string]DocumentStatus `json:"submittedDocuments"`
	WithdrawalLimits   KYCLimits                 `json:"withdrawalLimits"`
	NextSteps          []string                  `json:"nextSteps"`
}

// OpenPosition - открытая позиция в сводке по торговле
type OpenPosition struct {
	ID           int     `json:"id"`
	Pair         string  `json:"pair"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	EntryPrice   float64 `json:"entryPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	PnL          float64 `json:"pnl"`
	Timestamp    string  `json:"timestamp"`
}

// RecentTrade - закрытая сделка в сводке по торговле
type RecentTrade struct {
	ID         int     `json:"id"`
	Pair       string  `json:"pair"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	PnL        float64 `json:"pnl"`
	Status     string  `json:"status"`
	Timestamp  string  `json:"timestamp"`
}

// TradingOverview - торговая сводка дашборда
type TradingOverview struct {
	TotalTrades      int            `json:"totalTrades"`
	ActiveTrades     int            `json:"activeTrades"`
	SuccessfulTrades int            `json:"successfulTrades"`
	FailedTrades     int            `json:"failedTrades"`
	WinRate          float64        `json:"winRate"`
	TotalVolume      float64        `json:"totalVolume"`
	TodayPnL         float64        `json:"todayPnL"`
	WeeklyPnL        float64        `json:"weeklyPnL"`
	MonthlyPnL       float64        `json:"monthlyPnL"`
	OpenPositions    []OpenPosition `json:"openPositions"`
	RecentTrades     []RecentTrade  `json:"recentTrades"`
}

// AccountGrowth - точки графика роста счета
type AccountGrowth struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// TradingPerformance - метрики качества торговли
type TradingPerformance struct {
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"winRate"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`
	ProfitFactor float64 `json:"profitFactor"`
}

// AssetAllocation - доля актива в портфеле
type AssetAllocation struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// MonthlyActivity - активность за месяц
type MonthlyActivity struct {
	Deposits    int     `json:"deposits"`
	Withdrawals int     `json:"withdrawals"`
	Trades      int     `json:"trades"`
	TotalVolume float64 `json:"totalVolume"`
}

// Stats - ключевые метрики и данные графиков
type Stats struct {
	AccountGrowth      AccountGrowth      `json:"accountGrowth"`
	TradingPerformance TradingPerformance `json:"tradingPerformance"`
	AssetAllocation    []AssetAllocation  `json:"assetAllocation"`
	MonthlyActivity    MonthlyActivity    `json:"monthlyActivity"`
}

// Notification - уведомление пользователя
type Notification struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	Timestamp string `json:"timestamp"`
}

// Service собирает данные для экранов дашборда
type Service struct {
	now func() time.Time
}

// NewService создает сервис дашборда
func NewService() *Service {
	return &Service{now: time.Now}
}

// Overview возвращает сводку главного экрана
func (s *Service) Overview() Overview {
	return Overview{
		User: UserInfo{
			Name:     "John Doe",
			Email:    "john@example.com",
			JoinDate: "2024-01-15",
		},
		TotalBalance:     15420.50,
		AvailableBalance: 12380.75,
		LockedBalance:    3039.75,
		TotalProfit:      2150.30,
		TotalLoss:        890.20,
		ProfitPercentage: 8.2,
		AccountStatus:    "verified",
		LastLogin:        s.now(),
	}
}

// Balance возвращает детализацию баланса
func (s *Service) Balance() Balance {
	return Balance{
		TotalBalance:       15420.50,
		AvailableBalance:   12380.75,
		LockedInTrades:     2150.30,
		PendingWithdrawals: 889.45,
		Currencies: map[string]float64{
			"USD": 8420.50,
			"EUR": 3200.75,
			"BTC": 0.15,
			"ETH": 2.5,
		},
		RecentTransactions: []BalanceTransaction{
			{ID: 1, Type: "deposit", Amount: 1000.00, Currency: "USD", Date: "2024-09-29", Status: "completed"},
			{ID: 2, Type: "trade", Amount: -250.00, Currency: "USD", Date: "2024-09-29", Status: "completed"},
		},
	}
}

// KYCStatus возвращает статус верификации
func (s *Service) KYCStatus() KYCStatus {
	return KYCStatus{
		KYCStatus:         "verified",
		VerificationLevel: 2,
		SubmittedDocuments: map[string]DocumentStatus{
			"identity": {Status: "approved", DocumentType: "passport", SubmittedDate: "2024-09-20"},
			"address":  {Status: "approved", DocumentType: "utility_bill", SubmittedDate: "2024-09-21"},
			"selfie":   {Status: "approved", SubmittedDate: "2024-09-21"},
		},
		WithdrawalLimits: KYCLimits{
			Daily:   10000,
			Monthly: 50000,
			Used:    map[string]float64{"daily": 2500, "monthly": 8750},
		},
		NextSteps: []string{},
	}
}

// TradingOverview возвращает торговую сводку
func (s *Service) TradingOverview() TradingOverview {
	return TradingOverview{
		TotalTrades:      45,
		ActiveTrades:     3,
		SuccessfulTrades: 32,
		FailedTrades:     10,
		WinRate:          71.1,
		TotalVolume:      125600.00,
		TodayPnL:         245.80,
		WeeklyPnL:        1150.30,
		MonthlyPnL:       2890.45,
		OpenPositions: []OpenPosition{
			{ID: 1, Pair: "BTC/USD", Type: "buy", Amount: 0.05, EntryPrice: 43250.00, CurrentPrice: 43180.00, PnL: -3.50, Timestamp: "2024-09-29T10:30:00Z"},
			{ID: 2, Pair: "EUR/USD", Type: "sell", Amount: 1000, EntryPrice: 1.0850, CurrentPrice: 1.0845, PnL: 5.00, Timestamp: "2024-09-29T14:15:00Z"},
		},
		RecentTrades: []RecentTrade{
			{ID: 3, Pair: "ETH/USD", Type: "buy", Amount: 1.5, EntryPrice: 2650.00, ExitPrice: 2680.00, PnL: 45.00, Status: "closed", Timestamp: "2024-09-29T09:45:00Z"},
		},
	}
}

// Stats возвращает метрики и данные графиков
func (s *Service) Stats() Stats {
	return Stats{
		AccountGrowth: AccountGrowth{
			Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
			Data:   []float64{10000, 10500, 12000, 11800, 13500, 15420},
		},
		TradingPerformance: TradingPerformance{
			Wins: 32, Losses: 13, WinRate: 71.1,
			AvgWin: 125.50, AvgLoss: 68.40, ProfitFactor: 2.84,
		},
		AssetAllocation: []AssetAllocation{
			{Name: "USD", Value: 8420.50, Percentage: 54.6},
			{Name: "EUR", Value: 3200.75, Percentage: 20.8},
			{Name: "BTC", Value: 2150.30, Percentage: 13.9},
			{Name: "ETH", Value: 1648.95, Percentage: 10.7},
		},
		MonthlyActivity: MonthlyActivity{
			Deposits: 5, Withdrawals: 2, Trades: 23, TotalVolume: 45600.00,
		},
	}
}

// Notifications возвращает уведомления пользователя
func (s *Service) Notifications() []Notification {
	return []Notification{
		{ID: 1, Type: "trade", Title: "Trade Executed", Message: "Your BTC/USD buy order has been executed", Timestamp: "2024-09-29T15:30:00Z"},
		{ID: 2, Type: "deposit", Title: "Deposit Confirmed", Message: "Your $1,000 deposit has been confirmed", Timestamp: "2024-09-29T12:15:00Z"},
		{ID: 3, Type: "kyc", Title: "KYC Approved", Message: "Your identity verification has been approved", Timestamp: "2024-09-29T09:00:00Z"},
		{ID: 4, Type: "system", Title: "Maintenance Notice", Message: "Scheduled maintenance on Oct 1st, 2:00 AM UTC", Read: true, Timestamp: "2024-09-28T16:00:00Z"},
	}
}
