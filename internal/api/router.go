package api

import (
	apimw "elon_broker/internal/api/middleware"
	"elon_broker/internal/middleware"

	"github.com/gorilla/mux"
)

// SetupRouter настраивает роутинг для API
func (h *Handler) SetupRouter() *mux.Router {
	r := mux.NewRouter()

	// Применяем CORS middleware ко всем маршрутам
	r.Use(middleware.CORS(h.deps.FrontendURL))

	// Keep-alive endpoints живут вне /api, чтобы хостинг мог их дергать
	r.HandleFunc("/health", h.HandleKeepAliveHealth).Methods("GET")
	r.HandleFunc("/ping", h.HandleKeepAlivePing).Methods("GET")
	r.HandleFunc("/keep-alive/health", h.HandleKeepAliveHealth).Methods("GET")
	r.HandleFunc("/keep-alive/ping", h.HandleKeepAlivePing).Methods("GET")
	r.HandleFunc("/keep-alive/stats", h.HandleKeepAliveStats).Methods("GET")
	r.HandleFunc("/keep-alive/reset-stats", h.HandleKeepAliveReset).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()

	// Публичные маршруты аутентификации
	api.HandleFunc("/auth/register", h.HandleRegister).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", h.HandleLogin).Methods("POST", "OPTIONS")

	// Пользовательские маршруты (требуют user JWT)
	userAuth := api.PathPrefix("/auth").Subrouter()
	userAuth.Use(apimw.UserAuth(h.deps.Auth, h.deps.Users, h.logger))
	userAuth.HandleFunc("/profile", h.HandleProfile).Methods("GET")
	userAuth.HandleFunc("/profile", h.HandleUpdateProfile).Methods("PUT")
	userAuth.HandleFunc("/change-password", h.HandleChangePassword).Methods("PUT")
	userAuth.HandleFunc("/logout", h.HandleLogout).Methods("POST")
	userAuth.HandleFunc("/verify-token", h.HandleVerifyToken).Methods("GET")
	userAuth.HandleFunc("/balance", h.HandleBalance).Methods("GET")
	userAuth.HandleFunc("/activities", h.HandleActivities).Methods("GET")

	// Админская аутентификация
	api.HandleFunc("/admin-auth/login", h.HandleAdminLogin).Methods("POST", "OPTIONS")
	api.HandleFunc("/admin-auth/reset-password", h.HandleAdminResetPassword).Methods("POST", "OPTIONS")

	adminAuth := api.PathPrefix("/admin-auth").Subrouter()
	adminAuth.Use(apimw.AdminAuth(h.deps.Auth))
	adminAuth.HandleFunc("/logout", h.HandleAdminLogout).Methods("POST")
	adminAuth.HandleFunc("/profile", h.HandleAdminProfile).Methods("GET")
	adminAuth.HandleFunc("/change-password", h.HandleAdminChangePassword).Methods("PUT")
	adminAuth.HandleFunc("/update-profile", h.HandleAdminUpdateProfile).Methods("PUT")
	adminAuth.HandleFunc("/verify-token", h.HandleAdminVerifyToken).Methods("POST")
	adminAuth.HandleFunc("/login-history", h.HandleAdminLoginHistory).Methods("GET")

	// Выводы средств
	api.HandleFunc("/withdrawals/methods", h.HandleWithdrawalMethods).Methods("GET")
	api.HandleFunc("/withdrawals/submit", h.HandleWithdrawalSubmit).Methods("POST")
	api.HandleFunc("/withdrawals/history/{userId}", h.HandleWithdrawalHistory).Methods("GET")
	api.HandleFunc("/withdrawals/status/{id}", h.HandleWithdrawalStatus).Methods("GET")
	api.HandleFunc("/withdrawals/cancel/{id}", h.HandleWithdrawalCancel).Methods("PUT")
	api.HandleFunc("/withdrawals/admin/all", h.HandleWithdrawalAdminList).Methods("GET")
	api.HandleFunc("/withdrawals/admin/approve/{id}", h.HandleWithdrawalApprove).Methods("PUT")
	api.HandleFunc("/withdrawals/admin/reject/{id}", h.HandleWithdrawalReject).Methods("PUT")

	// Пополнения
	api.HandleFunc("/deposits/payment-methods", h.HandleDepositMethods).Methods("GET")
	api.HandleFunc("/deposits/submit", h.HandleDepositSubmit).Methods("POST")
	api.HandleFunc("/deposits/upload-proof", h.HandleDepositUploadProof).Methods("POST")
	api.HandleFunc("/deposits/history/{userId}", h.HandleDepositHistory).Methods("GET")
	api.HandleFunc("/deposits/status/{id}", h.HandleDepositStatus).Methods("GET")
	api.HandleFunc("/deposits/admin/all", h.HandleDepositAdminList).Methods("GET")
	api.HandleFunc("/deposits/admin/approve/{id}", h.HandleDepositApprove).Methods("PUT")
	api.HandleFunc("/deposits/admin/reject/{id}", h.HandleDepositReject).Methods("PUT")

	// Copy trading
	api.HandleFunc("/copy-trading/top-traders", h.HandleTopTraders).Methods("GET")
	api.HandleFunc("/copy-trading/trader/{id}", h.HandleTrader).Methods("GET")
	api.HandleFunc("/copy-trading/trader/{id}/activity", h.HandleTraderActivity).Methods("GET")
	api.HandleFunc("/copy-trading/copy-trader", h.HandleCopyTrader).Methods("POST")
	api.HandleFunc("/copy-trading/my-copies/{userId}", h.HandleMyCopies).Methods("GET")
	api.HandleFunc("/copy-trading/stop-copy/{copyId}", h.HandleStopCopy).Methods("POST")
	api.HandleFunc("/copy-trading/platforms", h.HandlePlatforms).Methods("GET")
	api.HandleFunc("/copy-trading/live-stream/{userId}", h.HandleLiveStream).Methods("GET")
	api.HandleFunc("/copy-trading/ws/{userId}", h.HandleLiveWebsocket).Methods("GET")

	// Рыночные данные
	api.HandleFunc("/market/prices", h.HandleMarketPrices).Methods("POST")
	api.HandleFunc("/market/prices/all", h.HandleMarketAllPrices).Methods("GET")
	api.HandleFunc("/market/price/{symbol}", h.HandleMarketPrice).Methods("GET")
	api.HandleFunc("/market/ticker", h.HandleMarketTicker).Methods("GET")
	api.HandleFunc("/market/chart/{symbol}", h.HandleMarketChart).Methods("GET")
	api.HandleFunc("/market/stats", h.HandleMarketStats).Methods("GET")
	api.HandleFunc("/market/health", h.HandleMarketHealth).Methods("GET")

	// Торговля
	api.HandleFunc("/trading/submit-order", h.HandleSubmitOrder).Methods("POST")
	api.HandleFunc("/trading/close-position", h.HandleClosePosition).Methods("POST")
	api.HandleFunc("/trading/history/{userId}", h.HandleTradingHistory).Methods("GET")
	api.HandleFunc("/trading/positions/{userId}", h.HandleTradingPositions).Methods("GET")
	api.HandleFunc("/trading/verify-account", h.HandleVerifyAccount).Methods("POST")
	api.HandleFunc("/trading/overview/{userId}", h.HandleTradingOverview).Methods("GET")
	api.HandleFunc("/trading/admin/all-trades", h.HandleAllTrades).Methods("GET")
	api.HandleFunc("/trading/health", h.HandleTradingHealth).Methods("GET")

	// Инвестиционные планы
	api.HandleFunc("/plans", h.HandlePlans).Methods("GET")
	api.HandleFunc("/plans/statistics", h.HandlePlanStatistics).Methods("GET")
	api.HandleFunc("/plans/user/{userId}", h.HandleUserPlans).Methods("GET")
	api.HandleFunc("/plans/purchase", h.HandlePlanPurchase).Methods("POST")

	// KYC
	api.HandleFunc("/kyc/status/{userId}", h.HandleKYCStatus).Methods("GET")
	api.HandleFunc("/kyc/submit", h.HandleKYCSubmit).Methods("POST")
	api.HandleFunc("/kyc/upload-document", h.HandleKYCUploadDocument).Methods("POST")
	api.HandleFunc("/kyc/pending", h.HandleKYCPending).Methods("GET")
	api.HandleFunc("/kyc/review/{applicationId}", h.HandleKYCReview).Methods("POST")

	// Кредиты
	api.HandleFunc("/loans/products", h.HandleLoanProducts).Methods("GET")
	api.HandleFunc("/loans/statistics", h.HandleLoanStatistics).Methods("GET")
	api.HandleFunc("/loans/user/{userId}", h.HandleUserLoans).Methods("GET")
	api.HandleFunc("/loans/apply", h.HandleLoanApply).Methods("POST")
	api.HandleFunc("/loans/pending", h.HandleLoansPending).Methods("GET")
	api.HandleFunc("/loans/review/{applicationId}", h.HandleLoanReview).Methods("POST")

	// Рефералы
	api.HandleFunc("/referrals/register", h.HandleReferralRegister).Methods("POST")
	api.HandleFunc("/referrals/commission", h.HandleReferralCommission).Methods("POST")
	api.HandleFunc("/referrals/leaderboard", h.HandleReferralLeaderboard).Methods("GET")
	api.HandleFunc("/referrals/statistics", h.HandleReferralStatistics).Methods("GET")
	api.HandleFunc("/referrals/{userId}", h.HandleReferralUserData).Methods("GET")

	// Дашборд
	api.HandleFunc("/dashboard/overview", h.HandleDashboardOverview).Methods("GET")
	api.HandleFunc("/dashboard/balance", h.HandleDashboardBalance).Methods("GET")
	api.HandleFunc("/dashboard/kyc-status", h.HandleDashboardKYCStatus).Methods("GET")
	api.HandleFunc("/dashboard/trading-overview", h.HandleDashboardTradingOverview).Methods("GET")
	api.HandleFunc("/dashboard/stats", h.HandleDashboardStats).Methods("GET")
	api.HandleFunc("/dashboard/notifications", h.HandleDashboardNotifications).Methods("GET")

	return r
}
