package api

import "net/http"

// HandleDashboardOverview возвращает сводку портфеля
func (h *Handler) HandleDashboardOverview(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Dashboard.Overview()})
}

// HandleDashboardBalance возвращает балансы по валютам
func (h *Handler) HandleDashboardBalance(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Dashboard.Balance()})
}

// HandleDashboardKYCStatus возвращает статус верификации и лимиты
func (h *Handler) HandleDashboardKYCStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Dashboard.KYCStatus()})
}

// HandleDashboardTradingOverview возвращает позиции и последние сделки
func (h *Handler) HandleDashboardTradingOverview(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Dashboard.TradingOverview()})
}

// HandleDashboardStats возвращает графики роста и активности
func (h *Handler) HandleDashboardStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Dashboard.Stats()})
}

// HandleDashboardNotifications возвращает уведомления пользователя.
// Фронтенд ждет плоский массив без конверта.
func (h *Handler) HandleDashboardNotifications(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.deps.Dashboard.Notifications())
}
