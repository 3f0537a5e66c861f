package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"elon_broker/internal/trading"
)

// HandleSubmitOrder регистрирует новый ордер
func (h *Handler) HandleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req trading.OrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	trade, err := h.deps.Trading.SubmitOrder(req)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondCreated(w, "Order submitted successfully", trade)
}

type ClosePositionRequest struct {
	TradeID    string  `json:"tradeId"`
	ClosePrice float64 `json:"closePrice"`
}

// HandleClosePosition закрывает позицию и считает PnL
func (h *Handler) HandleClosePosition(w http.ResponseWriter, r *http.Request) {
	var req ClosePositionRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.TradeID == "" || req.ClosePrice <= 0 {
		h.respondError(w, http.StatusBadRequest, "tradeId and closePrice are required")
		return
	}

	result, err := h.deps.Trading.ClosePosition(req.TradeID, req.ClosePrice)
	if err != nil {
		if errors.Is(err, trading.ErrTradeNotFound) {
			h.respondError(w, http.StatusNotFound, "Trade not found or already closed")
			return
		}

		h.logger.Error("Failed to close position", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	h.respondSuccess(w, result.Message, result)
}

// HandleTradingHistory возвращает историю сделок пользователя
func (h *Handler) HandleTradingHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	offset, _ := strconv.Atoi(q.Get("offset"))

	trades, meta := h.deps.Trading.History(mux.Vars(r)["userId"], q.Get("status"), limit, offset)

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"trades": trades,
		"meta":   meta,
	}})
}

// HandleTradingPositions возвращает открытые позиции пользователя
func (h *Handler) HandleTradingPositions(w http.ResponseWriter, r *http.Request) {
	positions, meta := h.deps.Trading.Positions(mux.Vars(r)["userId"])

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"positions": positions,
		"meta":      meta,
	}})
}

type VerifyAccountRequest struct {
	UserID      string  `json:"userId"`
	TradeAmount float64 `json:"tradeAmount"`
}

// HandleVerifyAccount проверяет счет перед сделкой
func (h *Handler) HandleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req VerifyAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserID == "" || req.TradeAmount <= 0 {
		h.respondError(w, http.StatusBadRequest, "userId and tradeAmount are required")
		return
	}

	result, err := h.deps.Trading.VerifyAccount(req.UserID, req.TradeAmount)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondSuccess(w, "Account verified successfully", result)
}

// HandleTradingOverview возвращает торговую статистику пользователя
func (h *Handler) HandleTradingOverview(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    h.deps.Trading.Overview(mux.Vars(r)["userId"]),
	})
}

// HandleAllTrades возвращает все сделки для админки
func (h *Handler) HandleAllTrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 100
	}
	offset, _ := strconv.Atoi(q.Get("offset"))

	trades, meta := h.deps.Trading.AllTrades(q.Get("status"), q.Get("userId"), limit, offset)

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"trades": trades,
		"meta":   meta,
	}})
}

// HandleTradingHealth возвращает состояние торгового сервиса
func (h *Handler) HandleTradingHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Trading.Health()})
}
