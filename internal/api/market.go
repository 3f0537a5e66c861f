package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type MarketPricesRequest struct {
	Symbols []string `json:"symbols"`
}

// HandleMarketPrices возвращает котировки запрошенных символов
func (h *Handler) HandleMarketPrices(w http.ResponseWriter, r *http.Request) {
	var req MarketPricesRequest
	if !h.decode(w, r, &req) {
		return
	}

	if len(req.Symbols) == 0 {
		h.respondError(w, http.StatusBadRequest, "symbols array is required")
		return
	}

	prices, lastUpdated := h.deps.Market.Prices(req.Symbols)

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"prices":      prices,
		"lastUpdated": lastUpdated,
	}})
}

// HandleMarketAllPrices возвращает все котировки, опционально по категории
func (h *Handler) HandleMarketAllPrices(w http.ResponseWriter, r *http.Request) {
	prices, lastUpdated := h.deps.Market.AllPrices(r.URL.Query().Get("category"))

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"prices":      prices,
		"count":       len(prices),
		"lastUpdated": lastUpdated,
	}})
}

// HandleMarketPrice возвращает котировку одного символа
func (h *Handler) HandleMarketPrice(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote, lastUpdated, ok := h.deps.Market.Price(symbol)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Symbol not found")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"symbol":      symbol,
		"price":       quote.Price,
		"change":      quote.Change,
		"volume":      quote.Volume,
		"lastUpdated": lastUpdated,
	}})
}

// HandleMarketTicker возвращает строки тикера
func (h *Handler) HandleMarketTicker(w http.ResponseWriter, r *http.Request) {
	ticker, lastUpdated := h.deps.Market.Ticker()

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"ticker":      ticker,
		"lastUpdated": lastUpdated,
	}})
}

// HandleMarketChart генерирует историю свечей
func (h *Handler) HandleMarketChart(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	q := r.URL.Query()

	interval := q.Get("interval")
	if interval == "" {
		interval = "1h"
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	candles, ok := h.deps.Market.Chart(symbol, interval, limit)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Symbol not found")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"symbol":   symbol,
		"interval": interval,
		"candles":  candles,
	}})
}

// HandleMarketStats возвращает рыночную статистику
func (h *Handler) HandleMarketStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Market.Stats()})
}

// HandleMarketHealth возвращает состояние сервиса котировок
func (h *Handler) HandleMarketHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Market.Health()})
}
