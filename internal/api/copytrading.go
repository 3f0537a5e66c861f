package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"elon_broker/internal/copytrading"
	"elon_broker/internal/models"
)

// Интервал кадров live потока
const streamInterval = 3 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin контролируется CORS слоем
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleTopTraders возвращает список трейдеров с фильтрами и сортировкой
func (h *Handler) HandleTopTraders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := copytrading.TraderFilter{
		Platform: q.Get("platform"),
		SortBy:   q.Get("sortBy"),
	}
	if v := q.Get("minRoi"); v != "" {
		if minROI, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinROI = &minROI
		}
	}
	if v := q.Get("maxRisk"); v != "" {
		if maxRisk, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxRisk = &maxRisk
		}
	}

	traders := h.deps.Simulator.TopTraders(filter)

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: traders})
}

// HandleTrader возвращает карточку трейдера
func (h *Handler) HandleTrader(w http.ResponseWriter, r *http.Request) {
	details, ok := h.deps.Simulator.Trader(mux.Vars(r)["id"])
	if !ok {
		h.respondError(w, http.StatusNotFound, "Trader not found")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: details})
}

// HandleTraderActivity возвращает ленту активности трейдера
func (h *Handler) HandleTraderActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}

	feed, ok := h.deps.Simulator.Activity(mux.Vars(r)["id"], limit)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Trader not found")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: feed})
}

type CopyTraderRequest struct {
	UserID    string  `json:"userId"`
	TraderID  string  `json:"traderId"`
	Amount    float64 `json:"amount"`
	RiskLevel string  `json:"riskLevel"`
}

// HandleCopyTrader создает связь копирования
func (h *Handler) HandleCopyTrader(w http.ResponseWriter, r *http.Request) {
	var req CopyTraderRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserID == "" || req.TraderID == "" || req.Amount <= 0 {
		h.respondError(w, http.StatusBadRequest, "userId, traderId and amount are required")
		return
	}

	copyRel, err := h.deps.CopyTrading.CopyTrader(req.UserID, req.TraderID, req.Amount, req.RiskLevel)
	if err != nil {
		var amountErr *copytrading.CopyAmountError
		switch {
		case errors.Is(err, copytrading.ErrTraderNotFound):
			h.respondError(w, http.StatusNotFound, "Trader not found")
		case errors.As(err, &amountErr):
			h.respondError(w, http.StatusBadRequest, amountErr.Error())
		default:
			h.logger.Error("Failed to create copy relationship", slog.Any("error", err))
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}

		return
	}

	h.respondCreated(w, fmt.Sprintf("Successfully started copying %s", copyRel.TraderName), copyRel)
}

// HandleMyCopies возвращает копии пользователя со сводкой
func (h *Handler) HandleMyCopies(w http.ResponseWriter, r *http.Request) {
	copies, summary := h.deps.CopyTrading.MyCopies(mux.Vars(r)["userId"])

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"copies":  copies,
		"summary": summary,
	}})
}

type StopCopyRequest struct {
	ClosePositions *bool `json:"closePositions"`
}

// HandleStopCopy останавливает копирование
func (h *Handler) HandleStopCopy(w http.ResponseWriter, r *http.Request) {
	var req StopCopyRequest
	_ = decodeOptional(r, &req)

	closePositions := true
	if req.ClosePositions != nil {
		closePositions = *req.ClosePositions
	}

	result, err := h.deps.CopyTrading.StopCopy(mux.Vars(r)["copyId"], closePositions)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Copy relationship not found")
		return
	}

	h.respondSuccess(w, "Copy trading stopped successfully", result)
}

// HandlePlatforms возвращает подключенные площадки
func (h *Handler) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Simulator.Platforms()})
}

// HandleLiveStream раздает live обновления трейдеров через SSE
func (h *Handler) HandleLiveStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeFrame := func(frame models.StreamFrame) error {
		payload, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()

		return nil
	}

	if err := writeFrame(models.StreamFrame{
		Type:      "connected",
		Message:   "Connected to live trading stream",
		Timestamp: time.Now(),
	}); err != nil {
		return
	}

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			err := writeFrame(models.StreamFrame{
				Type:      "traders_update",
				Data:      h.deps.Simulator.LiveUpdates(),
				Timestamp: time.Now(),
			})
			if err != nil {
				return
			}
		}
	}
}

// HandleLiveWebsocket - websocket вариант live потока
func (h *Handler) HandleLiveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	err = conn.WriteJSON(models.StreamFrame{
		Type:      "connected",
		Message:   "Connected to live trading stream",
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			err := conn.WriteJSON(models.StreamFrame{
				Type:      "traders_update",
				Data:      h.deps.Simulator.LiveUpdates(),
				Timestamp: time.Now(),
			})
			if err != nil {
				return
			}
		}
	}
}
