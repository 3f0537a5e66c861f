package api

import (
	"net/http"
	"time"
)

// HandleKeepAliveHealth отвечает на health чеки хостинга.
// Ответ без общего конверта, формат ждут внешние мониторы.
func (h *Handler) HandleKeepAliveHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report := h.deps.KeepAlive.Health(h.deps.Environment, time.Since(start))
	h.respondJSON(w, http.StatusOK, report)
}

// HandleKeepAlivePing отвечает на самопинг
func (h *Handler) HandleKeepAlivePing(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.deps.KeepAlive.Ping())
}

// HandleKeepAliveStats возвращает статистику keep-alive запросов
func (h *Handler) HandleKeepAliveStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.deps.KeepAlive.Stats())
}

// HandleKeepAliveReset обнуляет счетчики keep-alive
func (h *Handler) HandleKeepAliveReset(w http.ResponseWriter, r *http.Request) {
	resetAt := h.deps.KeepAlive.Reset()

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message":   "Keep-alive statistics reset",
		"timestamp": resetAt,
	})
}
