package keepalive

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

const responseTimeSamples = 100

// Tracker считает служебные запросы, чтобы хостинг не усыплял процесс
type Tracker struct {
	mu            sync.Mutex
	healthChecks  int
	pingChecks    int
	startTime     time.Time
	lastPing      *time.Time
	responseTimes []time.Duration
	now           func() time.Time
}

// NewTracker создает трекер с текущим временем старта
func NewTracker() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		now:       time.Now,
	}
}

// HealthReport - развернутый ответ health чекера
type HealthReport struct {
	Status      string      `json:"status"`
	Message     string      `json:"message"`
	Timestamp   time.Time   `json:"timestamp"`
	Server      ServerInfo  `json:"server"`
	Performance Performance `json:"performance"`
	Memory      MemoryInfo  `json:"memory"`
	KeepAlive   Policy      `json:"keepAlive"`
}

// ServerInfo - сведения о процессе
type ServerInfo struct {
	UptimeMinutes int       `json:"uptime"`
	StartTime     time.Time `json:"startTime"`
	Environment   string    `json:"environment"`
	GoVersion     string    `json:"goVersion"`
}

// Performance - счетчики запросов и время ответа
type Performance struct {
	HealthChecks        int        `json:"healthChecks"`
	PingChecks          int        `json:"pingChecks"`
	CurrentResponseTime string     `json:"currentResponseTime"`
	AvgResponseTime     string     `json:"avgResponseTime"`
	LastPing            *time.Time `json:"lastPing"`
}

// MemoryInfo - память процесса в мегабайтах
type MemoryInfo struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
	Sys   uint64 `json:"sys"`
	Unit  string `json:"unit"`
}

// Policy - режим самопинга
type Policy struct {
	Status    string            `json:"status"`
	Strategy  string            `json:"strategy"`
	Intervals map[string]string `json:"intervals"`
	Purpose   string            `json:"purpose"`
}

// PingReport - короткий ответ пинга
type PingReport struct {
	Pong      bool  `json:"pong"`
	Timestamp int64 `json:"timestamp"`
	Count     int   `json:"count"`
}

// StatsReport - статистика трекера
type StatsReport struct {
	Server struct {
		Uptime struct {
			Milliseconds int64  `json:"milliseconds"`
			Minutes      int    `json:"minutes"`
			Hours        int    `json:"hours"`
			Formatted    string `json:"formatted"`
		} `json:"uptime"`
		StartTime time.Time  `json:"startTime"`
		LastPing  *time.Time `json:"lastPing"`
	} `json:"server"`
	Requests struct {
		TotalHealthChecks int `json:"totalHealthChecks"`
		TotalPings        int `json:"totalPings"`
		Total             int `json:"total"`
	} `json:"requests"`
	Performance struct {
		AvgResponseTimeMs   int64 `json:"avgResponseTime"`
		ResponseTimeSamples int   `json:"responseTimeSamples"`
	} `json:"performance"`
	Memory          MemoryInfo `json:"memory"`
	KeepAliveStatus string     `json:"keepAliveStatus"`
}

func memoryInfo() MemoryInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemoryInfo{
		Used:  ms.HeapAlloc / 1024 / 1024,
		Total: ms.HeapSys / 1024 / 1024,
		Sys:   ms.Sys / 1024 / 1024,
		Unit:  "MB",
	}
}

func (t *Tracker) avgResponseTimeLocked() time.Duration {
	if len(t.responseTimes) == 0 {
		return 0
	}
	var sum time.Duration
	for _, rt := range t.responseTimes {
		sum += rt
	}
	return sum / time.Duration(len(t.responseTimes))
}

// Health регистрирует health чек и возвращает отчет
func (t *Tracker) Health(environment string, responseTime time.Duration) HealthReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.healthChecks++
	t.responseTimes = append(t.responseTimes, responseTime)
	if len(t.responseTimes) > responseTimeSamples {
		t.responseTimes = t.responseTimes[1:]
	}

	now := t.now()
	avg := t.avgResponseTimeLocked()

	return HealthReport{
		Status:    "OK",
		Message:   "Crypto Forex Trading API - Keep Alive Active",
		Timestamp: now,
		Server: ServerInfo{
			UptimeMinutes: int(now.Sub(t.startTime).Minutes()),
			StartTime:     t.startTime,
			Environment:   environment,
			GoVersion:     runtime.Version(),
		},
		Performance: Performance{
			HealthChecks:        t.healthChecks,
			PingChecks:          t.pingChecks,
			CurrentResponseTime: fmt.Sprintf("%dms", responseTime.Milliseconds()),
			AvgResponseTime:     fmt.Sprintf("%dms", avg.Milliseconds()),
			LastPing:            t.lastPing,
		},
		Memory: memoryInfo(),
		KeepAlive: Policy{
			Status:   "active",
			Strategy: "aggressive",
			Intervals: map[string]string{
				"normal":    "5 minutes",
				"active":    "3 minutes",
				"emergency": "2 minutes",
			},
			Purpose: "Prevent cold starts on free hosting",
		},
	}
}

// Ping регистрирует пинг и возвращает короткий ответ
func (t *Tracker) Ping() PingReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pingChecks++
	now := t.now()
	t.lastPing = &now

	return PingReport{
		Pong:      true,
		Timestamp: now.UnixMilli(),
		Count:     t.pingChecks,
	}
}

// Stats возвращает накопленную статистику
func (t *Tracker) Stats() StatsReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	uptime := now.Sub(t.startTime)

	var report StatsReport
	report.Server.Uptime.Milliseconds = uptime.Milliseconds()
	report.Server.Uptime.Minutes = int(uptime.Minutes())
	report.Server.Uptime.Hours = int(uptime.Hours())
	report.Server.Uptime.Formatted = fmt.Sprintf("%d minutes", int(uptime.Minutes()))
	report.Server.StartTime = t.startTime
	report.Server.LastPing = t.lastPing
	report.Requests.TotalHealthChecks = t.healthChecks
	report.Requests.TotalPings = t.pingChecks
	report.Requests.Total = t.healthChecks + t.pingChecks
	report.Performance.AvgResponseTimeMs = t.avgResponseTimeLocked().Milliseconds()
	report.Performance.ResponseTimeSamples = len(t.responseTimes)
	report.Memory = memoryInfo()
	report.KeepAliveStatus = "healthy"

	return report
}

// Reset обнуляет счетчики
func (t *Tracker) Reset() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.healthChecks = 0
	t.pingChecks = 0
	t.startTime = now
	t.lastPing = nil
	t.responseTimes = nil

	return now
}
