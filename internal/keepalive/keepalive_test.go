package keepalive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthAndPingCounters(t *testing.T) {
	tr := NewTracker()

	h := tr.Health("test", 2*time.Millisecond)
	assert.Equal(t, "OK", h.Status)
	assert.Equal(t, 1, h.Performance.HealthChecks)
	assert.Equal(t, "2ms", h.Performance.CurrentResponseTime)
	assert.Nil(t, h.Performance.LastPing)

	p := tr.Ping()
	assert.True(t, p.Pong)
	assert.Equal(t, 1, p.Count)

	h = tr.Health("test", 4*time.Millisecond)
	assert.Equal(t, 2, h.Performance.HealthChecks)
	assert.Equal(t, 1, h.Performance.PingChecks)
	assert.NotNil(t, h.Performance.LastPing)
	assert.Equal(t, "3ms", h.Performance.AvgResponseTime)
}

func TestStatsAndReset(t *testing.T) {
	tr := NewTracker()

	tr.Health("test", time.Millisecond)
	tr.Ping()
	tr.Ping()

	stats := tr.Stats()
	assert.Equal(t, 1, stats.Requests.TotalHealthChecks)
	assert.Equal(t, 2, stats.Requests.TotalPings)
	assert.Equal(t, 3, stats.Requests.Total)
	assert.Equal(t, 1, stats.Performance.ResponseTimeSamples)
	assert.Equal(t, "healthy", stats.KeepAliveStatus)

	tr.Reset()
	stats = tr.Stats()
	assert.Equal(t, 0, stats.Requests.Total)
	assert.Nil(t, stats.Server.LastPing)
}

func TestResponseTimeWindowCapped(t *testing.T) {
	tr := NewTracker()

	for i := 0; i < 150; i++ {
		tr.Health("test", time.Millisecond)
	}

	stats := tr.Stats()
	assert.Equal(t, responseTimeSamples, stats.Performance.ResponseTimeSamples)
	assert.Equal(t, 150, stats.Requests.TotalHealthChecks)
}
