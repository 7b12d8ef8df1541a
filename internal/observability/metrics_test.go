package observability

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/auth/login", "POST", 200, 5*time.Millisecond)
	m.RecordRequest("/api/auth/login", "POST", 200, 7*time.Millisecond)
	m.RecordRequest("/api/auth/login", "POST", 401, time.Millisecond)
	m.RecordError("/api/auth/login", "POST", "INVALID_CREDENTIALS")

	if got := m.RequestTotal("/api/auth/login", "POST", 200); got != 2 {
		t.Errorf("request total: got %d, want 2", got)
	}
	if got := m.RequestTotal("/api/auth/login", "POST", 401); got != 1 {
		t.Errorf("request total 401: got %d, want 1", got)
	}
	if got := m.ErrorTotal("/api/auth/login", "POST", "INVALID_CREDENTIALS"); got != 1 {
		t.Errorf("error total: got %d, want 1", got)
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, 0)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")
	if m.RequestTotal("/x", "GET", 200) != 0 || m.ErrorTotal("/x", "GET", "INTERNAL_ERROR") != 0 {
		t.Fatal("nil metrics must read as zero")
	}
}
