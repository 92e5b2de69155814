package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/authbridge/pkg/auth"
)

func TestObserveAttempt(t *testing.T) {
	m := New()

	m.ObserveAttempt("directory", auth.OutcomeAccepted, 120*time.Millisecond)
	m.ObserveAttempt("directory", auth.OutcomeAccepted, 80*time.Millisecond)
	m.ObserveAttempt("directory", auth.OutcomeRejected, 50*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attemptsTotal.WithLabelValues("directory", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attemptsTotal.WithLabelValues("directory", "rejected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.attemptsTotal.WithLabelValues("flow", "accepted")))
	assert.Greater(t, testutil.ToFloat64(m.lastAttempt.WithLabelValues("directory", "rejected")), 0.0)

	count, err := testutil.GatherAndCount(m.Registry(), "authbridge_attempt_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.ObserveAttempt("flow", auth.OutcomeError, time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.Push(context.Background(), Config{PushGateway: "http://localhost:9091"}))
}

func TestPush(t *testing.T) {
	var (
		method string
		path   string
		body   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := New()
	m.ObserveAttempt("flow", auth.OutcomeRoleRejected, 10*time.Millisecond)

	err := m.Push(context.Background(), Config{PushGateway: server.URL})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(path, "/metrics/job/authbridge"), path)
	assert.NotEmpty(t, body)
}

func TestPush_Disabled(t *testing.T) {
	m := New()
	assert.NoError(t, m.Push(context.Background(), Config{}))
}

func TestPush_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := New()
	m.ObserveAttempt("flow", auth.OutcomeAccepted, time.Millisecond)

	err := m.Push(context.Background(), Config{PushGateway: server.URL, Job: "custom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), server.URL)
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	assert.False(t, cfg.Enabled())

	cfg.ApplyDefaults()
	assert.Equal(t, DefaultJob, cfg.Job)
	assert.Equal(t, DefaultPushTimeout, cfg.Timeout)
}
