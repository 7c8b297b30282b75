package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/aaron-cedillo/EbenConta-Project/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAreIndependentPerInstance(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.AuthCalls.WithLabelValues("login", "ok").Inc()

	require.Equal(t, 1.0, testutil.ToFloat64(a.AuthCalls.WithLabelValues("login", "ok")))
	require.Equal(t, 0.0, testutil.ToFloat64(b.AuthCalls.WithLabelValues("login", "ok")))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := metrics.New()
	m.Transitions.WithLabelValues("authenticated", "terminated", "idle").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "ebenconta_session_transitions_total")
}
