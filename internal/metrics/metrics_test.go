package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.ObserveAttempt("homo_sapiens", "no_identifier")
	r.ObserveAttempt("homo_sapiens", "no_identifier")
	r.ObserveAttempt("mus_musculus", "resolved")
	r.ObserveResolution("live")
	r.ObserveResolution("failed")
	r.ObserveAnswer("sequence", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.organismAttempts.WithLabelValues("homo_sapiens", "no_identifier")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.organismAttempts.WithLabelValues("mus_musculus", "resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutions.WithLabelValues("live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutions.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.quizAnswers.WithLabelValues("sequence", "true")))
}

func TestRecorder_HTTP(t *testing.T) {
	r := New(WithNamespace("test"), WithHistogramBuckets([]float64{0.01, 0.1, 1}))

	r.ObserveHTTP("/api/sequence", http.MethodGet, 200, 5*time.Millisecond)
	r.ObserveHTTP("/api/sequence", http.MethodGet, 404, 50*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("/api/sequence", "GET", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.httpRequestDuration))
}

func TestRecorder_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(WithRegistry(reg))
	require.Same(t, reg, r.Registry())

	r.ObserveResolution("fallback")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `vibe_dna_resolver_resolutions_total{source="fallback"} 1`))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
