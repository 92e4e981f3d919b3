package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/NasaVasa/pricebot/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorCounters(t *testing.T) {
	m := New()

	m.RunCompleted(usecase.RunReport{Evaluated: 5, Malformed: 1, Duration: 250 * time.Millisecond})
	m.RunCompleted(usecase.RunReport{Skipped: true})
	m.RunFailed()
	m.AlertTriggered(domain.MarketCrypto)
	m.AlertTriggered(domain.MarketCrypto)
	m.AlertTriggered(domain.MarketForex)
	m.PriceLookupFailed("ETH")
	m.NotificationFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.monitorRuns.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.monitorRuns.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.monitorRuns.WithLabelValues("failed")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.alertsEvaluated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertsMalformed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.alertsTriggered.WithLabelValues("crypto")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertsTriggered.WithLabelValues("forex")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.priceLookupFailed.WithLabelValues("ETH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationFailed))
}

func TestWatchlistCounters(t *testing.T) {
	m := New()

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.RefreshFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshFailed))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.CacheMiss()

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pricebot_watchlist_cache_misses_total 1")
}
