package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campsite-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSuitability(t *testing.T) {
	cases := []struct {
		name           string
		max, min       float64
		precip, wind   float64
		score          int
		label          Suitability
		recommendation string
	}{
		{"ideal", 28, 18, 10, 10, 100, SuitabilityExcellent, "Perfect weather for camping!"},
		{"thresholds are strict", 35, 10, 40, 30, 100, SuitabilityExcellent, "Perfect weather for camping!"},
		{"hot day", 36, 20, 0, 0, 70, SuitabilityGood, "Good camping conditions"},
		{"some rain", 30, 20, 41, 0, 80, SuitabilityExcellent, "Perfect weather for camping!"},
		{"cold and showery", 20, 5, 50, 0, 50, SuitabilityFair, "Pack rain gear and waterproof equipment"},
		{"cold and windy", 20, 5, 10, 35, 50, SuitabilityFair, "Camping possible with proper preparation"},
		{"storm", 20, 5, 80, 40, 10, SuitabilityPoor, "Not recommended for camping. Consider rescheduling."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := SuitabilityScore(tc.max, tc.min, tc.precip, tc.wind)
			assert.Equal(t, tc.score, score)
			label := SuitabilityFor(score)
			assert.Equal(t, tc.label, label)
			assert.Equal(t, tc.recommendation, Recommendation(label, tc.precip))
		})
	}

	assert.Equal(t, SuitabilityGood, SuitabilityFor(60))
	assert.Equal(t, SuitabilityFair, SuitabilityFor(40))
	assert.Equal(t, SuitabilityPoor, SuitabilityFor(39))
}

func TestWeatherDescription(t *testing.T) {
	assert.Equal(t, "Clear sky", WeatherDescription(0))
	assert.Equal(t, "Thunderstorm with heavy hail", WeatherDescription(99))
	assert.Equal(t, "Unknown", WeatherDescription(42))
}

func TestClampForecastDays(t *testing.T) {
	assert.Equal(t, 1, ClampForecastDays(-3))
	assert.Equal(t, 1, ClampForecastDays(0))
	assert.Equal(t, 7, ClampForecastDays(7))
	assert.Equal(t, 16, ClampForecastDays(30))
}

const openMeteoBody = `{
  "latitude": 14.44,
  "longitude": 101.37,
  "daily": {
    "time": ["2030-01-10", "2030-01-11"],
    "temperature_2m_max": [30.0, 24.0],
    "temperature_2m_min": [20.0, 8.0],
    "precipitation_probability_max": [10, 55],
    "wind_speed_10m_max": [12.5, null],
    "weather_code": [1, 63]
  },
  "hourly": {"time": ["2030-01-10T00:00"], "temperature_2m": [21.3]}
}`

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func newWeatherFixture(t *testing.T, handler http.HandlerFunc) (*WeatherService, uint) {
	t.Helper()
	db := testutil.NewDB(t)
	camp := testutil.CreateCampsite(t, db, "Khao Yai", "100.00")

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWeatherService(db, srv.URL, time.Second, nil, 0, zap.NewNop()), camp.ID
}

func TestForecast_Success(t *testing.T) {
	var gotQuery map[string]string
	svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"latitude":      q.Get("latitude"),
			"longitude":     q.Get("longitude"),
			"daily":         q.Get("daily"),
			"hourly":        q.Get("hourly"),
			"timezone":      q.Get("timezone"),
			"forecast_days": q.Get("forecast_days"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openMeteoBody))
	})

	fc, err := svc.Forecast(context.Background(), campID, 30)
	require.NoError(t, err)

	assert.Equal(t, "14.4391", gotQuery["latitude"])
	assert.Equal(t, "101.3723", gotQuery["longitude"])
	assert.Equal(t, dailyParams, gotQuery["daily"])
	assert.Equal(t, "temperature_2m", gotQuery["hourly"])
	assert.Equal(t, "auto", gotQuery["timezone"])
	assert.Equal(t, "16", gotQuery["forecast_days"])

	assert.Equal(t, campID, fc.Campsite.ID)
	assert.Equal(t, "Open-Meteo Weather API", fc.APISource)
	assert.False(t, fc.Cached)
	assert.NotEmpty(t, fc.Weather.Hourly)
	require.Len(t, fc.Weather.Daily, 2)

	d0 := fc.Weather.Daily[0]
	assert.Equal(t, "2030-01-10", d0.Date)
	assert.Equal(t, 25.0, d0.TemperatureAvg)
	assert.Equal(t, "Mainly clear", d0.WeatherDescription)
	assert.Equal(t, SuitabilityExcellent, d0.CampingSuitability)

	d1 := fc.Weather.Daily[1]
	assert.Equal(t, 0.0, d1.WindSpeed)
	assert.Equal(t, 55.0, d1.PrecipitationProbability)
	assert.Equal(t, SuitabilityFair, d1.CampingSuitability)
	assert.Equal(t, "Pack rain gear and waterproof equipment", d1.Recommendation)
}

func TestForecast_UsesCache(t *testing.T) {
	var hits int32
	svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(openMeteoBody))
	})
	cache := newMemoryCache()
	svc.Cache = cache
	svc.CacheTTL = 30 * time.Minute

	first, err := svc.Forecast(context.Background(), campID, 7)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Forecast(context.Background(), campID, 7)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Weather.Daily, second.Weather.Daily)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	assert.Equal(t, 30*time.Minute, cache.ttls["weather:forecast:14.4391:101.3723:7"])

	_, err = svc.Forecast(context.Background(), campID, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestForecast_Errors(t *testing.T) {
	t.Run("unknown campsite", func(t *testing.T) {
		svc, _ := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("upstream must not be called")
		})
		_, err := svc.Forecast(context.Background(), 9999, 7)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing campsite id", func(t *testing.T) {
		svc, _ := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := svc.Forecast(context.Background(), 0, 7)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("upstream 500 is a bad gateway", func(t *testing.T) {
		svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		_, err := svc.Forecast(context.Background(), campID, 7)
		assert.ErrorIs(t, err, ErrUpstreamBadGateway)
		assert.True(t, IsUpstream(err))
	})

	t.Run("missing daily block is a data error", func(t *testing.T) {
		svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"latitude": 1, "hourly": {}}`))
		})
		_, err := svc.Forecast(context.Background(), campID, 7)
		assert.ErrorIs(t, err, ErrData)
	})

	t.Run("short daily arrays are a data error", func(t *testing.T) {
		svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"daily": {"time": ["2030-01-10"], "temperature_2m_max": [], "temperature_2m_min": [1], "weather_code": [0]}}`))
		})
		_, err := svc.Forecast(context.Background(), campID, 7)
		assert.ErrorIs(t, err, ErrData)
	})

	t.Run("malformed json is a data error", func(t *testing.T) {
		svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"daily": [`))
		})
		_, err := svc.Forecast(context.Background(), campID, 7)
		assert.ErrorIs(t, err, ErrData)
	})

	t.Run("slow upstream times out", func(t *testing.T) {
		svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		svc.Timeout = 50 * time.Millisecond

		_, err := svc.Forecast(context.Background(), campID, 7)
		assert.ErrorIs(t, err, ErrUpstreamTimeout)
	})

	t.Run("unreachable upstream is unavailable", func(t *testing.T) {
		svc, campID := newWeatherFixture(t, func(w http.ResponseWriter, r *http.Request) {})
		dead := httptest.NewServer(http.NotFoundHandler())
		svc.BaseURL = dead.URL
		dead.Close()

		_, err := svc.Forecast(context.Background(), campID, 7)
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
}
