package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"campsite-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultForecastDays = 7
	MaxForecastDays     = 16

	weatherAPISource = "Open-Meteo Weather API"
	weatherAPIURL    = "https://open-meteo.com"

	dailyParams = "temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max,weather_code"
)

var weatherDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// WeatherDescription maps a WMO weather code to text.
func WeatherDescription(code int) string {
	if d, ok := weatherDescriptions[code]; ok {
		return d
	}
	return "Unknown"
}

type Suitability string

const (
	SuitabilityExcellent Suitability = "excellent"
	SuitabilityGood      Suitability = "good"
	SuitabilityFair      Suitability = "fair"
	SuitabilityPoor      Suitability = "poor"
)

// SuitabilityScore starts at 100 and subtracts penalties for temperature,
// rain chance and wind. Thresholds are strict comparisons.
func SuitabilityScore(tempMax, tempMin, precipProbability, windSpeed float64) int {
	score := 100
	if tempMax > 35 || tempMin < 10 {
		score -= 30
	}
	switch {
	case precipProbability > 70:
		score -= 40
	case precipProbability > 40:
		score -= 20
	}
	if windSpeed > 30 {
		score -= 20
	}
	return score
}

func SuitabilityFor(score int) Suitability {
	switch {
	case score >= 80:
		return SuitabilityExcellent
	case score >= 60:
		return SuitabilityGood
	case score >= 40:
		return SuitabilityFair
	default:
		return SuitabilityPoor
	}
}

func Recommendation(s Suitability, precipProbability float64) string {
	switch s {
	case SuitabilityExcellent:
		return "Perfect weather for camping!"
	case SuitabilityGood:
		return "Good camping conditions"
	case SuitabilityFair:
		if precipProbability > 40 {
			return "Pack rain gear and waterproof equipment"
		}
		return "Camping possible with proper preparation"
	default:
		return "Not recommended for camping. Consider rescheduling."
	}
}

type DailyForecast struct {
	Date                     string      `json:"date"`
	TemperatureMin           float64     `json:"temperature_min"`
	TemperatureMax           float64     `json:"temperature_max"`
	TemperatureAvg           float64     `json:"temperature_avg"`
	PrecipitationProbability float64     `json:"precipitation_probability"`
	WindSpeed                float64     `json:"wind_speed"`
	WeatherCode              int         `json:"weather_code"`
	WeatherDescription       string      `json:"weather_description"`
	CampingSuitability       Suitability `json:"camping_suitability"`
	Recommendation           string      `json:"recommendation"`
}

type WeatherReport struct {
	Daily  []DailyForecast `json:"daily"`
	Hourly json.RawMessage `json:"hourly,omitempty"`
}

type ForecastCampsite struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Forecast struct {
	Campsite  ForecastCampsite `json:"campsite"`
	Weather   WeatherReport    `json:"weather"`
	APISource string           `json:"api_source"`
	APIURL    string           `json:"api_url"`
	Cached    bool             `json:"cached"`
}

type WeatherService struct {
	DB       *gorm.DB
	Client   *http.Client
	BaseURL  string
	Timeout  time.Duration
	Cache    ForecastCache
	CacheTTL time.Duration

	logger *zap.Logger
}

func NewWeatherService(db *gorm.DB, baseURL string, timeout time.Duration, cache ForecastCache, cacheTTL time.Duration, logger *zap.Logger) *WeatherService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WeatherService{
		DB:       db,
		Client:   &http.Client{},
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Timeout:  timeout,
		Cache:    cache,
		CacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ClampForecastDays bounds days to what Open-Meteo serves.
func ClampForecastDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxForecastDays {
		return MaxForecastDays
	}
	return days
}

// Forecast fetches the daily forecast for a campsite's coordinates and
// labels every day with a camping suitability.
func (s *WeatherService) Forecast(ctx context.Context, campsiteID uint, days int) (*Forecast, error) {
	if campsiteID == 0 {
		return nil, validationError("campsite_id is required")
	}
	days = ClampForecastDays(days)

	var campsite models.Campsite
	if err := s.DB.WithContext(ctx).First(&campsite, campsiteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Campsite not found")
		}
		return nil, fmt.Errorf("find campsite: %w", err)
	}

	lat, _ := campsite.Latitude.Float64()
	lon, _ := campsite.Longitude.Float64()
	out := &Forecast{
		Campsite:  ForecastCampsite{ID: campsite.ID, Name: campsite.Name, Latitude: lat, Longitude: lon},
		APISource: weatherAPISource,
		APIURL:    weatherAPIURL,
	}

	key := fmt.Sprintf("weather:forecast:%s:%s:%d",
		campsite.Latitude.StringFixed(4), campsite.Longitude.StringFixed(4), days)

	if s.Cache != nil {
		raw, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Forecast cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			var report WeatherReport
			if err := json.Unmarshal(raw, &report); err == nil {
				out.Weather = report
				out.Cached = true
				return out, nil
			}
			s.logger.Warn("Discarding undecodable cached forecast", zap.String("key", key))
		}
	}

	report, err := s.fetch(ctx, campsite.Latitude.String(), campsite.Longitude.String(), days)
	if err != nil {
		s.logger.Warn("Weather upstream failed",
			zap.Uint("campsite_id", campsite.ID),
			zap.Error(err))
		return nil, err
	}
	out.Weather = *report

	if s.Cache != nil && s.CacheTTL > 0 {
		if raw, err := json.Marshal(report); err == nil {
			if err := s.Cache.Set(ctx, key, raw, s.CacheTTL); err != nil {
				s.logger.Warn("Forecast cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return out, nil
}

type openMeteoResponse struct {
	Daily *struct {
		Time                        []string   `json:"time"`
		TemperatureMax              []*float64 `json:"temperature_2m_max"`
		TemperatureMin              []*float64 `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
		WindSpeedMax                []*float64 `json:"wind_speed_10m_max"`
		WeatherCode                 []*int     `json:"weather_code"`
	} `json:"daily"`
	Hourly json.RawMessage `json:"hourly"`
}

func (s *WeatherService) fetch(ctx context.Context, lat, lon string, days int) (*WeatherReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("latitude", lat)
	q.Set("longitude", lon)
	q.Set("daily", dailyParams)
	q.Set("hourly", "temperature_2m")
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, wrapError(ErrUpstreamTimeout, "Weather service timed out", err)
		}
		return nil, wrapError(ErrUpstreamUnavailable, "Weather service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, newError(ErrUpstreamBadGateway, fmt.Sprintf("Weather service returned status %d", resp.StatusCode))
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, wrapError(ErrUpstreamTimeout, "Weather service timed out", err)
		}
		return nil, wrapError(ErrData, "Weather service returned malformed data", err)
	}
	return buildReport(body)
}

func buildReport(body openMeteoResponse) (*WeatherReport, error) {
	d := body.Daily
	if d == nil || len(d.Time) == 0 {
		return nil, newError(ErrData, "Weather data missing daily forecast")
	}
	n := len(d.Time)
	if len(d.TemperatureMax) < n || len(d.TemperatureMin) < n || len(d.WeatherCode) < n {
		return nil, newError(ErrData, "Weather data missing daily fields")
	}

	report := &WeatherReport{Daily: make([]DailyForecast, 0, n)}
	if len(body.Hourly) > 0 && string(body.Hourly) != "null" {
		report.Hourly = body.Hourly
	}

	for i := 0; i < n; i++ {
		if d.TemperatureMax[i] == nil || d.TemperatureMin[i] == nil || d.WeatherCode[i] == nil {
			return nil, newError(ErrData, fmt.Sprintf("Weather data incomplete for %s", d.Time[i]))
		}
		tMax, tMin, code := *d.TemperatureMax[i], *d.TemperatureMin[i], *d.WeatherCode[i]
		precip := valueAt(d.PrecipitationProbabilityMax, i)
		wind := valueAt(d.WindSpeedMax, i)

		label := SuitabilityFor(SuitabilityScore(tMax, tMin, precip, wind))
		report.Daily = append(report.Daily, DailyForecast{
			Date:                     d.Time[i],
			TemperatureMin:           tMin,
			TemperatureMax:           tMax,
			TemperatureAvg:           (tMin + tMax) / 2,
			PrecipitationProbability: precip,
			WindSpeed:                wind,
			WeatherCode:              code,
			WeatherDescription:       WeatherDescription(code),
			CampingSuitability:       label,
			Recommendation:           Recommendation(label, precip),
		})
	}
	return report, nil
}

// valueAt treats absent or null readings as zero.
func valueAt(xs []*float64, i int) float64 {
	if i >= len(xs) || xs[i] == nil {
		return 0
	}
	return *xs[i]
}
