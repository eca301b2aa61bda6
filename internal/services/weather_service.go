package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"tripweaver/internal/models/response_models"
)

// WeatherProvider supplies a purely informational per-day summary. A missing
// forecast is not an error worth failing a plan for; callers drop the
// annotation on any failure.
type WeatherProvider interface {
	DailySummary(ctx context.Context, date time.Time, lat, lon float64) (*response_models.WeatherSummary, error)
}

type OpenMeteoClient struct {
	HTTP    *http.Client
	BaseURL string
}

func NewOpenMeteoClient(cfg PlannerConfig) *OpenMeteoClient {
	base := os.Getenv("OPEN_METEO_URL")
	if base == "" {
		base = "https://api.open-meteo.com"
	}
	return &OpenMeteoClient{
		HTTP:    &http.Client{Timeout: cfg.RouteRequestTimeout},
		BaseURL: base,
	}
}

func (c *OpenMeteoClient) DailySummary(ctx context.Context, date time.Time, lat, lon float64) (*response_models.WeatherSummary, error) {
	day := date.Format("2006-01-02")
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lon))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean,weather_code")
	q.Set("start_date", day)
	q.Set("end_date", day)
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("weather bad status: %s", resp.Status)
	}

	var payload struct {
		Daily struct {
			TempMax  []float64 `json:"temperature_2m_max"`
			TempMin  []float64 `json:"temperature_2m_min"`
			Humidity []float64 `json:"relative_humidity_2m_mean"`
			Code     []int     `json:"weather_code"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}
	d := payload.Daily
	if len(d.TempMax) == 0 || len(d.TempMin) == 0 {
		// No data for the requested date; the day simply carries no weather.
		return nil, nil
	}

	summary := &response_models.WeatherSummary{
		MinTempC: d.TempMin[0],
		MaxTempC: d.TempMax[0],
		AvgTempC: (d.TempMin[0] + d.TempMax[0]) / 2,
	}
	if len(d.Humidity) > 0 {
		summary.HumidityPct = int(d.Humidity[0])
	}
	if len(d.Code) > 0 {
		summary.Description = describeWeatherCode(d.Code[0])
	}
	return summary, nil
}

// describeWeatherCode maps WMO weather interpretation codes onto short texts.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}
