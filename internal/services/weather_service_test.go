package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenMeteoDailySummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/forecast", r.URL.Path)
		require.Equal(t, "2026-05-01", r.URL.Query().Get("start_date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"daily": {
				"temperature_2m_max": [33.5],
				"temperature_2m_min": [25.5],
				"relative_humidity_2m_mean": [78.2],
				"weather_code": [63]
			}
		}`))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(DefaultPlannerConfig())
	client.BaseURL = server.URL

	day := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	summary, err := client.DailySummary(context.Background(), day, 21.03, 105.85)
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.InDelta(t, 25.5, summary.MinTempC, 0.001)
	require.InDelta(t, 33.5, summary.MaxTempC, 0.001)
	require.InDelta(t, 29.5, summary.AvgTempC, 0.001)
	require.Equal(t, 78, summary.HumidityPct)
	require.Equal(t, "rain", summary.Description)
}

func TestOpenMeteoEmptyDataMeansNoSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"daily": {}}`))
	}))
	defer server.Close()

	client := NewOpenMeteoClient(DefaultPlannerConfig())
	client.BaseURL = server.URL

	day := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	summary, err := client.DailySummary(context.Background(), day, 21.03, 105.85)
	require.NoError(t, err)
	require.Nil(t, summary)
}

func TestDescribeWeatherCode(t *testing.T) {
	require.Equal(t, "clear sky", describeWeatherCode(0))
	require.Equal(t, "partly cloudy", describeWeatherCode(2))
	require.Equal(t, "rain", describeWeatherCode(61))
	require.Equal(t, "thunderstorm", describeWeatherCode(95))
}
