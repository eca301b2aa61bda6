package weatherfx

import (
	"os"

	"go.uber.org/fx"
	"tripweaver/internal/services"
)

var Module = fx.Provide(
	provideWeather)

// WEATHER_DISABLED=true drops the forecast annotations from day summaries.
func provideWeather(cfg services.PlannerConfig) services.WeatherProvider {
	if os.Getenv("WEATHER_DISABLED") == "true" {
		return nil
	}
	return services.NewOpenMeteoClient(cfg)
}
