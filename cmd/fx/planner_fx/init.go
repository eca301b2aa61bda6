package plannerfx

import (
	"go.uber.org/fx"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
)

var Module = fx.Provide(
	providePlannerService)

func providePlannerService(poiRepo repositories.POIRepository, routes services.RouteResolver, weather services.WeatherProvider, cfg services.PlannerConfig) services.PlannerServiceInterface {
	return services.NewPlannerService(poiRepo, routes, weather, cfg)
}
