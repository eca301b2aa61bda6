package routingfx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"tripweaver/internal/services"
)

var Module = fx.Provide(
	provideConfig, provideHubs, provideCache, provideFetcher, provideResolver)

func provideConfig() services.PlannerConfig {
	return services.DefaultPlannerConfig()
}

func provideHubs() *services.HubTable {
	hubs, err := services.LoadHubTable()
	if err != nil {
		log.Printf("Error loading hub table, long-haul routing disabled: %v", err)
		return nil
	}
	return hubs
}

func provideCache() services.RouteLegCache {
	return services.NewRouteLegCache()
}

// ROUTING_OFFLINE=true skips the routing backend entirely and plans with
// straight-line estimates.
func provideFetcher(cfg services.PlannerConfig) services.RouteFetcher {
	if os.Getenv("ROUTING_OFFLINE") == "true" {
		return nil
	}
	return services.NewOSRMClient(cfg)
}

func provideResolver(fetcher services.RouteFetcher, hubs *services.HubTable, cache services.RouteLegCache, cfg services.PlannerConfig) services.RouteResolver {
	return services.NewRouteCostService(fetcher, hubs, cache, cfg)
}
