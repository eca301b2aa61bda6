package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"sync"

	"tripweaver/internal/spatial"
)

// Mode tags carried on a RouteLeg.
const (
	ModeRoad           = "road"
	longHaulModePrefix = "long-haul:"
)

// RouteLeg is a resolved travel segment between two coordinates.
type RouteLeg struct {
	From        spatial.Point
	To          spatial.Point
	DistanceKm  float64
	DurationMin int
	Geometry    []spatial.Point
	Mode        string // ModeRoad or "long-haul:<origin-hub>-<dest-hub>"
}

// --------- In-memory cache keyed on rounded coordinate pairs ---------

// legKey rounds both endpoints to 1e-5 degrees (~1 m), so repeated lookups
// for the same physical pair hit the same entry.
type legKey struct {
	aLat, aLon, bLat, bLon int64
}

func roundCoord(v float64) int64 {
	return int64(math.Round(v * 1e5))
}

func makeLegKey(a, b spatial.Point) legKey {
	return legKey{
		aLat: roundCoord(a.Lat), aLon: roundCoord(a.Lon),
		bLat: roundCoord(b.Lat), bLon: roundCoord(b.Lon),
	}
}

func (k legKey) reversed() legKey {
	return legKey{aLat: k.bLat, aLon: k.bLon, bLat: k.aLat, bLon: k.aLon}
}

// RouteLegCache stores resolved legs. Entries are idempotent, so concurrent
// redundant computation is benign; the default store is still lock-guarded
// for shared use across invocations.
type RouteLegCache interface {
	Get(k legKey) (RouteLeg, bool)
	Set(k legKey, leg RouteLeg)
}

type inMemoryLegCache struct {
	mu    sync.RWMutex
	store map[legKey]RouteLeg
}

// NewRouteLegCache returns an empty in-memory leg cache. Lifetime is one
// planning invocation unless the caller deliberately shares it.
func NewRouteLegCache() RouteLegCache {
	return &inMemoryLegCache{store: make(map[legKey]RouteLeg)}
}

func (c *inMemoryLegCache) Get(k legKey) (RouteLeg, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	leg, ok := c.store[k]
	return leg, ok
}

func (c *inMemoryLegCache) Set(k legKey, leg RouteLeg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = leg
}

// -------------- External route provider (OSRM-style) ---------------

// RouteFetcher is the boundary to the external route-cost provider. Any
// failure is recovered by the resolver; implementations just report it.
type RouteFetcher interface {
	FetchRoute(ctx context.Context, from, to spatial.Point) (RouteLeg, error)
}

type OSRMClient struct {
	HTTP    *http.Client
	BaseURL string
	Profile string // "driving"
}

func NewOSRMClient(cfg PlannerConfig) *OSRMClient {
	base := os.Getenv("OSRM_URL")
	if base == "" {
		base = "http://router.project-osrm.org"
	}
	return &OSRMClient{
		HTTP:    &http.Client{Timeout: cfg.RouteRequestTimeout},
		BaseURL: strings.TrimRight(base, "/"),
		Profile: "driving",
	}
}

func (c *OSRMClient) FetchRoute(ctx context.Context, from, to spatial.Point) (RouteLeg, error) {
	// OSRM wants lon,lat order.
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.BaseURL, c.Profile, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RouteLeg{}, fmt.Errorf("osrm request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return RouteLeg{}, fmt.Errorf("osrm http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return RouteLeg{}, fmt.Errorf("osrm bad status: %s", resp.Status)
	}

	var payload struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return RouteLeg{}, fmt.Errorf("osrm decode: %w", err)
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return RouteLeg{}, fmt.Errorf("osrm code %q with %d routes", payload.Code, len(payload.Routes))
	}

	route := payload.Routes[0]
	geometry := make([]spatial.Point, 0, len(route.Geometry.Coordinates))
	for _, pair := range route.Geometry.Coordinates {
		if len(pair) < 2 {
			return RouteLeg{}, fmt.Errorf("osrm malformed coordinate pair")
		}
		geometry = append(geometry, spatial.Point{Lat: pair[1], Lon: pair[0]})
	}
	return RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  math.Round(route.Distance/1000*100) / 100,
		DurationMin: int(math.Round(route.Duration / 60)),
		Geometry:    geometry,
		Mode:        ModeRoad,
	}, nil
}

// -------------- Resolver with long-haul split and fallback ---------------

// RouteResolver resolves travel cost between two coordinates. Resolve never
// fails: provider outages degrade to a geodesic estimate.
type RouteResolver interface {
	Resolve(ctx context.Context, from, to spatial.Point) RouteLeg
}

type RouteCostService struct {
	fetcher RouteFetcher // nil means offline: estimate everything
	hubs    *HubTable
	cache   RouteLegCache
	cfg     PlannerConfig
}

func NewRouteCostService(fetcher RouteFetcher, hubs *HubTable, cache RouteLegCache, cfg PlannerConfig) *RouteCostService {
	if cache == nil {
		cache = NewRouteLegCache()
	}
	return &RouteCostService{fetcher: fetcher, hubs: hubs, cache: cache, cfg: cfg}
}

func (s *RouteCostService) Resolve(ctx context.Context, from, to spatial.Point) RouteLeg {
	key := makeLegKey(from, to)
	if leg, ok := s.cache.Get(key); ok {
		return leg
	}

	crowKm := spatial.HaversineKm(from, to)

	var leg RouteLeg
	if crowKm > s.cfg.LongHaulThresholdKm && s.hubs != nil {
		leg = s.longHaulLeg(ctx, from, to)
	} else {
		leg = s.roadLeg(ctx, from, to, crowKm)
	}

	s.cache.Set(key, leg)
	s.cache.Set(key.reversed(), reverseLeg(leg))
	return leg
}

// roadLeg asks the provider and falls back to a geodesic estimate. The
// fallback is the guaranteed terminal case.
func (s *RouteCostService) roadLeg(ctx context.Context, from, to spatial.Point, crowKm float64) RouteLeg {
	if s.fetcher != nil {
		leg, err := s.fetcher.FetchRoute(ctx, from, to)
		if err == nil {
			return leg
		}
		log.Printf("route provider failed (%v), estimating %.1fkm leg", err, crowKm)
	}
	return s.estimateLeg(from, to, crowKm)
}

func (s *RouteCostService) estimateLeg(from, to spatial.Point, crowKm float64) RouteLeg {
	speed := s.cfg.FallbackSpeedKmh
	if crowKm < 1 {
		speed = s.cfg.SlowFallbackSpeedKmh
	}
	return RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  math.Round(crowKm*100) / 100,
		DurationMin: int(math.Round(crowKm/speed*60)) + s.cfg.FallbackSlackMin,
		Geometry:    []spatial.Point{from, to},
		Mode:        ModeRoad,
	}
}

// longHaulLeg splits an impractically long leg into road → hub, hub → hub at
// cruise speed, hub → road, plus a fixed transfer overhead.
func (s *RouteCostService) longHaulLeg(ctx context.Context, from, to spatial.Point) RouteLeg {
	originHub := s.hubs.Nearest(from)
	destHub := s.hubs.Nearest(to)
	if originHub.Code == destHub.Code {
		// Both ends resolve to the same hub; a flight buys nothing.
		return s.roadLeg(ctx, from, to, spatial.HaversineKm(from, to))
	}

	toHub := s.roadLeg(ctx, from, originHub.Point(), spatial.HaversineKm(from, originHub.Point()))
	fromHub := s.roadLeg(ctx, destHub.Point(), to, spatial.HaversineKm(destHub.Point(), to))

	hubKm := spatial.HaversineKm(originHub.Point(), destHub.Point())
	flightMin := int(math.Round(hubKm / s.cfg.CruiseSpeedKmh * 60))

	geometry := make([]spatial.Point, 0, len(toHub.Geometry)+2+len(fromHub.Geometry))
	geometry = append(geometry, toHub.Geometry...)
	geometry = append(geometry, originHub.Point(), destHub.Point())
	geometry = append(geometry, fromHub.Geometry...)

	return RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  math.Round((toHub.DistanceKm+hubKm+fromHub.DistanceKm)*100) / 100,
		DurationMin: toHub.DurationMin + flightMin + fromHub.DurationMin + int(s.cfg.HubTransferOverhead.Minutes()),
		Geometry:    geometry,
		Mode:        longHaulModePrefix + originHub.Code + "-" + destHub.Code,
	}
}

func reverseLeg(leg RouteLeg) RouteLeg {
	return RouteLeg{
		From:        leg.To,
		To:          leg.From,
		DistanceKm:  leg.DistanceKm,
		DurationMin: leg.DurationMin,
		Geometry:    spatial.Reverse(leg.Geometry),
		Mode:        swapHubMode(leg.Mode),
	}
}

// swapHubMode turns "long-haul:HAN-SGN" into "long-haul:SGN-HAN"; road legs
// pass through unchanged.
func swapHubMode(mode string) string {
	if !strings.HasPrefix(mode, longHaulModePrefix) {
		return mode
	}
	parts := strings.SplitN(strings.TrimPrefix(mode, longHaulModePrefix), "-", 2)
	if len(parts) != 2 {
		return mode
	}
	return longHaulModePrefix + parts[1] + "-" + parts[0]
}

// IsLongHaul reports whether a mode tag describes a hub-to-hub leg.
func IsLongHaul(mode string) bool {
	return strings.HasPrefix(mode, longHaulModePrefix)
}
