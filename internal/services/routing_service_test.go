package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tripweaver/internal/spatial"
)

var (
	hanoi  = spatial.Point{Lat: 21.0285, Lon: 105.8542}
	saigon = spatial.Point{Lat: 10.7769, Lon: 106.7009}
	danang = spatial.Point{Lat: 16.0544, Lon: 108.2022}
)

type countingFetcher struct {
	calls int
	fail  bool
}

func (f *countingFetcher) FetchRoute(_ context.Context, from, to spatial.Point) (RouteLeg, error) {
	f.calls++
	if f.fail {
		return RouteLeg{}, errors.New("provider down")
	}
	return RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  12.5,
		DurationMin: 25,
		Geometry:    []spatial.Point{from, {Lat: 21.0, Lon: 105.9}, to},
		Mode:        ModeRoad,
	}, nil
}

func TestResolveCachesReverseLeg(t *testing.T) {
	fetcher := &countingFetcher{}
	svc := NewRouteCostService(fetcher, nil, NewRouteLegCache(), DefaultPlannerConfig())

	a := spatial.Point{Lat: 21.03, Lon: 105.85}
	b := spatial.Point{Lat: 21.07, Lon: 105.80}

	forward := svc.Resolve(context.Background(), a, b)
	require.Equal(t, 1, fetcher.calls)

	backward := svc.Resolve(context.Background(), b, a)
	require.Equal(t, 1, fetcher.calls, "reverse lookup must hit the cache")

	require.Equal(t, forward.DistanceKm, backward.DistanceKm)
	require.Equal(t, forward.DurationMin, backward.DurationMin)
	require.Equal(t, forward.From, backward.To)
	require.Equal(t, forward.To, backward.From)

	require.Len(t, backward.Geometry, len(forward.Geometry))
	for i := range forward.Geometry {
		require.Equal(t, forward.Geometry[i], backward.Geometry[len(backward.Geometry)-1-i])
	}

	// A repeated forward lookup is also served from the cache.
	svc.Resolve(context.Background(), a, b)
	require.Equal(t, 1, fetcher.calls)
}

func TestResolveFallsBackToEstimate(t *testing.T) {
	fetcher := &countingFetcher{fail: true}
	cfg := DefaultPlannerConfig()
	svc := NewRouteCostService(fetcher, nil, NewRouteLegCache(), cfg)

	a := spatial.Point{Lat: 21.00, Lon: 105.80}
	b := spatial.Point{Lat: 21.10, Lon: 105.80}

	leg := svc.Resolve(context.Background(), a, b)
	require.Equal(t, 1, fetcher.calls)
	require.Equal(t, ModeRoad, leg.Mode)
	require.Len(t, leg.Geometry, 2)

	crowKm := spatial.HaversineKm(a, b)
	require.InDelta(t, crowKm, leg.DistanceKm, 0.01)
	wantMin := int(crowKm/cfg.FallbackSpeedKmh*60+0.5) + cfg.FallbackSlackMin
	require.InDelta(t, wantMin, leg.DurationMin, 1)
}

func TestResolveShortLegUsesWalkingPace(t *testing.T) {
	cfg := DefaultPlannerConfig()
	svc := NewRouteCostService(nil, nil, NewRouteLegCache(), cfg)

	a := spatial.Point{Lat: 21.0000, Lon: 105.8000}
	b := spatial.Point{Lat: 21.0040, Lon: 105.8000} // ~0.44 km

	leg := svc.Resolve(context.Background(), a, b)
	crowKm := spatial.HaversineKm(a, b)
	require.Less(t, crowKm, 1.0)
	wantMin := int(crowKm/cfg.SlowFallbackSpeedKmh*60+0.5) + cfg.FallbackSlackMin
	require.InDelta(t, wantMin, leg.DurationMin, 1)
}

func TestResolveLongHaulSplitsViaHubs(t *testing.T) {
	hubs, err := LoadHubTable()
	require.NoError(t, err)

	cfg := DefaultPlannerConfig()
	svc := NewRouteCostService(nil, hubs, NewRouteLegCache(), cfg)

	leg := svc.Resolve(context.Background(), hanoi, saigon)
	require.True(t, IsLongHaul(leg.Mode))
	require.Equal(t, "long-haul:HAN-SGN", leg.Mode)
	require.GreaterOrEqual(t, leg.DurationMin, int(cfg.HubTransferOverhead.Minutes()))
	require.Greater(t, leg.DistanceKm, 1000.0)

	// The reversed direction is cached with hub codes swapped.
	back := svc.Resolve(context.Background(), saigon, hanoi)
	require.Equal(t, "long-haul:SGN-HAN", back.Mode)
	require.Equal(t, leg.DurationMin, back.DurationMin)
}

func TestResolveSameHubDegradesToRoad(t *testing.T) {
	hubs, err := LoadHubTable()
	require.NoError(t, err)

	cfg := DefaultPlannerConfig()
	cfg.LongHaulThresholdKm = 5 // force the long-haul branch on a short leg
	svc := NewRouteCostService(nil, hubs, NewRouteLegCache(), cfg)

	a := spatial.Point{Lat: 21.00, Lon: 105.80}
	b := spatial.Point{Lat: 21.20, Lon: 105.90}
	leg := svc.Resolve(context.Background(), a, b)
	require.Equal(t, ModeRoad, leg.Mode)
}

func TestOSRMClientParsesRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 4520.0,
				"duration": 540.0,
				"geometry": {"coordinates": [[105.85, 21.02], [105.86, 21.03]]}
			}]
		}`))
	}))
	defer server.Close()

	client := NewOSRMClient(DefaultPlannerConfig())
	client.BaseURL = server.URL

	leg, err := client.FetchRoute(context.Background(), hanoi, danang)
	require.NoError(t, err)
	require.InDelta(t, 4.52, leg.DistanceKm, 0.001)
	require.Equal(t, 9, leg.DurationMin)
	require.Len(t, leg.Geometry, 2)
	require.InDelta(t, 21.02, leg.Geometry[0].Lat, 0.001)
	require.InDelta(t, 105.85, leg.Geometry[0].Lon, 0.001)
}

func TestOSRMClientRejectsErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer server.Close()

	client := NewOSRMClient(DefaultPlannerConfig())
	client.BaseURL = server.URL

	_, err := client.FetchRoute(context.Background(), hanoi, danang)
	require.Error(t, err)
}

func TestSwapHubMode(t *testing.T) {
	require.Equal(t, "long-haul:SGN-HAN", swapHubMode("long-haul:HAN-SGN"))
	require.Equal(t, ModeRoad, swapHubMode(ModeRoad))
}
