package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/db_models"
)

func clusterNames(clusters []DayCluster) [][]string {
	out := make([][]string, len(clusters))
	for i, c := range clusters {
		for _, poi := range c.POIs {
			out[i] = append(out[i], poi.Name)
		}
	}
	return out
}

func totalPOIs(clusters []DayCluster) int {
	total := 0
	for _, c := range clusters {
		total += len(c.POIs)
	}
	return total
}

func TestPartitionDegenerate(t *testing.T) {
	svc := NewPartitionService(estimatingResolver{speedKmh: 40}, DefaultPlannerConfig())

	require.Nil(t, svc.Partition(context.Background(), nil, hanoi, 3, 720))

	only := testPOI("solo", 21.03, 105.85)
	clusters := svc.Partition(context.Background(), []*db_models.POI{only}, hanoi, 3, 720)
	require.Len(t, clusters, 1)
	require.Equal(t, "group-1", clusters[0].Label)
	require.Len(t, clusters[0].POIs, 1)
	require.InDelta(t, 21.03, clusters[0].Centroid.Lat, 0.001)
}

func TestPartitionCompactSetKeepsAllPOIs(t *testing.T) {
	cfg := DefaultPlannerConfig()
	svc := NewPartitionService(estimatingResolver{speedKmh: 40}, cfg)

	pois := []*db_models.POI{
		testPOI("old quarter", 21.034, 105.851),
		testPOI("temple", 21.028, 105.852),
		testPOI("museum", 21.040, 105.838),
		testPOI("lake", 21.048, 105.865),
		testPOI("pagoda", 21.045, 105.835),
	}

	clusters := svc.Partition(context.Background(), pois, hanoi, 3, cfg.DayCeilingMin)
	require.Equal(t, len(pois), totalPOIs(clusters))
	for _, c := range clusters {
		require.LessOrEqual(t, len(c.POIs), cfg.MaxPOIsPerDay)
		require.NotEmpty(t, c.Label)
	}
}

func TestPartitionSplitChunksAreIsolated(t *testing.T) {
	cfg := DefaultPlannerConfig()
	svc := NewPartitionService(estimatingResolver{speedKmh: 40}, cfg)

	pois := []*db_models.POI{
		testPOI("one", 21.030, 105.850),
		testPOI("two", 21.032, 105.852),
		testPOI("three", 21.034, 105.854),
		testPOI("four", 21.036, 105.856),
		testPOI("five", 21.038, 105.858),
	}

	// A single day forces one cluster, which the cap then splits in two.
	clusters := svc.Partition(context.Background(), pois, hanoi, 1, cfg.DayCeilingMin)
	require.Len(t, clusters, 2)
	require.Len(t, clusters[0].POIs, 3)

	// Growing one chunk must not clobber the first POI of its sibling.
	before := clusters[1].POIs[0].Name
	clusters[0].POIs = append(clusters[0].POIs, testPOI("extra", 21.03, 105.85))
	require.Equal(t, before, clusters[1].POIs[0].Name)
}

func TestPartitionWideSpreadUsesBanding(t *testing.T) {
	cfg := DefaultPlannerConfig()
	svc := NewPartitionService(estimatingResolver{speedKmh: 40}, cfg)

	// Hanoi and Saigon are ~1100 km apart, far over the banding threshold.
	pois := []*db_models.POI{
		testPOI("hanoi-a", 21.03, 105.85),
		testPOI("saigon-a", 10.78, 106.70),
		testPOI("hanoi-b", 21.05, 105.88),
		testPOI("saigon-b", 10.80, 106.66),
	}

	clusters := svc.Partition(context.Background(), pois, hanoi, 4, cfg.DayCeilingMin)
	require.Equal(t, 4, totalPOIs(clusters))
	require.Len(t, clusters, 2)

	// Starting from Hanoi, the northern band comes first.
	for _, poi := range clusters[0].POIs {
		require.Greater(t, poi.Latitude, 20.0)
	}
	for _, poi := range clusters[1].POIs {
		require.Less(t, poi.Latitude, 11.0)
	}
}

func TestPartitionSplitsOversizedClusters(t *testing.T) {
	cfg := DefaultPlannerConfig()
	svc := NewPartitionService(estimatingResolver{speedKmh: 40}, cfg)

	festival := testPOI("festival", 21.036, 105.846)
	festival.Kind = db_models.KindRecurringDate
	festival.SeasonStart = "01-10"
	festival.SeasonEnd = "01-20"

	pois := []*db_models.POI{
		testPOI("s1", 21.030, 105.840),
		testPOI("s2", 21.032, 105.842),
		testPOI("s3", 21.034, 105.844),
		festival,
		testPOI("s4", 21.038, 105.848),
	}

	// One allowed day forces a single mixture component, then the cap split.
	clusters := svc.Partition(context.Background(), pois, hanoi, 1, cfg.DayCeilingMin)
	require.Equal(t, len(pois), totalPOIs(clusters))
	for _, c := range clusters {
		require.LessOrEqual(t, len(c.POIs), cfg.MaxPOIsPerDay)
	}

	// The date-bound POI was sorted to the head of its chunk.
	require.Equal(t, "festival", clusters[0].POIs[0].Name)
}

func TestPartitionDeterministic(t *testing.T) {
	cfg := DefaultPlannerConfig()
	svc := NewPartitionService(estimatingResolver{speedKmh: 40}, cfg)

	pois := []*db_models.POI{
		testPOI("a", 21.02, 105.83),
		testPOI("b", 21.05, 105.88),
		testPOI("c", 20.98, 105.79),
		testPOI("d", 21.08, 105.92),
		testPOI("e", 21.01, 105.86),
	}

	first := svc.Partition(context.Background(), pois, hanoi, 3, cfg.DayCeilingMin)
	second := svc.Partition(context.Background(), pois, hanoi, 3, cfg.DayCeilingMin)
	require.Equal(t, clusterNames(first), clusterNames(second))
}
