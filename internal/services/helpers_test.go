package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/spatial"
)

// estimatingResolver resolves every leg as a straight line at a fixed speed,
// keeping tests independent of any routing backend.
type estimatingResolver struct {
	speedKmh float64
}

func (r estimatingResolver) Resolve(_ context.Context, from, to spatial.Point) RouteLeg {
	km := spatial.HaversineKm(from, to)
	return RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  km,
		DurationMin: int(math.Round(km / r.speedKmh * 60)),
		Geometry:    []spatial.Point{from, to},
		Mode:        ModeRoad,
	}
}

// fixedResolver returns the same duration for every leg.
type fixedResolver struct {
	durationMin int
	distanceKm  float64
}

func (r fixedResolver) Resolve(_ context.Context, from, to spatial.Point) RouteLeg {
	return RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  r.distanceKm,
		DurationMin: r.durationMin,
		Geometry:    []spatial.Point{from, to},
		Mode:        ModeRoad,
	}
}

// testPOI builds a POI with a name-derived id so repeated runs see the same
// identifiers.
func testPOI(name string, lat, lon float64) *db_models.POI {
	poi := &db_models.POI{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Kind:      db_models.KindUnconstrained,
	}
	poi.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
	return poi
}

func rankOf(pois []*db_models.POI) map[string]int {
	rank := make(map[string]int, len(pois))
	for i, poi := range pois {
		rank[poi.ID.String()] = i
	}
	return rank
}
