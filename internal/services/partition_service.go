package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/spatial"
)

// DayCluster is one day-sized group of POIs. Mutable until calendar
// assignment completes, frozen afterwards.
type DayCluster struct {
	Label    string
	POIs     []*db_models.POI
	Centroid spatial.Point
}

func (c *DayCluster) recenter() {
	points := make([]spatial.Point, 0, len(c.POIs))
	for _, p := range c.POIs {
		points = append(points, p.Point())
	}
	c.Centroid = spatial.Centroid(points)
}

// PartitionService splits valid POIs into day-sized clusters under the day
// duration budget.
type PartitionService struct {
	routes RouteResolver
	cfg    PlannerConfig
}

func NewPartitionService(routes RouteResolver, cfg PlannerConfig) *PartitionService {
	return &PartitionService{routes: routes, cfg: cfg}
}

// Partition groups POIs into at most maxDays clusters whose estimated day
// time fits maxDayMinutes. Widely dispersed sets fall back to latitude
// banding; a set that cannot fit keeps the maximum cluster count and lets the
// day builder spill the overflow.
func (s *PartitionService) Partition(ctx context.Context, pois []*db_models.POI, start spatial.Point, maxDays, maxDayMinutes int) []DayCluster {
	switch len(pois) {
	case 0:
		return nil
	case 1:
		// Too few samples for a mixture fit.
		return s.finalize([]DayCluster{{POIs: pois}})
	}
	if maxDays < 1 {
		maxDays = 1
	}

	if s.maxPairwiseKm(pois) > s.cfg.WideSpreadKm {
		log.Printf("POIs spread over %0.fkm+, partitioning by latitude bands", s.cfg.WideSpreadKm)
		return s.finalize(s.bandByLatitude(pois, start))
	}

	features := s.featureVectors(ctx, pois, start)

	maxK := maxDays
	if len(pois) < maxK {
		maxK = len(pois)
	}

	var clusters []DayCluster
	for k := 1; k <= maxK; k++ {
		candidate := groupByAssignment(pois, fitGaussianMixture(features, k, s.cfg.Seed), k)
		clusters = candidate
		if s.allClustersFit(ctx, candidate, start, maxDayMinutes) {
			break
		}
		// No k fits: the loop ends on maxK and a day may legitimately
		// overflow; the day builder defers the overflow downstream.
	}

	return s.finalize(s.splitOversized(clusters))
}

// featureVectors normalizes latitude, longitude, visit duration, travel time
// from the start point, and the preferred time-of-day code into [0,1] each.
func (s *PartitionService) featureVectors(ctx context.Context, pois []*db_models.POI, start spatial.Point) [][]float64 {
	raw := make([][]float64, len(pois))
	for i, poi := range pois {
		leg := s.routes.Resolve(ctx, start, poi.Point())
		raw[i] = []float64{
			poi.Latitude,
			poi.Longitude,
			float64(poi.VisitMinutes()),
			float64(leg.DurationMin),
			float64(poi.PreferredRank()),
		}
	}
	return normalizeColumns(raw)
}

func normalizeColumns(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return rows
	}
	d := len(rows[0])
	for j := 0; j < d; j++ {
		min, max := rows[0][j], rows[0][j]
		for _, row := range rows {
			if row[j] < min {
				min = row[j]
			}
			if row[j] > max {
				max = row[j]
			}
		}
		span := max - min
		for _, row := range rows {
			if span == 0 {
				row[j] = 0
			} else {
				row[j] = (row[j] - min) / span
			}
		}
	}
	return rows
}

func (s *PartitionService) maxPairwiseKm(pois []*db_models.POI) float64 {
	max := 0.0
	for i := 0; i < len(pois); i++ {
		for j := i + 1; j < len(pois); j++ {
			if km := spatial.HaversineKm(pois[i].Point(), pois[j].Point()); km > max {
				max = km
			}
		}
	}
	return max
}

// bandByLatitude sorts POIs along the latitude axis (walking away from the
// start side) and greedily groups consecutive POIs while the gap to the next
// one stays below the banding threshold. This avoids the nonsensical
// cross-region clusters a feature-space fit produces on dispersed sets.
func (s *PartitionService) bandByLatitude(pois []*db_models.POI, start spatial.Point) []DayCluster {
	sorted := append([]*db_models.POI(nil), pois...)

	meanLat := 0.0
	for _, p := range sorted {
		meanLat += p.Latitude
	}
	meanLat /= float64(len(sorted))

	northernStart := start.Lat >= meanLat
	sort.SliceStable(sorted, func(i, j int) bool {
		if northernStart {
			return sorted[i].Latitude > sorted[j].Latitude
		}
		return sorted[i].Latitude < sorted[j].Latitude
	})

	var clusters []DayCluster
	current := DayCluster{POIs: []*db_models.POI{sorted[0]}}
	for i := 1; i < len(sorted); i++ {
		gap := spatial.HaversineKm(sorted[i-1].Point(), sorted[i].Point())
		if gap > s.cfg.BandGapKm {
			clusters = append(clusters, current)
			current = DayCluster{}
		}
		current.POIs = append(current.POIs, sorted[i])
	}
	clusters = append(clusters, current)
	return clusters
}

func groupByAssignment(pois []*db_models.POI, assign []int, k int) []DayCluster {
	buckets := make([][]*db_models.POI, k)
	for i, poi := range pois {
		c := assign[i]
		buckets[c] = append(buckets[c], poi)
	}
	clusters := make([]DayCluster, 0, k)
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		clusters = append(clusters, DayCluster{POIs: bucket})
	}
	return clusters
}

func (s *PartitionService) allClustersFit(ctx context.Context, clusters []DayCluster, start spatial.Point, maxDayMinutes int) bool {
	for i := range clusters {
		if s.estimateClusterMinutes(ctx, &clusters[i], start) > maxDayMinutes {
			return false
		}
	}
	return true
}

// estimateClusterMinutes walks the cluster in a nearest-neighbor chain from
// the start point, summing travel and visit time and inserting one lunch
// break if the virtual clock crosses midday.
func (s *PartitionService) estimateClusterMinutes(ctx context.Context, cluster *DayCluster, start spatial.Point) int {
	remaining := append([]*db_models.POI(nil), cluster.POIs...)
	loc := start
	total := 0
	clock := s.cfg.DayStartHour * 60
	lunch := false

	for len(remaining) > 0 {
		best := 0
		bestLeg := s.routes.Resolve(ctx, loc, remaining[0].Point())
		for i := 1; i < len(remaining); i++ {
			leg := s.routes.Resolve(ctx, loc, remaining[i].Point())
			if leg.DurationMin < bestLeg.DurationMin {
				best, bestLeg = i, leg
			}
		}
		poi := remaining[best]
		total += bestLeg.DurationMin + poi.VisitMinutes()
		clock += bestLeg.DurationMin + poi.VisitMinutes()
		if !lunch && clock >= 12*60 {
			total += s.cfg.MealDurationMin
			clock += s.cfg.MealDurationMin
			lunch = true
		}
		loc = poi.Point()
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return total
}

// splitOversized re-splits clusters above the per-day item cap into ordered
// chunks, date-bound POIs first so they stay at the head of their chunk.
func (s *PartitionService) splitOversized(clusters []DayCluster) []DayCluster {
	limit := s.cfg.MaxPOIsPerDay
	if limit < 1 {
		return clusters
	}
	var out []DayCluster
	for _, cluster := range clusters {
		if len(cluster.POIs) <= limit {
			out = append(out, cluster)
			continue
		}
		ordered := append([]*db_models.POI(nil), cluster.POIs...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].DateBound() && !ordered[j].DateBound()
		})
		for from := 0; from < len(ordered); from += limit {
			to := from + limit
			if to > len(ordered) {
				to = len(ordered)
			}
			// Cap each chunk's capacity so a later append into one chunk
			// cannot write into the next chunk's backing array.
			out = append(out, DayCluster{POIs: ordered[from:to:to]})
		}
	}
	return out
}

func (s *PartitionService) finalize(clusters []DayCluster) []DayCluster {
	for i := range clusters {
		clusters[i].Label = fmt.Sprintf("group-%d", i+1)
		clusters[i].recenter()
	}
	return clusters
}
