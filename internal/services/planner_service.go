package services

import (
	"context"
	"log"
	"time"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/internal/repositories"
	"tripweaver/internal/spatial"
	"tripweaver/pkg/utils"
)

// Size of the catalog neighborhood considered for opportunistic inserts.
const (
	bonusPoolRadiusKm = 25.0
	bonusPoolLimit    = 20
)

type PlannerServiceInterface interface {
	PlanTour(ctx context.Context, req request_models.PlanTourRequest) (response_models.PlanResult, error)
}

// PlannerService orchestrates the whole pipeline: catalog fetch, validity
// filtering, global ordering, day partitioning, calendar assignment and the
// per-day timeline build. Planner-domain failures never surface as errors;
// they degrade to exclusions or an empty result.
type PlannerService struct {
	poiRepo   repositories.POIRepository
	routes    RouteResolver
	weather   WeatherProvider // optional
	avail     *AvailabilityService
	partition *PartitionService
	ordering  *OrderingService
	calendar  *CalendarAssigner
	days      *DayBuilder
	cfg       PlannerConfig
}

func NewPlannerService(poiRepo repositories.POIRepository, routes RouteResolver, weather WeatherProvider, cfg PlannerConfig) PlannerServiceInterface {
	avail := NewAvailabilityService()
	return &PlannerService{
		poiRepo:   poiRepo,
		routes:    routes,
		weather:   weather,
		avail:     avail,
		partition: NewPartitionService(routes, cfg),
		ordering:  NewOrderingService(routes),
		calendar:  NewCalendarAssigner(),
		days:      NewDayBuilder(routes, avail, cfg),
		cfg:       cfg,
	}
}

func emptyPlan(excluded []response_models.ExcludedPOI, finish time.Time) response_models.PlanResult {
	if excluded == nil {
		excluded = []response_models.ExcludedPOI{}
	}
	return response_models.PlanResult{
		Timeline:     []response_models.TimelineEvent{},
		Days:         []response_models.DaySummary{},
		ExcludedPOIs: excluded,
		FinishTime:   utils.FormatClock(finish),
	}
}

func (s *PlannerService) PlanTour(ctx context.Context, req request_models.PlanTourRequest) (response_models.PlanResult, error) {
	now := time.Now().In(utils.VNLocation())
	startTime := utils.ParsePlannerTime(req.StartTime, now)
	endTime := utils.ParsePlannerTime(req.EndTime, startTime.AddDate(0, 0, 1))

	if endTime.Before(startTime) {
		log.Printf("trip window ends before it starts (%s > %s), returning empty plan", req.StartTime, req.EndTime)
		return emptyPlan(nil, startTime), nil
	}

	start := spatial.Point{Lat: req.StartLat, Lon: req.StartLon}
	if !start.Valid() {
		log.Printf("invalid start coordinates (%f, %f), returning empty plan", req.StartLat, req.StartLon)
		return emptyPlan(nil, startTime), nil
	}

	candidates, err := s.poiRepo.GetByIDs(ctx, req.AttractionIDs)
	if err != nil {
		log.Printf("fetching candidate POIs: %v", err)
		return response_models.PlanResult{}, utils.ErrDatabaseError
	}

	valid, excluded := s.filterCandidates(candidates, startTime, endTime)
	if len(valid) == 0 {
		return emptyPlan(excluded, startTime), nil
	}

	maxDays := daysBetween(startTime, endTime) + 1

	sequence, rank := s.ordering.GlobalOrder(ctx, valid, start)
	clusters := s.partition.Partition(ctx, sequence, start, maxDays, s.cfg.DayCeilingMin)
	constraints := s.dateConstraints(valid, startTime, endTime, maxDays)
	slots := s.calendar.Assign(clusters, constraints, rank, maxDays)

	bonusPool := s.fetchBonusPool(ctx, start, req.AttractionIDs)

	return s.assemble(ctx, slots, rank, start, startTime, endTime, excluded, bonusPool), nil
}

// filterCandidates drops POIs with broken coordinates (data error, logged
// only) and POIs unavailable for the whole trip window (reported).
func (s *PlannerService) filterCandidates(candidates []*db_models.POI, startTime, endTime time.Time) ([]*db_models.POI, []response_models.ExcludedPOI) {
	valid := make([]*db_models.POI, 0, len(candidates))
	excluded := []response_models.ExcludedPOI{}
	for _, poi := range candidates {
		if !poi.Point().Valid() {
			log.Printf("POI %s (%s) has invalid coordinates (%f, %f), dropping", poi.ID, poi.Name, poi.Latitude, poi.Longitude)
			continue
		}
		verdict := s.avail.CheckWindow(poi, startTime, endTime)
		if !verdict.Available {
			excluded = append(excluded, response_models.ExcludedPOI{
				ID:     poi.ID.String(),
				Name:   poi.Name,
				Reason: verdict.Reason,
			})
			continue
		}
		valid = append(valid, poi)
	}
	return valid, excluded
}

func (s *PlannerService) dateConstraints(valid []*db_models.POI, startTime, endTime time.Time, maxDays int) map[string]int {
	constraints := make(map[string]int)
	for _, poi := range valid {
		if !poi.DateBound() {
			continue
		}
		festStart, ok := s.avail.FestivalStart(poi, startTime, endTime)
		if !ok {
			continue
		}
		offset := daysBetween(startTime, festStart)
		if offset < 0 {
			offset = 0
		}
		if offset > maxDays-1 {
			offset = maxDays - 1
		}
		constraints[poi.ID.String()] = offset
	}
	return constraints
}

func (s *PlannerService) fetchBonusPool(ctx context.Context, start spatial.Point, requestedIDs []string) []*db_models.POI {
	pool, err := s.poiRepo.ListNearby(ctx, start.Lat, start.Lon, bonusPoolRadiusKm, bonusPoolLimit, requestedIDs)
	if err != nil {
		log.Printf("bonus pool lookup failed: %v", err)
		return nil
	}
	return pool
}

// assemble runs the days in calendar order, carrying location and clock
// forward and applying the day-boundary transit strategy.
func (s *PlannerService) assemble(ctx context.Context, slots []DayCluster, rank map[string]int, start spatial.Point, startTime, endTime time.Time, excluded []response_models.ExcludedPOI, bonusPool []*db_models.POI) response_models.PlanResult {
	result := emptyPlan(excluded, startTime)

	currentLoc := start
	currentTime := startTime
	var carry []*db_models.POI

	for i := range slots {
		pois := append(append([]*db_models.POI(nil), carry...), slots[i].POIs...)
		carry = nil
		if len(pois) == 0 {
			continue
		}
		dayNo := len(result.Days) + 1

		// A date-bound POI may force the wall clock forward to its
		// festival start date.
		if warped, ok := s.festivalWarp(pois, currentTime, endTime); ok {
			log.Printf("day %d: jumping from %s to festival date %s", dayNo, utils.FormatDate(currentTime), utils.FormatDate(warped))
			currentTime = warped
		}

		dayStart := currentTime
		result.Timeline = append(result.Timeline, s.dayStartEvent(dayNo, dayStart))

		plan := s.days.Build(ctx, dayNo, pois, rank, dayStart, currentLoc, bonusPool)
		bonusPool = removeVisited(bonusPool, plan.Visited)

		result.Timeline = append(result.Timeline, plan.Events...)
		result.RoutePaths = append(result.RoutePaths, plan.RoutePaths...)
		result.TotalDistanceKm += plan.DistanceKm
		result.TotalTravelMin += plan.TravelMin
		result.TotalVisitMin += plan.VisitMin
		result.TotalDestinations += len(plan.Visited)

		currentLoc = plan.EndLocation
		currentTime = plan.EndTime

		// Days fed from carried-over POIs land on placeholder slots, so the
		// centroid comes from what was actually visited, not the slot.
		center := dayCentroid(plan.Visited, currentLoc)
		summary := response_models.DaySummary{
			Day:           dayNo,
			Date:          utils.FormatDate(dayStart),
			DistanceKm:    plan.DistanceKm,
			TravelMinutes: plan.TravelMin,
			VisitMinutes:  plan.VisitMin,
			PointCount:    len(plan.Visited),
			CentroidLat:   center.Lat,
			CentroidLon:   center.Lon,
		}
		if s.weather != nil {
			if w, err := s.weather.DailySummary(ctx, dayStart, summary.CentroidLat, summary.CentroidLon); err == nil && w != nil {
				summary.Weather = w
			} else if err != nil {
				log.Printf("weather lookup for day %d failed: %v", dayNo, err)
			}
		}
		result.Days = append(result.Days, summary)

		last := s.lastOccupiedSlot(slots, i, plan)
		if last {
			// Final day: always return to the original start location.
			homeLeg := s.routes.Resolve(ctx, currentLoc, start)
			result.Timeline = append(result.Timeline, s.travelEvent(dayNo, currentTime, homeLeg, "Return to start point"))
			result.TotalDistanceKm += homeLeg.DistanceKm
			result.TotalTravelMin += homeLeg.DurationMin
			currentTime = currentTime.Add(time.Duration(homeLeg.DurationMin) * time.Minute)
			currentLoc = start
		}

		result.Timeline = append(result.Timeline, s.dayEndEvent(dayNo, currentTime))

		// Closed or overflowing POIs get one more chance on the next day.
		carry = append(carry, plan.Spillover...)
		for _, sk := range plan.Skipped {
			carry = append(carry, sk.POI)
		}

		if last {
			excludedLeft := s.reportLeftovers(plan)
			result.ExcludedPOIs = append(result.ExcludedPOIs, excludedLeft...)
			carry = nil
			break
		}

		currentLoc, currentTime = s.dayBoundaryTransit(ctx, &result, slots, i, dayNo, currentLoc, currentTime, start)
	}

	result.TotalDays = len(result.Days)
	result.FinishTime = utils.FormatClock(currentTime)
	return result
}

func (s *PlannerService) dayStartEvent(day int, at time.Time) response_models.TimelineEvent {
	name, detail := "Start point", "Journey begins"
	if day > 1 {
		name, detail = "Wake up", "Another day of the trip"
	}
	return response_models.TimelineEvent{
		Day:  day,
		Date: utils.FormatDate(at),
		Time: utils.FormatClock(at),
		Type: response_models.EventDayStart,
		Name: name, Detail: detail,
	}
}

func (s *PlannerService) dayEndEvent(day int, at time.Time) response_models.TimelineEvent {
	return response_models.TimelineEvent{
		Day:  day,
		Date: utils.FormatDate(at),
		Time: utils.FormatClock(at),
		Type: response_models.EventDayEnd,
		Name: "Rest", Detail: "End of the day",
	}
}

func (s *PlannerService) travelEvent(day int, at time.Time, leg RouteLeg, name string) response_models.TimelineEvent {
	return response_models.TimelineEvent{
		Day:         day,
		Date:        utils.FormatDate(at),
		Time:        utils.FormatClock(at),
		Type:        response_models.EventTravel,
		Name:        name,
		DurationMin: leg.DurationMin,
		DistanceKm:  leg.DistanceKm,
		Mode:        leg.Mode,
	}
}

// festivalWarp returns the festival start date of a date-bound POI in the
// day's set when that date is still ahead of the current clock.
func (s *PlannerService) festivalWarp(pois []*db_models.POI, currentTime, endTime time.Time) (time.Time, bool) {
	for _, poi := range pois {
		if !poi.DateBound() {
			continue
		}
		festStart, ok := s.avail.FestivalStart(poi, currentTime, endTime)
		if !ok {
			continue
		}
		if daysBetween(currentTime, festStart) > 0 {
			warped := time.Date(festStart.Year(), festStart.Month(), festStart.Day(),
				s.cfg.DayStartHour, 0, 0, 0, currentTime.Location())
			return warped, true
		}
	}
	return time.Time{}, false
}

// lastOccupiedSlot reports whether no later slot still has POIs to visit and
// nothing is being carried forward.
func (s *PlannerService) lastOccupiedSlot(slots []DayCluster, i int, plan DayPlan) bool {
	if len(plan.Spillover) > 0 || len(plan.Skipped) > 0 {
		return i == len(slots)-1
	}
	for j := i + 1; j < len(slots); j++ {
		if len(slots[j].POIs) > 0 {
			return false
		}
	}
	return true
}

// reportLeftovers converts end-of-trip spillover and skips into exclusion
// entries.
func (s *PlannerService) reportLeftovers(plan DayPlan) []response_models.ExcludedPOI {
	var out []response_models.ExcludedPOI
	for _, poi := range plan.Spillover {
		out = append(out, response_models.ExcludedPOI{
			ID:     poi.ID.String(),
			Name:   poi.Name,
			Reason: "did not fit into the daily schedule",
		})
	}
	for _, sk := range plan.Skipped {
		out = append(out, response_models.ExcludedPOI{
			ID:     sk.POI.ID.String(),
			Name:   sk.POI.Name,
			Reason: sk.Reason,
		})
	}
	return out
}

// dayBoundaryTransit decides how to bridge to the next day: sit tight, go
// home across a long idle gap, or pre-position near a far next-day cluster.
func (s *PlannerService) dayBoundaryTransit(ctx context.Context, result *response_models.PlanResult, slots []DayCluster, i, dayNo int, currentLoc spatial.Point, currentTime time.Time, start spatial.Point) (spatial.Point, time.Time) {
	nextMorning := time.Date(currentTime.Year(), currentTime.Month(), currentTime.Day(),
		s.cfg.DayStartHour, 0, 0, 0, currentTime.Location()).AddDate(0, 0, 1)

	next := -1
	for j := i + 1; j < len(slots); j++ {
		if len(slots[j].POIs) > 0 {
			next = j
			break
		}
	}
	if next < 0 {
		return currentLoc, nextMorning
	}

	// A far-future mandatory date means idle days; go home in between.
	if idle := s.idleDaysUntil(slots[next], currentTime); idle > s.cfg.IdleGapReturnDays {
		homeLeg := s.routes.Resolve(ctx, currentLoc, start)
		result.Timeline = append(result.Timeline, s.travelEvent(dayNo, currentTime, homeLeg, "Return home"))
		result.Timeline = append(result.Timeline, response_models.TimelineEvent{
			Day:    dayNo,
			Date:   utils.FormatDate(currentTime),
			Time:   utils.FormatClock(currentTime.Add(time.Duration(homeLeg.DurationMin) * time.Minute)),
			Type:   response_models.EventInfo,
			Name:   "Long idle gap",
			Detail: "Next event is days away; resuming from the start point later",
		})
		result.TotalDistanceKm += homeLeg.DistanceKm
		result.TotalTravelMin += homeLeg.DurationMin
		return start, nextMorning
	}

	// Pre-position in the evening when the next cluster is far away.
	if spatial.HaversineKm(currentLoc, slots[next].Centroid) > s.cfg.PrePositionKm {
		leg := s.routes.Resolve(ctx, currentLoc, slots[next].Centroid)
		result.Timeline = append(result.Timeline, s.travelEvent(dayNo, currentTime, leg, "Evening transfer toward tomorrow's area"))
		result.TotalDistanceKm += leg.DistanceKm
		result.TotalTravelMin += leg.DurationMin
		return slots[next].Centroid, nextMorning
	}

	return currentLoc, nextMorning
}

// idleDaysUntil returns how many days separate the clock from the next
// slot's earliest mandatory date, 0 when the slot has none.
func (s *PlannerService) idleDaysUntil(next DayCluster, currentTime time.Time) int {
	idle := 0
	for _, poi := range next.POIs {
		if !poi.DateBound() {
			continue
		}
		festStart, ok := s.avail.FestivalStart(poi, currentTime, currentTime.AddDate(1, 0, 0))
		if !ok {
			continue
		}
		if d := daysBetween(currentTime, festStart); d > idle {
			idle = d
		}
	}
	return idle
}

// dayCentroid averages the visited POI coordinates, falling back to where the
// day ended when nothing was visited.
func dayCentroid(visited []*db_models.POI, fallback spatial.Point) spatial.Point {
	if len(visited) == 0 {
		return fallback
	}
	points := make([]spatial.Point, 0, len(visited))
	for _, poi := range visited {
		points = append(points, poi.Point())
	}
	return spatial.Centroid(points)
}

func removeVisited(pool []*db_models.POI, visited []*db_models.POI) []*db_models.POI {
	if len(visited) == 0 || len(pool) == 0 {
		return pool
	}
	seen := make(map[string]bool, len(visited))
	for _, poi := range visited {
		seen[poi.ID.String()] = true
	}
	kept := pool[:0]
	for _, poi := range pool {
		if !seen[poi.ID.String()] {
			kept = append(kept, poi)
		}
	}
	return kept
}

func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())
	return int(bd.Sub(ad).Hours() / 24)
}
