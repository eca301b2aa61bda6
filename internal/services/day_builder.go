package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/internal/spatial"
	"tripweaver/pkg/utils"
)

// SkippedPOI records a POI dropped during a single day run, with the
// user-facing reason.
type SkippedPOI struct {
	POI    *db_models.POI
	Reason string
}

// DayPlan is the result of building one day's timeline.
type DayPlan struct {
	Events     []response_models.TimelineEvent
	RoutePaths [][]response_models.LatLng

	DistanceKm float64
	TravelMin  int
	VisitMin   int

	Visited   []*db_models.POI
	Spillover []*db_models.POI // did not fit under the day ceiling
	Skipped   []SkippedPOI     // hard availability rejections

	EndLocation spatial.Point
	EndTime     time.Time
}

// DayBuilder turns one day's POI set into a timestamped event sequence with
// travel legs, visits, meals, gap handling and opportunistic inserts.
type DayBuilder struct {
	routes RouteResolver
	avail  *AvailabilityService
	cfg    PlannerConfig
}

func NewDayBuilder(routes RouteResolver, avail *AvailabilityService, cfg PlannerConfig) *DayBuilder {
	return &DayBuilder{routes: routes, avail: avail, cfg: cfg}
}

type dayState struct {
	day     int
	current time.Time
	loc     spatial.Point
	active  int // travel + visit minutes consumed so far
	lunch   bool
	dinner  bool
	plan    *DayPlan
}

// Build processes the day's POIs in (preferred time-of-day, global order)
// order. POIs that would push the active time past the day ceiling come back
// as spillover for the caller to reassign.
func (b *DayBuilder) Build(ctx context.Context, day int, pois []*db_models.POI, rank map[string]int, dayStart time.Time, loc spatial.Point, bonusPool []*db_models.POI) DayPlan {
	ordered := append([]*db_models.POI(nil), pois...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PreferredRank() != ordered[j].PreferredRank() {
			return ordered[i].PreferredRank() < ordered[j].PreferredRank()
		}
		return rank[ordered[i].ID.String()] < rank[ordered[j].ID.String()]
	})

	plan := DayPlan{}
	st := &dayState{day: day, current: dayStart, loc: loc, plan: &plan}
	pool := append([]*db_models.POI(nil), bonusPool...)

	for i, poi := range ordered {
		b.mealCheckpoint(st)

		leg := b.routes.Resolve(ctx, st.loc, poi.Point())
		travelMin, arrival := b.arrivalAfter(st.current, leg)

		verdict := b.avail.CheckAt(poi, arrival)
		if !verdict.Available && !verdict.OpensLater {
			plan.Skipped = append(plan.Skipped, SkippedPOI{POI: poi, Reason: verdict.Reason})
			continue
		}

		visitStart := arrival
		waitMin := 0
		if verdict.OpensLater {
			openTime := timeAtHour(arrival, verdict.OpensAtHour)
			gap := int(openTime.Sub(arrival).Minutes())
			if gap > 0 {
				visitStart = openTime
				if gap > b.cfg.GapFillMin {
					waitMin = gap
				}
			}
		}

		visitMin := poi.VisitMinutes()
		if st.active+travelMin+visitMin > b.cfg.DayCeilingMin {
			plan.Spillover = append(plan.Spillover, ordered[i:]...)
			break
		}

		b.appendTravel(st, leg, travelMin, poi.Name)
		if waitMin > 0 {
			b.appendGapFill(st, arrival, waitMin)
		}
		b.appendVisit(st, poi, visitStart, visitMin, false)

		b.mealCheckpoint(st)
		pool = b.tryBonusInsert(ctx, st, poi, pool)
	}

	plan.EndLocation = st.loc
	plan.EndTime = st.current
	return plan
}

// arrivalAfter applies the travel floor and rounds the arrival to the nearest
// 10-minute mark, never earlier than 10 minutes after departure.
func (b *DayBuilder) arrivalAfter(departure time.Time, leg RouteLeg) (int, time.Time) {
	travel := leg.DurationMin
	if travel < 10 {
		travel = 10
	}
	arrival := utils.RoundToNearest10Min(departure.Add(time.Duration(travel) * time.Minute))
	if earliest := departure.Add(10 * time.Minute); arrival.Before(earliest) {
		arrival = earliest
	}
	return int(arrival.Sub(departure).Minutes()), arrival
}

func (b *DayBuilder) appendTravel(st *dayState, leg RouteLeg, travelMin int, destName string) {
	detail := fmt.Sprintf("%.2fkm (%d min)", leg.DistanceKm, travelMin)
	if IsLongHaul(leg.Mode) {
		detail = fmt.Sprintf("%.0fkm via %s (%d min)", leg.DistanceKm, leg.Mode, travelMin)
	}
	st.plan.Events = append(st.plan.Events, response_models.TimelineEvent{
		Day:         st.day,
		Date:        utils.FormatDate(st.current),
		Time:        utils.FormatClock(st.current),
		Type:        response_models.EventTravel,
		Name:        "Travel to " + destName,
		Detail:      detail,
		DurationMin: travelMin,
		DistanceKm:  leg.DistanceKm,
		Mode:        leg.Mode,
	})
	st.plan.RoutePaths = append(st.plan.RoutePaths, toLatLngs(leg.Geometry))
	st.plan.DistanceKm += leg.DistanceKm
	st.plan.TravelMin += travelMin
	st.active += travelMin
	st.current = st.current.Add(time.Duration(travelMin) * time.Minute)
	st.loc = leg.To
}

// appendGapFill bridges an early arrival to the POI's opening time, merged
// with the matching meal label when the wait overlaps a meal window.
func (b *DayBuilder) appendGapFill(st *dayState, arrival time.Time, waitMin int) {
	hour := utils.HourOfDay(arrival)
	name := "Resting"
	switch {
	case hour < 9.5:
		name = "Breakfast stop"
	case hour >= 11.5 && hour <= 13.5 && !st.lunch:
		name = "Lunch break"
		st.lunch = true
	}
	end := arrival.Add(time.Duration(waitMin) * time.Minute)
	st.plan.Events = append(st.plan.Events, response_models.TimelineEvent{
		Day:         st.day,
		Date:        utils.FormatDate(arrival),
		Time:        utils.FormatClock(arrival),
		Type:        response_models.EventInfo,
		Name:        name,
		Detail:      fmt.Sprintf("Waiting for opening time (%d min)", waitMin),
		DurationMin: waitMin,
		EndTime:     utils.FormatClock(end),
	})
	st.current = end
}

func (b *DayBuilder) appendVisit(st *dayState, poi *db_models.POI, start time.Time, visitMin int, bonus bool) {
	end := start.Add(time.Duration(visitMin) * time.Minute)
	detail := "Sightseeing and photos"
	if bonus {
		detail = "Nearby highlight, added to fill free time"
	}
	st.plan.Events = append(st.plan.Events, response_models.TimelineEvent{
		Day:         st.day,
		Date:        utils.FormatDate(start),
		Time:        utils.FormatClock(start),
		Type:        response_models.EventVisit,
		Name:        poi.Name,
		Detail:      detail,
		DurationMin: visitMin,
		EndTime:     utils.FormatClock(end),
		PoiID:       poi.ID.String(),
		Latitude:    poi.Latitude,
		Longitude:   poi.Longitude,
		Bonus:       bonus,
	})
	st.plan.VisitMin += visitMin
	st.plan.Visited = append(st.plan.Visited, poi)
	st.active += visitMin
	st.current = end
	st.loc = poi.Point()
}

// mealCheckpoint inserts at most one lunch and one dinner event per day.
func (b *DayBuilder) mealCheckpoint(st *dayState) {
	hour := utils.HourOfDay(st.current)
	if !st.lunch && hour >= b.cfg.LunchStartHour && hour < b.cfg.LunchEndHour {
		b.appendMeal(st, "Lunch break")
		st.lunch = true
		return
	}
	if !st.dinner && hour >= b.cfg.DinnerStartHour {
		name := "Dinner break"
		if hour >= b.cfg.LateMealHour {
			name = "Late meal"
		}
		b.appendMeal(st, name)
		st.dinner = true
	}
}

func (b *DayBuilder) appendMeal(st *dayState, name string) {
	end := st.current.Add(time.Duration(b.cfg.MealDurationMin) * time.Minute)
	st.plan.Events = append(st.plan.Events, response_models.TimelineEvent{
		Day:         st.day,
		Date:        utils.FormatDate(st.current),
		Time:        utils.FormatClock(st.current),
		Type:        response_models.EventInfo,
		Name:        name,
		Detail:      "Local food at your own pace",
		DurationMin: b.cfg.MealDurationMin,
		EndTime:     utils.FormatClock(end),
	})
	st.current = end
}

// tryBonusInsert splices in the single best-scoring nearby candidate when the
// day still has comfortable slack and a meal window is not about to open.
func (b *DayBuilder) tryBonusInsert(ctx context.Context, st *dayState, justVisited *db_models.POI, pool []*db_models.POI) []*db_models.POI {
	slack := b.cfg.DayCeilingMin - st.active
	if slack <= b.cfg.BonusSlackMin {
		return pool
	}
	hour := utils.HourOfDay(st.current)
	if !st.lunch && hour >= b.cfg.LunchStartHour {
		return pool
	}

	bestIdx := -1
	bestScore := 0
	var bestLeg RouteLeg
	for i, cand := range pool {
		leg := b.routes.Resolve(ctx, st.loc, cand.Point())
		if leg.DurationMin > b.cfg.BonusTravelMaxMin {
			continue
		}
		if st.active+leg.DurationMin+cand.VisitMinutes() > b.cfg.DayCeilingMin {
			continue
		}
		if v := b.avail.CheckAt(cand, st.current.Add(time.Duration(leg.DurationMin)*time.Minute)); !v.Available {
			continue
		}
		score := bonusScore(justVisited, cand)
		if bestIdx < 0 || score > bestScore || (score == bestScore && leg.DurationMin < bestLeg.DurationMin) {
			bestIdx, bestScore, bestLeg = i, score, leg
		}
	}
	if bestIdx < 0 {
		return pool
	}

	cand := pool[bestIdx]
	travelMin, arrival := b.arrivalAfter(st.current, bestLeg)
	b.appendTravel(st, bestLeg, travelMin, cand.Name)
	b.appendVisit(st, cand, arrival, cand.VisitMinutes(), true)

	return append(pool[:bestIdx], pool[bestIdx+1:]...)
}

// bonusScore ranks a candidate by affinity with the POI just visited:
// category match plus shared tags.
func bonusScore(current, cand *db_models.POI) int {
	score := 0
	if current.Category != "" && current.Category == cand.Category {
		score += 2
	}
	tags := make(map[string]bool)
	for _, t := range current.TagNames() {
		tags[t] = true
	}
	for _, t := range cand.TagNames() {
		if tags[t] {
			score++
		}
	}
	return score
}

func timeAtHour(ref time.Time, hour float64) time.Time {
	h := int(hour)
	m := int((hour - float64(h)) * 60)
	return time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, 0, 0, ref.Location())
}

func toLatLngs(points []spatial.Point) []response_models.LatLng {
	out := make([]response_models.LatLng, len(points))
	for i, p := range points {
		out[i] = response_models.LatLng{Lat: p.Lat, Lon: p.Lon}
	}
	return out
}
