package services

import "time"

// PlannerConfig collects the tunable thresholds of the planning engine.
// The numeric values are heuristics inherited from field testing, not hard
// contracts; boundary checks are inclusive unless noted otherwise.
type PlannerConfig struct {
	// Routing.
	LongHaulThresholdKm   float64       // above this, a leg is decomposed via hubs
	CruiseSpeedKmh        float64       // hub-to-hub average speed
	HubTransferOverhead   time.Duration // fixed check-in/transfer cost per long-haul leg
	FallbackSpeedKmh      float64       // road speed when the route provider is down
	SlowFallbackSpeedKmh  float64       // sub-1km legs (walking pace)
	FallbackSlackMin      int           // flat minutes added to every fallback estimate
	RouteRequestTimeout   time.Duration

	// Day partitioning.
	WideSpreadKm  float64 // beyond this max pairwise distance, use latitude banding
	BandGapKm     float64 // gap that closes a latitude band
	MaxPOIsPerDay int     // hard cap per day cluster
	Seed          int64   // clustering RNG seed; fixed for reproducibility

	// Day building.
	DayStartHour      int     // wall-clock hour a day begins
	DayCeilingMin     int     // active (travel+visit) minutes per day
	GapFillMin        int     // waits shorter than this are absorbed silently
	BonusSlackMin     int     // slack required before an opportunistic insert
	BonusTravelMaxMin int     // bonus candidates must be within this travel time
	MealDurationMin   int
	LunchStartHour    float64
	LunchEndHour      float64
	DinnerStartHour   float64
	LateMealHour      float64

	// Day boundary transit.
	IdleGapReturnDays int     // beyond this many idle days, return home in between
	PrePositionKm     float64 // pre-position in the evening when next day is farther
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		LongHaulThresholdKm:  400,
		CruiseSpeedKmh:       700,
		HubTransferOverhead:  2 * time.Hour,
		FallbackSpeedKmh:     30,
		SlowFallbackSpeedKmh: 5,
		FallbackSlackMin:     5,
		RouteRequestTimeout:  3 * time.Second,

		WideSpreadKm:  500,
		BandGapKm:     200,
		MaxPOIsPerDay: 3,
		Seed:          42,

		DayStartHour:      8,
		DayCeilingMin:     12 * 60,
		GapFillMin:        15,
		BonusSlackMin:     90,
		BonusTravelMaxMin: 30,
		MealDurationMin:   60,
		LunchStartHour:    11,
		LunchEndHour:      15,
		DinnerStartHour:   17.5,
		LateMealHour:      20.5,

		IdleGapReturnDays: 3,
		PrePositionKm:     50,
	}
}
