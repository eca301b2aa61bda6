package response_models

// Timeline event kinds.
const (
	EventDayStart = "DAY_START"
	EventTravel   = "TRAVEL"
	EventVisit    = "VISIT"
	EventInfo     = "INFO"
	EventDayEnd   = "DAY_END"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TimelineEvent is one row of the itinerary. Events are immutable once
// appended; the full itinerary is the ordered concatenation of all days.
type TimelineEvent struct {
	Day    int    `json:"day"`
	Date   string `json:"date"` // 02/01/2006
	Time   string `json:"time"` // 15:04
	Type   string `json:"type"`
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`

	DurationMin int    `json:"duration_min,omitempty"`
	EndTime     string `json:"end_time,omitempty"`

	// VISIT fields.
	PoiID     string  `json:"poi_id,omitempty"`
	Latitude  float64 `json:"lat,omitempty"`
	Longitude float64 `json:"lon,omitempty"`
	Bonus     bool    `json:"bonus,omitempty"`

	// TRAVEL fields.
	DistanceKm float64 `json:"distance_km,omitempty"`
	Mode       string  `json:"mode,omitempty"`
}

type WeatherSummary struct {
	MinTempC    float64 `json:"min_temp_c"`
	MaxTempC    float64 `json:"max_temp_c"`
	AvgTempC    float64 `json:"avg_temp_c"`
	HumidityPct int     `json:"humidity_pct"`
	Description string  `json:"description"`
}

type DaySummary struct {
	Day           int             `json:"day"`
	Date          string          `json:"date"`
	DistanceKm    float64         `json:"distance_km"`
	TravelMinutes int             `json:"travel_minutes"`
	VisitMinutes  int             `json:"visit_minutes"`
	PointCount    int             `json:"point_count"`
	CentroidLat   float64         `json:"centroid_lat"`
	CentroidLon   float64         `json:"centroid_lon"`
	Weather       *WeatherSummary `json:"weather,omitempty"`
}

type ExcludedPOI struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PlanResult is the only object the planner returns to callers. It is always
// well-formed; a trip with nothing plannable has an empty timeline and zero
// totals.
type PlanResult struct {
	Timeline          []TimelineEvent `json:"timeline"`
	Days              []DaySummary    `json:"days"`
	ExcludedPOIs      []ExcludedPOI   `json:"invalid_attractions"`
	RoutePaths        [][]LatLng      `json:"route_paths,omitempty"`
	TotalDistanceKm   float64         `json:"total_distance_km"`
	TotalTravelMin    int             `json:"total_travel_minutes"`
	TotalVisitMin     int             `json:"total_visit_minutes"`
	TotalDestinations int             `json:"total_destinations"`
	TotalDays         int             `json:"total_days"`
	FinishTime        string          `json:"finish_time"`
}
