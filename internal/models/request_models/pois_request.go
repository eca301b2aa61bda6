package request_models

type CreatePoiRequest struct {
	Name             string   `json:"name" binding:"required"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Address          string   `json:"address"`
	Category         string   `json:"category"`
	Kind             string   `json:"kind" binding:"omitempty,oneof=unconstrained recurring_date opening_hours"`
	VisitDurationMin int      `json:"visit_duration_min"`
	PreferredTime    string   `json:"preferred_time" binding:"omitempty,oneof=morning afternoon either"`
	OpeningHours     string   `json:"opening_hours"`
	SeasonStart      string   `json:"season_start"`
	SeasonEnd        string   `json:"season_end"`
	Tags             []string `json:"tags"`
}
