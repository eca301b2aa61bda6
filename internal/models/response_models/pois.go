package response_models

type POI struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	Address          string      `json:"address"`
	Category         string      `json:"category"`
	Kind             string      `json:"kind"`
	VisitDurationMin int         `json:"visit_duration_min"`
	PreferredTime    string      `json:"preferred_time"`
	OpeningHours     string      `json:"opening_hours,omitempty"`
	SeasonStart      string      `json:"season_start,omitempty"`
	SeasonEnd        string      `json:"season_end,omitempty"`
	Tags             []string    `json:"tags"`
	PoiDetails       *PoiDetails `json:"poi_details,omitempty"`
}

type PoiDetails struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Image       []string `json:"images"`
}
