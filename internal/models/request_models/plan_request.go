package request_models

// PlanTourRequest is the payload for POST /tours/plan.
// Datetimes use the "02/01/2006 15:04" layout; unparsable values fall back to
// now / now+1d inside the planner instead of failing the request.
type PlanTourRequest struct {
	AttractionIDs []string `json:"attraction_ids" binding:"required,min=1,max=10"`
	StartLat      float64  `json:"start_lat"`
	StartLon      float64  `json:"start_lon"`
	StartTime     string   `json:"start_time" binding:"required"`
	EndTime       string   `json:"end_time" binding:"required"`
}
