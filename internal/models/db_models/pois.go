package db_models

import "tripweaver/internal/spatial"

// POI kind discriminant. The planner dispatches on this tag; there are no
// subclass tables.
const (
	KindUnconstrained = "unconstrained"
	KindRecurringDate = "recurring_date"
	KindOpeningHours  = "opening_hours"
)

// Preferred time-of-day codes.
const (
	PreferMorning   = "morning"
	PreferAfternoon = "afternoon"
	PreferEither    = "either"
)

type POI struct {
	BaseModel
	Name             string
	Latitude         float64
	Longitude        float64
	Address          string
	Category         string
	Kind             string `gorm:"default:unconstrained"`
	VisitDurationMin int
	PreferredTime    string `gorm:"default:either"`

	// OpeningHours is free text ("08:00 - 17:00", "8 AM - 5 PM"), only
	// meaningful for KindOpeningHours.
	OpeningHours string

	// SeasonStart/SeasonEnd are recurring "MM-DD" bounds, only meaningful
	// for KindRecurringDate.
	SeasonStart string
	SeasonEnd   string

	Details POIDetail
	Tags    []Tag `gorm:"many2many:poi_tags"`
}

// VisitMinutes returns the nominal visit duration, defaulting to 60 when the
// record carries none.
func (p *POI) VisitMinutes() int {
	if p.VisitDurationMin <= 0 {
		return 60
	}
	return p.VisitDurationMin
}

func (p *POI) Point() spatial.Point {
	return spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
}

// PreferredRank maps the time-of-day code onto a sortable rank:
// morning before either before afternoon.
func (p *POI) PreferredRank() int {
	switch p.PreferredTime {
	case PreferMorning:
		return 0
	case PreferAfternoon:
		return 2
	default:
		return 1
	}
}

// DateBound reports whether the POI pins the itinerary to concrete calendar
// days.
func (p *POI) DateBound() bool {
	return p.Kind == KindRecurringDate
}

func (p *POI) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.EnName)
	}
	return names
}
