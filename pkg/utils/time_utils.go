package utils

import (
	"log"
	"time"
)

// PlannerTimeLayout is the datetime format the planning API accepts.
const PlannerTimeLayout = "02/01/2006 15:04"

// Vietnam time location (ICT, +07:00)
var vnLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}()

func VNLocation() *time.Location { return vnLoc }

// ParsePlannerTime parses a "02/01/2006 15:04" value in VN time. A value that
// does not parse is logged and replaced by the fallback instead of failing
// the request.
func ParsePlannerTime(s string, fallback time.Time) time.Time {
	t, err := time.ParseInLocation(PlannerTimeLayout, s, vnLoc)
	if err != nil {
		log.Printf("unparsable datetime %q, using fallback %s", s, fallback.Format(PlannerTimeLayout))
		return fallback
	}
	return t
}

// RoundToNearest10Min rounds t to the nearest 10-minute mark.
func RoundToNearest10Min(t time.Time) time.Time {
	return t.Round(10 * time.Minute)
}

// HourOfDay returns the fractional hour of day (e.g. 9.5 for 09:30).
func HourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

func FormatDate(t time.Time) string  { return t.In(vnLoc).Format("02/01/2006") }
func FormatClock(t time.Time) string { return t.In(vnLoc).Format("15:04") }

func FormatRFC3339VN(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(vnLoc).Format(time.RFC3339)
}
