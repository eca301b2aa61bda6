package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tripweaver/internal/models/db_models"
)

// AvailabilityVerdict is the outcome of a temporal check. Exactly one of the
// two unavailable shapes is populated: Reason for a hard rejection, or
// OpensLater+OpensAtHour when the place simply has not opened yet that day
// (a fillable gap, not a rejection).
type AvailabilityVerdict struct {
	Available   bool
	Reason      string
	OpensLater  bool
	OpensAtHour float64
}

func available() AvailabilityVerdict {
	return AvailabilityVerdict{Available: true}
}

func unavailable(reason string) AvailabilityVerdict {
	return AvailabilityVerdict{Reason: reason}
}

func opensAt(hour float64) AvailabilityVerdict {
	return AvailabilityVerdict{OpensLater: true, OpensAtHour: hour}
}

// AvailabilityService checks per-kind temporal validity of POIs.
type AvailabilityService struct{}

func NewAvailabilityService() *AvailabilityService {
	return &AvailabilityService{}
}

// CheckAt evaluates a POI against a single instant.
func (s *AvailabilityService) CheckAt(poi *db_models.POI, at time.Time) AvailabilityVerdict {
	switch poi.Kind {
	case db_models.KindRecurringDate:
		return s.checkRecurring(poi, at, at)
	case db_models.KindOpeningHours:
		return s.checkOpeningHours(poi, at)
	default:
		return available()
	}
}

// CheckWindow evaluates a POI against a whole trip window. Opening hours are
// a daily constraint and never reject an entire window.
func (s *AvailabilityService) CheckWindow(poi *db_models.POI, start, end time.Time) AvailabilityVerdict {
	if poi.Kind == db_models.KindRecurringDate {
		return s.checkRecurring(poi, start, end)
	}
	return available()
}

// checkRecurring projects the annual MM-DD range onto every year the query
// window touches and accepts if any projection intersects it.
func (s *AvailabilityService) checkRecurring(poi *db_models.POI, start, end time.Time) AvailabilityVerdict {
	if poi.SeasonStart == "" || poi.SeasonEnd == "" {
		return unavailable("missing festival dates")
	}
	sm, sd, ok := parseMonthDay(poi.SeasonStart)
	if !ok {
		return unavailable("missing festival dates")
	}
	em, ed, ok := parseMonthDay(poi.SeasonEnd)
	if !ok {
		return unavailable("missing festival dates")
	}

	// Start one year early so a wrapped range (e.g. 20/12 - 05/01) begun the
	// previous December still covers an early-January window.
	for year := start.Year() - 1; year <= end.Year(); year++ {
		rangeStart := time.Date(year, time.Month(sm), sd, 0, 0, 0, 0, start.Location())
		rangeEnd := time.Date(year, time.Month(em), ed, 23, 59, 59, 0, start.Location())
		if rangeEnd.Before(rangeStart) {
			rangeEnd = rangeEnd.AddDate(1, 0, 0)
		}
		if !rangeStart.After(end) && !rangeEnd.Before(start) {
			return available()
		}
	}
	return unavailable(fmt.Sprintf("not running in the requested window (runs %02d/%02d - %02d/%02d)", sd, sm, ed, em))
}

func (s *AvailabilityService) checkOpeningHours(poi *db_models.POI, at time.Time) AvailabilityVerdict {
	openH, closeH, ok := ParseOpeningHours(poi.OpeningHours)
	if !ok {
		// Absent or unparsable text means always open.
		return available()
	}
	hour := float64(at.Hour()) + float64(at.Minute())/60
	switch {
	case hour < openH:
		return opensAt(openH)
	case hour > closeH:
		return unavailable(fmt.Sprintf("closed at that time (open %s)", poi.OpeningHours))
	default:
		return available()
	}
}

// FestivalStart projects a recurring POI's season start onto the first year
// it occurs within [start, end]. ok is false for non-recurring POIs, broken
// records, or ranges entirely outside the window.
func (s *AvailabilityService) FestivalStart(poi *db_models.POI, start, end time.Time) (time.Time, bool) {
	if poi.Kind != db_models.KindRecurringDate {
		return time.Time{}, false
	}
	sm, sd, ok := parseMonthDay(poi.SeasonStart)
	if !ok {
		return time.Time{}, false
	}
	em, ed, ok2 := parseMonthDay(poi.SeasonEnd)
	if !ok2 {
		return time.Time{}, false
	}
	for year := start.Year() - 1; year <= end.Year(); year++ {
		rangeStart := time.Date(year, time.Month(sm), sd, 0, 0, 0, 0, start.Location())
		rangeEnd := time.Date(year, time.Month(em), ed, 23, 59, 59, 0, start.Location())
		if rangeEnd.Before(rangeStart) {
			rangeEnd = rangeEnd.AddDate(1, 0, 0)
		}
		if !rangeStart.After(end) && !rangeEnd.Before(start) {
			return rangeStart, true
		}
	}
	return time.Time{}, false
}

var monthDayRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)

// parseMonthDay parses "MM-DD" into month and day numbers.
func parseMonthDay(s string) (month, day int, ok bool) {
	m := monthDayRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	day, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, false
	}
	return month, day, true
}

var clockRe = regexp.MustCompile(`(?i)(\d{1,2}):?(\d{2})?\s*(AM|PM)?`)

// ParseOpeningHours extracts fractional open/close hours from free text like
// "08:00 - 17:00" or "8 AM - 5 PM". ok is false when fewer than two clock
// readings are present.
func ParseOpeningHours(s string) (openH, closeH float64, ok bool) {
	if strings.TrimSpace(s) == "" {
		return 0, 0, false
	}
	matches := clockRe.FindAllStringSubmatch(s, -1)
	if len(matches) < 2 {
		return 0, 0, false
	}
	openH = to24h(matches[0])
	closeH = to24h(matches[1])
	if openH < 0 || closeH < 0 || openH > 24 || closeH > 24 {
		return 0, 0, false
	}
	return openH, closeH, true
}

func to24h(m []string) float64 {
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	switch strings.ToUpper(m[3]) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	}
	out := float64(h)
	if m[2] != "" {
		mins, err := strconv.Atoi(m[2])
		if err != nil {
			return -1
		}
		out += float64(mins) / 60
	}
	return out
}
