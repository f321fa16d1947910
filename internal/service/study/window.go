package study

import "time"

// DayBoundaryHour is the local hour at which a learner's virtual day begins.
const DayBoundaryHour = 4

// DailyWindows are the two day-boundary instants used to build a session.
type DailyWindows struct {
	// ReviewCutoff is tomorrow at DayBoundaryHour. Records scheduled on
	// or before it are due today.
	ReviewCutoff time.Time
	// VirtualDayStart is the latest DayBoundaryHour at or before now.
	// Cards first studied after it count against today's new-card quota.
	VirtualDayStart time.Time
}

// Windows computes the daily windows for now, in now's location.
// Studying past midnight stays in the previous virtual day until 04:00.
func Windows(now time.Time) DailyWindows {
	loc := now.Location()
	y, m, d := now.Date()

	cutoff := time.Date(y, m, d+1, DayBoundaryHour, 0, 0, 0, loc)

	start := time.Date(y, m, d, DayBoundaryHour, 0, 0, 0, loc)
	if now.Hour() < DayBoundaryHour {
		start = time.Date(y, m, d-1, DayBoundaryHour, 0, 0, 0, loc)
	}

	return DailyWindows{
		ReviewCutoff:    cutoff,
		VirtualDayStart: start,
	}
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
