package study

import "time"

// DayStart returns local midnight of now in tz, converted to UTC.
// The study day (and therefore burial) rolls over at this instant.
func DayStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz).UTC()
}

// NextDayStart returns the next local midnight after now, converted to UTC.
func NextDayStart(now time.Time, tz *time.Location) time.Time {
	// AddDate keeps DST transitions right where Add(24h) would not.
	next := DayStart(now, tz).In(tz).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, tz).UTC()
}

// ParseTimezone resolves an IANA zone name, falling back to UTC.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BurialsResetAt returns when the current burial set will be emptied.
func (s *Service) BurialsResetAt() time.Time {
	return NextDayStart(s.now(), s.tz)
}
