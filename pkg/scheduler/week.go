package scheduler

import "time"

// Midnight normalizes an instant to 00:00 on its calendar day in loc. All
// planning dates in the pipeline are midnight-normalized so date equality is
// plain time.Equal.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekStart returns the Monday of the ISO week containing date.
func WeekStart(date time.Time) time.Time {
	offset := int(date.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return date.AddDate(0, 0, -offset)
}

// DaysApart is the absolute distance in calendar days between two
// midnight-normalized dates. Computed from date components, not elapsed
// hours, so 23/25-hour DST days do not skew the distance.
func DaysApart(a, b time.Time) int {
	d := civilDay(a) - civilDay(b)
	if d < 0 {
		return -d
	}
	return d
}

// civilDay re-anchors a date's components in UTC and returns its day number.
func civilDay(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// SameDate reports whether two instants fall on the same calendar day in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	return Midnight(a, loc).Equal(Midnight(b, loc))
}
