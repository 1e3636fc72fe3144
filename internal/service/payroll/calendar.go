package payroll

import "time"

// daysInMonth returns the number of days of t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonths moves t by n months, clamping the day to the end of the target month
// (Jan 31 + 1 month is Feb 28/29, not Mar 3).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := t.Day()
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// fullMonthsBetween counts whole months from start to end.
func fullMonthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	for months > 0 && addMonths(start, months).After(end) {
		months--
	}
	return months
}

// monthsWithFraction counts the months in [from, to] (both days inclusive),
// where a trailing fraction of 15 days or more counts as a whole month.
func monthsWithFraction(from, to time.Time) int {
	end := to.AddDate(0, 0, 1)
	if !end.After(from) {
		return 0
	}
	months := fullMonthsBetween(from, end)
	leftover := int(end.Sub(addMonths(from, months)).Hours() / 24)
	if leftover >= 15 {
		months++
	}
	return months
}

// dateOnly drops the clock and location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
