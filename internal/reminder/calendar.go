package reminder

import "time"

const day = 24 * time.Hour

// wall keeps wall clock of t and drops its zone, so that subtraction of two wall values
// always counts 24 hours per calendar day even across DST transitions
func wall(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// daysCeil returns ceil((to - from) / 1 day), both moments are read in location of from
func daysCeil(from, to time.Time) int {
	diff := wall(to.In(from.Location())).Sub(wall(from))
	days := int(diff / day)
	if diff%day > 0 {
		days++
	}
	return days
}

// inLocation keeps wall clock of t as read in its own location and moves it to loc,
// calendar dates stored as UTC midnight become midnight of the same date in loc
func inLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), loc)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// anniversary projects month and day of date onto year, Feb 29 falls back to Feb 28 in non-leap years
func anniversary(date time.Time, year int, loc *time.Location) time.Time {
	month, d := date.Month(), date.Day()
	if month == time.February && d == 29 && !isLeapYear(year) {
		d = 28
	}
	return time.Date(year, month, d, 0, 0, 0, 0, loc)
}

// nextBirthday returns birthday occurrence which is today or later
func nextBirthday(dateOfBirth, now time.Time) time.Time {
	loc := now.Location()
	today := wall(midnight(now))

	candidate := anniversary(dateOfBirth, now.Year(), loc)
	if wall(candidate).Before(today) {
		candidate = anniversary(dateOfBirth, now.Year()+1, loc)
	}
	return candidate
}
