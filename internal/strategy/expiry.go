package strategy

import "time"

// midnight truncates t to its calendar date.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysUntilFriday(t time.Time) int {
	return (int(time.Friday) - int(t.Weekday()) + 7) % 7
}

// NearestFriday snaps target to the closest Friday. When target already
// falls on a Friday it is returned unchanged. Otherwise the surrounding
// Fridays are compared by distance, ties going to the earlier one, except
// that a Friday less than one day after from is never chosen.
func NearestFriday(from, target time.Time) time.Time {
	from = midnight(from)
	target = midnight(target)
	if target.Weekday() == time.Friday {
		return target
	}
	after := target.AddDate(0, 0, daysUntilFriday(target))
	before := after.AddDate(0, 0, -7)
	if !before.Before(from.AddDate(0, 0, 1)) {
		distBefore := target.Sub(before)
		distAfter := after.Sub(target)
		if distBefore <= distAfter {
			return before
		}
	}
	return after
}

// ExpirationFromDays resolves an expiration the given number of calendar
// days out, snapped to the nearest Friday.
func ExpirationFromDays(from time.Time, days int) time.Time {
	return NearestFriday(from, midnight(from).AddDate(0, 0, days))
}

// ExpirationFromWeeks resolves an expiration the given number of weeks out,
// snapped to the nearest Friday.
func ExpirationFromWeeks(from time.Time, weeks int) time.Time {
	return ExpirationFromDays(from, 7*weeks)
}

// ExpirationSkipWeekend resolves an expiration the given number of calendar
// days out, rolled forward past Saturday and Sunday. Calendar strategies use
// this for their short and long legs instead of the Friday snap.
func ExpirationSkipWeekend(from time.Time, days int) time.Time {
	d := midnight(from).AddDate(0, 0, days)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// ConsecutiveFridays returns n weekly Fridays, the first strictly after from.
func ConsecutiveFridays(from time.Time, n int) []time.Time {
	first := midnight(from)
	offset := daysUntilFriday(first)
	if offset == 0 {
		offset = 7
	}
	first = first.AddDate(0, 0, offset)
	fridays := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		fridays = append(fridays, first.AddDate(0, 0, 7*i))
	}
	return fridays
}
