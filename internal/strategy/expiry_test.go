package strategy

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNearestFriday(t *testing.T) {
	// 2026-08-25 is a Tuesday, 2026-08-28 and 2026-09-04 are Fridays.
	tests := []struct {
		name   string
		from   time.Time
		target time.Time
		want   time.Time
	}{
		{
			name:   "target on Friday stays",
			from:   date(2026, time.August, 25),
			target: date(2026, time.August, 28),
			want:   date(2026, time.August, 28),
		},
		{
			name:   "closer earlier Friday wins",
			from:   date(2026, time.August, 25),
			target: date(2026, time.August, 30), // Sunday
			want:   date(2026, time.August, 28),
		},
		{
			name:   "closer later Friday wins",
			from:   date(2026, time.August, 25),
			target: date(2026, time.September, 2), // Wednesday
			want:   date(2026, time.September, 4),
		},
		{
			name:   "earlier Friday closer from Monday",
			from:   date(2026, time.August, 20),
			target: date(2026, time.August, 31), // Monday
			want:   date(2026, time.August, 28),
		},
		{
			name: "earlier Friday too close to from",
			// Saturday target one day after a Friday start: the earlier
			// Friday is less than a day out, so the later one is used.
			from:   date(2026, time.August, 28),
			target: date(2026, time.August, 29),
			want:   date(2026, time.September, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NearestFriday(tt.from, tt.target)
			if !got.Equal(tt.want) {
				t.Errorf("NearestFriday(%s, %s) = %s, want %s",
					tt.from.Format("2006-01-02"), tt.target.Format("2006-01-02"),
					got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
			if got.Weekday() != time.Friday {
				t.Errorf("result %s is not a Friday", got.Format("2006-01-02"))
			}
		})
	}
}

// One week out from a Tuesday lands on the following Tuesday; the nearest
// Friday is ten days from the start.
func TestExpirationFromWeeksTuesday(t *testing.T) {
	from := date(2026, time.August, 25) // Tuesday
	got := ExpirationFromWeeks(from, 1)
	want := date(2026, time.September, 4) // Friday, 10 days later
	if !got.Equal(want) {
		t.Errorf("ExpirationFromWeeks = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestExpirationSkipWeekend(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		days int
		want time.Time
	}{
		{
			name: "weekday stays",
			from: date(2026, time.August, 24), // Monday
			days: 2,
			want: date(2026, time.August, 26), // Wednesday
		},
		{
			name: "saturday rolls to monday",
			from: date(2026, time.August, 27), // Thursday
			days: 2,
			want: date(2026, time.August, 31), // Monday
		},
		{
			name: "sunday rolls to monday",
			from: date(2026, time.August, 28), // Friday
			days: 2,
			want: date(2026, time.August, 31), // Monday
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpirationSkipWeekend(tt.from, tt.days)
			if !got.Equal(tt.want) {
				t.Errorf("ExpirationSkipWeekend = %s, want %s",
					got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestConsecutiveFridays(t *testing.T) {
	from := date(2026, time.August, 28) // Friday: first rung must be the next one
	fridays := ConsecutiveFridays(from, 3)
	want := []time.Time{
		date(2026, time.September, 4),
		date(2026, time.September, 11),
		date(2026, time.September, 18),
	}
	if len(fridays) != len(want) {
		t.Fatalf("got %d fridays, want %d", len(fridays), len(want))
	}
	for i := range want {
		if !fridays[i].Equal(want[i]) {
			t.Errorf("friday[%d] = %s, want %s", i,
				fridays[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
		if fridays[i].Weekday() != time.Friday {
			t.Errorf("friday[%d] = %s is not a Friday", i, fridays[i].Format("2006-01-02"))
		}
	}
}
