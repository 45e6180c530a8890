// Package pickup implements the shop's pickup-window rules: orders may be
// collected within the next 7 calendar days excluding Mondays, between 09:00
// and 15:30, and no sooner than 30 minutes from the moment of ordering.
package pickup

import (
	"time"

	"garden-store/internal/model"
)

// Window holds the pickup-window parameters.
type Window struct {
	// OpenMinute and CloseMinute are minutes since midnight.
	OpenMinute  int
	CloseMinute int

	// MinLead is the minimum gap between ordering and same-day pickup.
	MinLead time.Duration

	// HorizonDays is how many calendar days ahead (including today) a
	// pickup may be scheduled.
	HorizonDays int

	// ClosedWeekday is the shop's weekly closing day.
	ClosedWeekday time.Weekday
}

// DefaultWindow returns the shop's standard pickup window.
func DefaultWindow() Window {
	return Window{
		OpenMinute:    9 * 60,
		CloseMinute:   15*60 + 30,
		MinLead:       30 * time.Minute,
		HorizonDays:   7,
		ClosedWeekday: time.Monday,
	}
}

// AvailableDates returns the selectable pickup dates for the given moment:
// the next HorizonDays calendar days starting today, with the closing
// weekday removed. Dates are midnight in now's location.
func (w Window) AvailableDates(now time.Time) []time.Time {
	today := midnight(now)
	dates := make([]time.Time, 0, w.HorizonDays)
	for i := 0; i < w.HorizonDays; i++ {
		d := today.AddDate(0, 0, i)
		if d.Weekday() == w.ClosedWeekday {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// Validate reports whether desired is an admissible pickup moment relative
// to now. It returns model.ErrPickupDate for an unavailable date and
// model.ErrPickupTime for an unavailable time of day.
func (w Window) Validate(now, desired time.Time) error {
	desired = desired.In(now.Location())

	days := daysBetween(midnight(now), midnight(desired))
	if days < 0 || days >= w.HorizonDays {
		return model.ErrPickupDate
	}
	if desired.Weekday() == w.ClosedWeekday {
		return model.ErrPickupDate
	}

	tod := desired.Hour()*60 + desired.Minute()
	if tod > w.CloseMinute {
		return model.ErrPickupTime
	}

	if days == 0 {
		// Same-day pickup needs the minimum lead time.
		if desired.Before(now.Add(w.MinLead)) {
			return model.ErrPickupTime
		}
	} else if tod < w.OpenMinute {
		return model.ErrPickupTime
	}

	return nil
}

// midnight truncates t to the start of its calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole calendar days from a to b. Both must be
// midnights in the same location; AddDate keeps DST transitions exact.
func daysBetween(a, b time.Time) int {
	days := 0
	for cur := a; cur.Before(b); cur = cur.AddDate(0, 0, 1) {
		days++
	}
	for cur := a; b.Before(cur); cur = cur.AddDate(0, 0, -1) {
		days--
	}
	return days
}
