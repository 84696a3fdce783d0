package calendar

import "time"

// DayKey is the map key format for holiday lookups. Comparisons are by
// calendar day, never by time-of-day.
const DayKey = "2006-01-02"

// maxScan bounds every day-by-day walk to roughly ten years so that a
// degenerate calendar (empty work-day set) cannot loop forever.
const maxScan = 3660

// Calendar is a value describing when work can happen: a weekly work-day
// set plus a set of excluded dates. Calendars are passed by value into the
// arithmetic functions; there is no calendar hierarchy.
type Calendar struct {
	WorkDays map[time.Weekday]bool
	Holidays map[string]bool
}

// New builds a Calendar from weekday indices (0 = Sunday) and holiday dates.
func New(workDays []int, holidays []time.Time) Calendar {
	c := Calendar{
		WorkDays: make(map[time.Weekday]bool, len(workDays)),
		Holidays: make(map[string]bool, len(holidays)),
	}
	for _, wd := range workDays {
		if wd >= 0 && wd <= 6 {
			c.WorkDays[time.Weekday(wd)] = true
		}
	}
	for _, h := range holidays {
		c.Holidays[h.Format(DayKey)] = true
	}
	return c
}

// AddHoliday returns a copy of the calendar with one more excluded date.
func (c Calendar) AddHoliday(d time.Time) Calendar {
	out := Calendar{
		WorkDays: c.WorkDays,
		Holidays: make(map[string]bool, len(c.Holidays)+1),
	}
	for k := range c.Holidays {
		out.Holidays[k] = true
	}
	out.Holidays[d.Format(DayKey)] = true
	return out
}

// Day truncates a time to midnight UTC so all arithmetic compares whole days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether d's weekday is in the work-day set and d is
// not a holiday.
func (c Calendar) IsWorkingDay(d time.Time) bool {
	d = Day(d)
	return c.WorkDays[d.Weekday()] && !c.Holidays[d.Format(DayKey)]
}

// NextWorkingDay returns the first working day at or after d.
func (c Calendar) NextWorkingDay(d time.Time) time.Time {
	d = Day(d)
	for i := 0; i < maxScan; i++ {
		if c.IsWorkingDay(d) {
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// PrevWorkingDay returns the first working day at or before d.
func (c Calendar) PrevWorkingDay(d time.Time) time.Time {
	d = Day(d)
	for i := 0; i < maxScan; i++ {
		if c.IsWorkingDay(d) {
			return d
		}
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// AddWorkingDays counts n working days forward from start, including start
// itself once snapped to a working day. n=1 returns the snapped start, so a
// one-day task starts and finishes on the same date. n<=0 also returns the
// snapped start.
func (c Calendar) AddWorkingDays(start time.Time, n int) time.Time {
	d := c.NextWorkingDay(start)
	for counted := 1; counted < n; {
		d = d.AddDate(0, 0, 1)
		d = c.NextWorkingDay(d)
		counted++
	}
	return d
}

// SubtractWorkingDays counts n working days backward from end, including end
// itself once snapped backward to a working day. n=1 returns the snapped end.
func (c Calendar) SubtractWorkingDays(end time.Time, n int) time.Time {
	d := c.PrevWorkingDay(end)
	for counted := 1; counted < n; {
		d = d.AddDate(0, 0, -1)
		d = c.PrevWorkingDay(d)
		counted++
	}
	return d
}

// ShiftWorkingDays moves d by lag working days, forward for positive lag and
// backward for negative, not counting d itself. lag=0 returns d snapped
// forward to a working day.
func (c Calendar) ShiftWorkingDays(d time.Time, lag int) time.Time {
	if lag > 0 {
		return c.AddWorkingDays(Day(d).AddDate(0, 0, 1), lag)
	}
	if lag < 0 {
		return c.SubtractWorkingDays(Day(d).AddDate(0, 0, -1), -lag)
	}
	return c.NextWorkingDay(d)
}

// WorkingDaysBetween counts working days after a up to and including b.
// Returns 0 when a and b are the same day, and a negative count when b
// precedes a.
func (c Calendar) WorkingDaysBetween(a, b time.Time) int {
	a, b = Day(a), Day(b)
	sign := 1
	if b.Before(a) {
		a, b = b, a
		sign = -1
	}
	count := 0
	for i := 0; a.Before(b) && i < maxScan; i++ {
		a = a.AddDate(0, 0, 1)
		if c.IsWorkingDay(a) {
			count++
		}
	}
	return sign * count
}
