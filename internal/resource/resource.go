// Package resource models schedulable people: their individual work weeks,
// approved time off, and daily capacity. It produces the effective calendar
// the engine uses in place of the project default for assigned tasks.
package resource

import (
	"fmt"
	"math"
	"time"

	"github.com/joshharrison/schedloom/internal/calendar"
)

// TimeOffApproved is the only status that affects scheduling; pending and
// rejected requests are ignored.
const TimeOffApproved = "approved"

// Member is a schedulable resource.
type Member struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	WorkDays    []int   `json:"work_days"` // weekday indices, 0 = Sunday
	HoursPerDay float64 `json:"hours_per_day"`
	Employment  string  `json:"employment,omitempty"` // informational only
}

// TimeOff is an absence range for a member, inclusive of both endpoints.
type TimeOff struct {
	MemberID string    `json:"member_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
}

// Approved reports whether the range affects scheduling.
func (t TimeOff) Approved() bool {
	return t.Status == TimeOffApproved
}

// InvalidResourceCapacityError reports a member with a non-positive daily
// hour capacity passed to EffectiveDuration.
type InvalidResourceCapacityError struct {
	MemberID string
	Hours    float64
}

func (e *InvalidResourceCapacityError) Error() string {
	return fmt.Sprintf("member %s has invalid daily capacity %.1fh", e.MemberID, e.Hours)
}

// EffectiveCalendar builds the calendar the engine uses for tasks assigned
// to member: the intersection of the project work week with the member's own
// work days, plus every day inside any approved time-off range folded into
// the holiday set.
func EffectiveCalendar(base calendar.Calendar, member Member, timeOff []TimeOff) calendar.Calendar {
	eff := calendar.Calendar{
		WorkDays: make(map[time.Weekday]bool, len(member.WorkDays)),
		Holidays: make(map[string]bool, len(base.Holidays)),
	}
	for _, wd := range member.WorkDays {
		if wd < 0 || wd > 6 {
			continue
		}
		if base.WorkDays[time.Weekday(wd)] {
			eff.WorkDays[time.Weekday(wd)] = true
		}
	}
	for k := range base.Holidays {
		eff.Holidays[k] = true
	}
	for _, to := range timeOff {
		if to.MemberID != member.ID || !to.Approved() {
			continue
		}
		for d := calendar.Day(to.Start); !d.After(calendar.Day(to.End)); d = d.AddDate(0, 0, 1) {
			eff.Holidays[d.Format(calendar.DayKey)] = true
		}
	}
	return eff
}

// EffectiveDuration converts an effort estimate in hours into a whole-day
// duration given the member's daily capacity, always rounding up.
func EffectiveDuration(estimatedHours float64, member Member) (int, error) {
	if member.HoursPerDay <= 0 {
		return 0, &InvalidResourceCapacityError{MemberID: member.ID, Hours: member.HoursPerDay}
	}
	if estimatedHours <= 0 {
		return 0, nil
	}
	return int(math.Ceil(estimatedHours / member.HoursPerDay)), nil
}
