package cpm

import (
	"time"

	"github.com/joshharrison/schedloom/internal/calendar"
	"github.com/joshharrison/schedloom/internal/graph"
)

// esCandidate computes the earliest-start candidate one incoming dependency
// imposes on a task, given the predecessor's realized ES/EF.
type esCandidate func(cal calendar.Calendar, predES, predEF time.Time, dur, lag int) time.Time

// lfCandidate computes the latest-finish candidate one outgoing dependency
// imposes on a task, given the successor's realized LS/LF.
type lfCandidate func(cal calendar.Calendar, succLS, succLF time.Time, dur, lag int) time.Time

type depRule struct {
	es esCandidate
	lf lfCandidate
}

// depRules maps each dependency type to its forward and backward constraint
// functions. All offsets are in working days on the task's own calendar.
var depRules = map[graph.DepType]depRule{
	graph.FinishToStart: {
		// Successor starts the working day after the predecessor finishes.
		es: func(cal calendar.Calendar, _, predEF time.Time, _, lag int) time.Time {
			next := cal.NextWorkingDay(predEF.AddDate(0, 0, 1))
			return cal.ShiftWorkingDays(next, lag)
		},
		// Mirrored: finish the working day before the successor may start.
		lf: func(cal calendar.Calendar, succLS, _ time.Time, _, lag int) time.Time {
			prev := cal.PrevWorkingDay(succLS.AddDate(0, 0, -1))
			return backShift(cal, prev, -lag)
		},
	},
	graph.StartToStart: {
		es: func(cal calendar.Calendar, predES, _ time.Time, _, lag int) time.Time {
			return cal.ShiftWorkingDays(predES, lag)
		},
		lf: func(cal calendar.Calendar, succLS, _ time.Time, dur, lag int) time.Time {
			return finishFromStart(cal, backShift(cal, succLS, -lag), dur)
		},
	},
	graph.FinishToFinish: {
		es: func(cal calendar.Calendar, _, predEF time.Time, dur, lag int) time.Time {
			return startFromFinish(cal, cal.ShiftWorkingDays(predEF, lag), dur)
		},
		lf: func(cal calendar.Calendar, _, succLF time.Time, _, lag int) time.Time {
			return backShift(cal, succLF, -lag)
		},
	},
	graph.StartToFinish: {
		// The constraint binds the successor's finish to the predecessor's
		// start; the candidate ES is derived by stripping the duration. It is
		// a lower bound: clamping to the project start may push the realized
		// finish past the raw constraint.
		es: func(cal calendar.Calendar, predES, _ time.Time, dur, lag int) time.Time {
			return startFromFinish(cal, cal.ShiftWorkingDays(predES, lag), dur)
		},
		lf: func(cal calendar.Calendar, _, succLF time.Time, dur, lag int) time.Time {
			return finishFromStart(cal, backShift(cal, succLF, -lag), dur)
		},
	},
}

// startFromFinish derives a start date from a finish date and a duration in
// working days. A zero duration (milestone) starts and finishes together.
func startFromFinish(cal calendar.Calendar, finish time.Time, dur int) time.Time {
	if dur <= 0 {
		return finish
	}
	return cal.SubtractWorkingDays(finish, dur)
}

// finishFromStart is the inverse derivation.
func finishFromStart(cal calendar.Calendar, start time.Time, dur int) time.Time {
	if dur <= 0 {
		return start
	}
	return cal.AddWorkingDays(start, dur)
}

// backShift shifts like Calendar.ShiftWorkingDays except that a zero offset
// snaps backward, which is the correct direction in the backward pass.
func backShift(cal calendar.Calendar, d time.Time, n int) time.Time {
	if n == 0 {
		return cal.PrevWorkingDay(d)
	}
	return cal.ShiftWorkingDays(d, n)
}
