package graph

import (
	"fmt"
	"strings"
	"time"
)

// DepType is one of the four CPM dependency relationships between a
// predecessor and successor task.
type DepType string

const (
	FinishToStart  DepType = "FS"
	StartToStart   DepType = "SS"
	FinishToFinish DepType = "FF"
	StartToFinish  DepType = "SF"
)

// ParseDepType normalizes a dependency type tag. Both the short ("fs") and
// long ("finish_to_start") spellings are accepted.
func ParseDepType(s string) (DepType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FS", "FINISH_TO_START", "FINISH-TO-START":
		return FinishToStart, nil
	case "SS", "START_TO_START", "START-TO-START":
		return StartToStart, nil
	case "FF", "FINISH_TO_FINISH", "FINISH-TO-FINISH":
		return FinishToFinish, nil
	case "SF", "START_TO_FINISH", "START-TO-FINISH":
		return StartToFinish, nil
	}
	return "", &InvalidDependencyTypeError{Type: s}
}

// SchedulingMode controls whether the engine may move a task's dates.
type SchedulingMode string

const (
	ModeAuto   SchedulingMode = "automatic"
	ModeManual SchedulingMode = "manual"
)

// ConstraintType tags a date constraint on a single task.
type ConstraintType string

const (
	MustStartOn       ConstraintType = "must_start_on"
	StartNoEarlier    ConstraintType = "start_no_earlier_than"
	FinishNoLaterThan ConstraintType = "finish_no_later_than"
)

// Constraint pins or bounds a task against a fixed date.
type Constraint struct {
	Type ConstraintType `json:"type"`
	Date time.Time      `json:"date"`
}

// Task is a unit of work. Duration is in whole working days; zero marks a
// milestone. The four dates, slack and criticality are computed fields: nil
// and zero until an engine run populates them. The engine never touches
// duration, dependencies or identity.
type Task struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	DurationDays   int            `json:"duration_days"`
	EstimatedHours float64        `json:"estimated_hours,omitempty"`
	AssigneeID     string         `json:"assignee_id,omitempty"`
	Mode           SchedulingMode `json:"mode,omitempty"`
	Constraint     *Constraint    `json:"constraint,omitempty"`

	EarliestStart  *time.Time `json:"earliest_start,omitempty"`
	EarliestFinish *time.Time `json:"earliest_finish,omitempty"`
	LatestStart    *time.Time `json:"latest_start,omitempty"`
	LatestFinish   *time.Time `json:"latest_finish,omitempty"`
	SlackDays      int        `json:"slack_days"`
	IsCritical     bool       `json:"is_critical"`
}

// Manual reports whether the engine must leave this task's dates alone.
func (t *Task) Manual() bool {
	return t.Mode == ModeManual
}

// Clone returns a copy of the task safe for the engine to fill in.
func (t *Task) Clone() *Task {
	out := *t
	if t.Constraint != nil {
		c := *t.Constraint
		out.Constraint = &c
	}
	out.EarliestStart = copyDate(t.EarliestStart)
	out.EarliestFinish = copyDate(t.EarliestFinish)
	out.LatestStart = copyDate(t.LatestStart)
	out.LatestFinish = copyDate(t.LatestFinish)
	return &out
}

func copyDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// Dependency is a directed, typed edge between two tasks. LagDays may be
// negative, denoting lead time.
type Dependency struct {
	PredecessorID string  `json:"predecessor_id"`
	SuccessorID   string  `json:"successor_id"`
	Type          DepType `json:"type"`
	LagDays       int     `json:"lag_days"`
}

// TaskGraph is a directed graph of tasks with typed edges. Acyclicity is
// checked by TopoSort, not assumed at build time.
type TaskGraph struct {
	Tasks  map[string]*Task
	Preds  map[string][]Dependency // successor id -> incoming edges
	Succs  map[string][]Dependency // predecessor id -> outgoing edges
	Roots  []string                // tasks with no predecessors
	Leaves []string                // tasks with no successors
}

// CircularDependencyError reports a dependency cycle. No partial ordering
// accompanies it; a cyclic graph has no meaningful schedule.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Cycle) == 0 {
		return "circular dependency detected"
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

// InvalidDependencyTypeError reports a dependency type tag outside the four
// recognized values.
type InvalidDependencyTypeError struct {
	Type string
}

func (e *InvalidDependencyTypeError) Error() string {
	return fmt.Sprintf("invalid dependency type %q (want FS, SS, FF or SF)", e.Type)
}
