package cpm

import (
	"time"

	"github.com/joshharrison/schedloom/internal/graph"
)

// Result holds the complete critical path analysis for one engine run.
type Result struct {
	Tasks        map[string]*graph.Task // scheduled copies, keyed by id
	CriticalPath []string               // critical task ids in topological order
	ProjectEnd   *time.Time             // nil for an empty task set
	TopoOrder    []string
	Waves        []Wave // tasks grouped by shared earliest start date
}

// Wave is a group of tasks whose earliest start falls on the same date.
type Wave struct {
	Index      int
	Date       time.Time
	TaskIDs    []string
	IsCritical bool // true if the wave contains critical path tasks
}
