// Package cpm implements the critical path method over working calendars:
// a forward and backward pass across a typed dependency graph, slack
// derivation, and an orchestrator that composes them into one run. The
// engine is pure; it clones its task inputs and retains no state between
// invocations.
package cpm

import (
	"sort"
	"time"

	"github.com/joshharrison/schedloom/internal/calendar"
	"github.com/joshharrison/schedloom/internal/graph"
	"github.com/joshharrison/schedloom/internal/resource"
)

// Calculate runs the full pipeline against the project calendar: topological
// sort, forward pass from projectStart, backward pass anchored at the
// computed project end, slack and critical path. An empty task set yields an
// empty result with a nil project end and no error.
func Calculate(tasks []*graph.Task, deps []graph.Dependency, projectStart time.Time, cal calendar.Calendar) (*Result, error) {
	return run(tasks, deps, projectStart, cal, nil, nil)
}

// CalculateWithResources is Calculate with per-resource calendars: a task
// with an assignee is scheduled on the intersection of the project calendar
// and the member's work days, with approved time off excluded, and an
// estimated-hours effort is converted to whole days by the member's daily
// capacity. Unassigned tasks use the project default.
func CalculateWithResources(tasks []*graph.Task, deps []graph.Dependency, projectStart time.Time, cal calendar.Calendar, members []resource.Member, timeOff []resource.TimeOff) (*Result, error) {
	return run(tasks, deps, projectStart, cal, members, timeOff)
}

func run(tasks []*graph.Task, deps []graph.Dependency, projectStart time.Time, cal calendar.Calendar, members []resource.Member, timeOff []resource.TimeOff) (*Result, error) {
	result := &Result{Tasks: make(map[string]*graph.Task, len(tasks))}
	if len(tasks) == 0 {
		return result, nil
	}

	clones := make([]*graph.Task, len(tasks))
	for i, t := range tasks {
		clones[i] = t.Clone()
		result.Tasks[t.ID] = clones[i]
	}

	g, err := graph.Build(clones, deps)
	if err != nil {
		return nil, err
	}
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	result.TopoOrder = order

	cals, durs, err := resolve(clones, cal, members, timeOff)
	if err != nil {
		return nil, err
	}

	if err := forwardPass(g, order, projectStart, cals, durs); err != nil {
		return nil, err
	}

	result.ProjectEnd = projectEnd(g)
	if result.ProjectEnd == nil {
		// Nothing was scheduled (every task manual with no stored dates).
		return result, nil
	}

	if err := backwardPass(g, order, *result.ProjectEnd, cals, durs); err != nil {
		return nil, err
	}

	calculateSlack(g, cals)

	for _, id := range order {
		if g.Tasks[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}
	result.Waves = computeWaves(g, order)

	return result, nil
}

// resolve builds the per-task calendar and duration tables. Without
// resources every task gets the project calendar and its stated duration.
func resolve(tasks []*graph.Task, cal calendar.Calendar, members []resource.Member, timeOff []resource.TimeOff) (map[string]calendar.Calendar, map[string]int, error) {
	byID := make(map[string]resource.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	effCals := make(map[string]calendar.Calendar, len(members))

	cals := make(map[string]calendar.Calendar, len(tasks))
	durs := make(map[string]int, len(tasks))
	for _, t := range tasks {
		cals[t.ID] = cal
		durs[t.ID] = t.DurationDays

		m, assigned := byID[t.AssigneeID]
		if !assigned || t.AssigneeID == "" {
			continue
		}
		eff, cached := effCals[m.ID]
		if !cached {
			eff = resource.EffectiveCalendar(cal, m, timeOff)
			effCals[m.ID] = eff
		}
		cals[t.ID] = eff

		if t.EstimatedHours > 0 {
			d, err := resource.EffectiveDuration(t.EstimatedHours, m)
			if err != nil {
				return nil, nil, err
			}
			durs[t.ID] = d
		}
	}
	return cals, durs, nil
}

// forwardPass computes ES/EF in topological order. Each incoming dependency
// contributes one candidate ES through the dispatch table; the task takes
// the maximum, floored at the first working day of the project. Manual tasks
// keep their stored dates and still constrain successors.
func forwardPass(g *graph.TaskGraph, order []string, projectStart time.Time, cals map[string]calendar.Calendar, durs map[string]int) error {
	for _, id := range order {
		t := g.Tasks[id]
		cal := cals[id]
		floor := cal.NextWorkingDay(projectStart)

		if t.Manual() && t.EarliestStart != nil && t.EarliestFinish != nil {
			continue
		}

		es := floor
		for _, e := range g.Preds[id] {
			rule, ok := depRules[e.Type]
			if !ok {
				return &graph.InvalidDependencyTypeError{Type: string(e.Type)}
			}
			pred := g.Tasks[e.PredecessorID]
			if pred.EarliestStart == nil || pred.EarliestFinish == nil {
				continue
			}
			cand := rule.es(cal, *pred.EarliestStart, *pred.EarliestFinish, durs[id], e.LagDays)
			if cand.Before(floor) {
				cand = floor
			}
			if cand.After(es) {
				es = cand
			}
		}

		if c := t.Constraint; c != nil {
			switch c.Type {
			case graph.MustStartOn:
				es = cal.NextWorkingDay(c.Date)
			case graph.StartNoEarlier:
				if bound := cal.NextWorkingDay(c.Date); es.Before(bound) {
					es = bound
				}
			}
		}

		ef := finishFromStart(cal, es, durs[id])
		t.EarliestStart, t.EarliestFinish = &es, &ef
	}
	return nil
}

// backwardPass computes LS/LF in reverse topological order, anchored at the
// overall project end. Each outgoing dependency contributes one candidate LF
// through the dispatch table; the task takes the minimum.
func backwardPass(g *graph.TaskGraph, order []string, projectEnd time.Time, cals map[string]calendar.Calendar, durs map[string]int) error {
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		t := g.Tasks[id]
		cal := cals[id]

		if t.Manual() && t.LatestStart != nil && t.LatestFinish != nil {
			continue
		}

		lf := cal.PrevWorkingDay(projectEnd)
		for _, e := range g.Succs[id] {
			rule, ok := depRules[e.Type]
			if !ok {
				return &graph.InvalidDependencyTypeError{Type: string(e.Type)}
			}
			succ := g.Tasks[e.SuccessorID]
			if succ.LatestStart == nil || succ.LatestFinish == nil {
				continue
			}
			cand := rule.lf(cal, *succ.LatestStart, *succ.LatestFinish, durs[id], e.LagDays)
			if cand.Before(lf) {
				lf = cand
			}
		}

		if c := t.Constraint; c != nil && c.Type == graph.FinishNoLaterThan {
			if bound := cal.PrevWorkingDay(c.Date); bound.Before(lf) {
				lf = bound
			}
		}

		ls := startFromFinish(cal, lf, durs[id])
		t.LatestFinish, t.LatestStart = &lf, &ls
	}
	return nil
}

// calculateSlack derives slack in working days and marks zero-slack tasks
// critical.
func calculateSlack(g *graph.TaskGraph, cals map[string]calendar.Calendar) {
	for id, t := range g.Tasks {
		if t.EarliestStart == nil || t.LatestStart == nil {
			continue
		}
		t.SlackDays = cals[id].WorkingDaysBetween(*t.EarliestStart, *t.LatestStart)
		t.IsCritical = t.SlackDays == 0
	}
}

// projectEnd is the maximum EF over terminal tasks, falling back to all
// tasks when every task has successors.
func projectEnd(g *graph.TaskGraph) *time.Time {
	pool := g.Leaves
	if len(pool) == 0 {
		for id := range g.Tasks {
			pool = append(pool, id)
		}
	}
	var end *time.Time
	for _, id := range pool {
		t := g.Tasks[id]
		if t.EarliestFinish == nil {
			continue
		}
		if end == nil || t.EarliestFinish.After(*end) {
			v := *t.EarliestFinish
			end = &v
		}
	}
	if end == nil {
		for _, t := range g.Tasks {
			if t.EarliestFinish == nil {
				continue
			}
			if end == nil || t.EarliestFinish.After(*end) {
				v := *t.EarliestFinish
				end = &v
			}
		}
	}
	return end
}

// computeWaves groups tasks by earliest start date, critical tasks first
// within each wave.
func computeWaves(g *graph.TaskGraph, order []string) []Wave {
	groups := make(map[string][]string)
	for _, id := range order {
		t := g.Tasks[id]
		if t.EarliestStart == nil {
			continue
		}
		key := t.EarliestStart.Format(calendar.DayKey)
		groups[key] = append(groups[key], id)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	waves := make([]Wave, len(keys))
	for i, k := range keys {
		ids := groups[k]
		sort.Strings(ids)
		sort.SliceStable(ids, func(a, b int) bool {
			return g.Tasks[ids[a]].IsCritical && !g.Tasks[ids[b]].IsCritical
		})

		hasCritical := false
		for _, id := range ids {
			if g.Tasks[id].IsCritical {
				hasCritical = true
			}
		}

		date, _ := time.Parse(calendar.DayKey, k)
		waves[i] = Wave{Index: i, Date: date, TaskIDs: ids, IsCritical: hasCritical}
	}
	return waves
}
