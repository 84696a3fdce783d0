// Package project loads a project file into engine inputs. The file is JSON
// but field names have drifted across exporters, so parsing goes through
// gjson with per-field fallbacks rather than a rigid struct decode.
package project

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/joshharrison/schedloom/internal/calendar"
	"github.com/joshharrison/schedloom/internal/graph"
	"github.com/joshharrison/schedloom/internal/resource"
)

// Project is the fully parsed input set for one engine run.
type Project struct {
	Name         string
	ProjectStart time.Time
	WorkDays     []int
	Holidays     []time.Time
	Tasks        []*graph.Task
	Dependencies []graph.Dependency
	Members      []resource.Member
	TimeOff      []resource.TimeOff
}

// Calendar builds the project-wide default calendar.
func (p *Project) Calendar() calendar.Calendar {
	return calendar.New(p.WorkDays, p.Holidays)
}

// Load reads and parses a project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return Parse(data)
}

// Parse decodes project JSON. Unknown dependency types and unparseable
// dates are errors; missing optional sections are not.
func Parse(data []byte) (*Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("project file is not valid JSON")
	}
	root := gjson.ParseBytes(data)

	p := &Project{Name: root.Get("name").String()}

	if start := pick(root, "project_start", "start_date", "start"); start.Exists() {
		d, err := parseDate(start.String())
		if err != nil {
			return nil, fmt.Errorf("project_start: %w", err)
		}
		p.ProjectStart = d
	}

	pick(root, "work_days", "workdays").ForEach(func(_, wd gjson.Result) bool {
		p.WorkDays = append(p.WorkDays, int(wd.Int()))
		return true
	})

	var badDate error
	pick(root, "holidays", "calendar_exceptions").ForEach(func(_, h gjson.Result) bool {
		raw := h.String()
		if h.IsObject() {
			raw = pick(h, "date", "day").String()
		}
		d, err := parseDate(raw)
		if err != nil {
			badDate = fmt.Errorf("holiday %q: %w", raw, err)
			return false
		}
		p.Holidays = append(p.Holidays, d)
		return true
	})
	if badDate != nil {
		return nil, badDate
	}

	var parseErr error
	root.Get("tasks").ForEach(func(_, rt gjson.Result) bool {
		t, err := parseTask(rt)
		if err != nil {
			parseErr = err
			return false
		}
		p.Tasks = append(p.Tasks, t)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	root.Get("dependencies").ForEach(func(_, rd gjson.Result) bool {
		typ, err := graph.ParseDepType(pick(rd, "type", "dependency_type").String())
		if err != nil {
			parseErr = err
			return false
		}
		p.Dependencies = append(p.Dependencies, graph.Dependency{
			PredecessorID: pick(rd, "predecessor_id", "from", "predecessor").String(),
			SuccessorID:   pick(rd, "successor_id", "to", "successor").String(),
			Type:          typ,
			LagDays:       int(pick(rd, "lag_days", "lag").Int()),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	pick(root, "team", "team_members", "members").ForEach(func(_, rm gjson.Result) bool {
		m := resource.Member{
			ID:          pick(rm, "id", "member_id").String(),
			Name:        rm.Get("name").String(),
			HoursPerDay: pick(rm, "hours_per_day", "work_hours_per_day").Float(),
			Employment:  pick(rm, "employment", "employment_type").String(),
		}
		pick(rm, "work_days", "workdays").ForEach(func(_, wd gjson.Result) bool {
			m.WorkDays = append(m.WorkDays, int(wd.Int()))
			return true
		})
		p.Members = append(p.Members, m)
		return true
	})

	root.Get("time_off").ForEach(func(_, rto gjson.Result) bool {
		start, err := parseDate(pick(rto, "start", "start_date").String())
		if err != nil {
			parseErr = fmt.Errorf("time_off start: %w", err)
			return false
		}
		end, err := parseDate(pick(rto, "end", "end_date").String())
		if err != nil {
			parseErr = fmt.Errorf("time_off end: %w", err)
			return false
		}
		p.TimeOff = append(p.TimeOff, resource.TimeOff{
			MemberID: pick(rto, "member_id", "member", "employee_id").String(),
			Start:    start,
			End:      end,
			Status:   rto.Get("status").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return p, nil
}

func parseTask(rt gjson.Result) (*graph.Task, error) {
	t := &graph.Task{
		ID:             rt.Get("id").String(),
		Title:          pick(rt, "title", "name").String(),
		DurationDays:   int(pick(rt, "duration_days", "duration").Int()),
		EstimatedHours: pick(rt, "estimated_hours", "estimate_hours").Float(),
		AssigneeID:     pick(rt, "assignee_id", "assignee").String(),
		Mode:           graph.SchedulingMode(pick(rt, "mode", "scheduling_mode").String()),
	}
	if t.ID == "" {
		return nil, fmt.Errorf("task with empty id")
	}

	if c := rt.Get("constraint"); c.Exists() {
		d, err := parseDate(c.Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("task %s constraint: %w", t.ID, err)
		}
		t.Constraint = &graph.Constraint{
			Type: graph.ConstraintType(c.Get("type").String()),
			Date: d,
		}
	}

	// Manual tasks carry their pinned dates through the engine untouched.
	if es := pick(rt, "earliest_start", "start"); t.Mode == graph.ModeManual && es.Exists() {
		d, err := parseDate(es.String())
		if err != nil {
			return nil, fmt.Errorf("task %s start: %w", t.ID, err)
		}
		t.EarliestStart = &d
		ef := d
		if fin := pick(rt, "earliest_finish", "finish"); fin.Exists() {
			ef, err = parseDate(fin.String())
			if err != nil {
				return nil, fmt.Errorf("task %s finish: %w", t.ID, err)
			}
		}
		t.EarliestFinish = &ef
	}

	return t, nil
}

// pick returns the first existing field among keys.
func pick(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(calendar.DayKey, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return calendar.Day(d), nil
}
