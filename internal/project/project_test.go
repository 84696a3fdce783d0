package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/schedloom/internal/graph"
)

const fixture = `{
  "name": "Launch",
  "project_start": "2026-01-25",
  "work_days": [0, 1, 2, 3, 4],
  "holidays": ["2026-03-19", {"date": "2026-03-22"}],
  "tasks": [
    {"id": "design", "title": "Design", "duration_days": 3},
    {"id": "build", "name": "Build", "duration": 4, "estimated_hours": 20, "assignee": "rina"},
    {"id": "ship", "title": "Ship", "duration_days": 0, "mode": "manual", "start": "2026-02-15"}
  ],
  "dependencies": [
    {"predecessor_id": "design", "successor_id": "build", "type": "FS", "lag_days": 0},
    {"from": "build", "to": "ship", "type": "finish_to_start", "lag": -1}
  ],
  "team": [
    {"id": "rina", "name": "Rina", "work_days": [0, 1, 2, 3], "hours_per_day": 6, "employment": "part_time"}
  ],
  "time_off": [
    {"member_id": "rina", "start": "2026-02-15", "end": "2026-02-17", "status": "approved"}
  ]
}`

func TestParse_FullProject(t *testing.T) {
	p, err := Parse([]byte(fixture))
	require.NoError(t, err)

	assert.Equal(t, "Launch", p.Name)
	assert.Equal(t, time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC), p.ProjectStart)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.WorkDays)
	assert.Len(t, p.Holidays, 2)
	assert.Len(t, p.Tasks, 3)
	assert.Len(t, p.Dependencies, 2)
	assert.Len(t, p.Members, 1)
	assert.Len(t, p.TimeOff, 1)
}

func TestParse_LegacyFieldNames(t *testing.T) {
	p, err := Parse([]byte(fixture))
	require.NoError(t, err)

	build := p.Tasks[1]
	assert.Equal(t, "Build", build.Title, "name should map to title")
	assert.Equal(t, 4, build.DurationDays, "duration should map to duration_days")
	assert.Equal(t, "rina", build.AssigneeID, "assignee should map to assignee_id")

	dep := p.Dependencies[1]
	assert.Equal(t, "build", dep.PredecessorID)
	assert.Equal(t, "ship", dep.SuccessorID)
	assert.Equal(t, graph.FinishToStart, dep.Type)
	assert.Equal(t, -1, dep.LagDays)
}

func TestParse_ManualTaskCarriesPinnedDates(t *testing.T) {
	p, err := Parse([]byte(fixture))
	require.NoError(t, err)

	ship := p.Tasks[2]
	assert.Equal(t, graph.ModeManual, ship.Mode)
	require.NotNil(t, ship.EarliestStart)
	require.NotNil(t, ship.EarliestFinish)
	assert.Equal(t, time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC), *ship.EarliestStart)
}

func TestParse_Team(t *testing.T) {
	p, err := Parse([]byte(fixture))
	require.NoError(t, err)

	rina := p.Members[0]
	assert.Equal(t, "rina", rina.ID)
	assert.Equal(t, []int{0, 1, 2, 3}, rina.WorkDays)
	assert.Equal(t, 6.0, rina.HoursPerDay)
	assert.Equal(t, "part_time", rina.Employment)
}

func TestParse_InvalidDependencyType(t *testing.T) {
	_, err := Parse([]byte(`{
	  "tasks": [{"id": "a"}, {"id": "b"}],
	  "dependencies": [{"from": "a", "to": "b", "type": "starts_with"}]
	}`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid dependency type")
}

func TestParse_BadDate(t *testing.T) {
	_, err := Parse([]byte(`{"project_start": "25/01/2026"}`))
	require.Error(t, err)
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse([]byte("work_days: [1,2,3]"))
	require.Error(t, err)
}

func TestParse_EmptyTaskID(t *testing.T) {
	_, err := Parse([]byte(`{"tasks": [{"title": "anonymous"}]}`))
	require.Error(t, err)
}

func TestParse_Constraint(t *testing.T) {
	p, err := Parse([]byte(`{
	  "tasks": [{"id": "a", "duration_days": 1,
	    "constraint": {"type": "start_no_earlier_than", "date": "2026-02-01"}}]
	}`))
	require.NoError(t, err)
	require.NotNil(t, p.Tasks[0].Constraint)
	assert.Equal(t, graph.StartNoEarlier, p.Tasks[0].Constraint.Type)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Launch", p.Name)

	cal := p.Calendar()
	assert.True(t, cal.IsWorkingDay(time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsWorkingDay(time.Date(2026, time.March, 19, 0, 0, 0, 0, time.UTC)))
}
