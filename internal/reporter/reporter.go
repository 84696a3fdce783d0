// Package reporter renders engine results for the terminal and for
// machine-readable output.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshharrison/schedloom/internal/calendar"
	"github.com/joshharrison/schedloom/internal/cpm"
	"github.com/joshharrison/schedloom/internal/graph"
	"github.com/joshharrison/schedloom/internal/ui"
)

// Reporter formats one engine result.
type Reporter struct {
	Result *cpm.Result
}

// New creates a Reporter for a computed result.
func New(result *cpm.Result) *Reporter {
	return &Reporter{Result: result}
}

// PrintSchedule writes the per-task schedule table in topological order.
func (r *Reporter) PrintSchedule(w io.Writer) {
	if len(r.Result.Tasks) == 0 {
		fmt.Fprintf(w, "%s no tasks to schedule\n", ui.Dim("·"))
		return
	}

	fmt.Fprintf(w, "  %-12s %-12s %-12s %-12s %-12s %7s\n",
		ui.Bold("TASK"), ui.Bold("ES"), ui.Bold("EF"), ui.Bold("LS"), ui.Bold("LF"), ui.Bold("SLACK"))

	for _, id := range r.Result.TopoOrder {
		t := r.Result.Tasks[id]
		fmt.Fprintf(w, "%s %-12s %-12s %-12s %-12s %-12s %7s%s\n",
			ui.ModeIcon(t.Manual()),
			ui.BoldMagenta(id),
			fmtDate(t.EarliestStart),
			fmtDate(t.EarliestFinish),
			fmtDate(t.LatestStart),
			fmtDate(t.LatestFinish),
			ui.SlackLabel(t.SlackDays),
			ui.CriticalMark(t.IsCritical))
	}
}

// PrintWaves writes tasks grouped by shared start date.
func (r *Reporter) PrintWaves(w io.Writer) {
	for _, wave := range r.Result.Waves {
		fmt.Fprintf(w, "  %s %s\n", ui.BoldWhite(wave.Date.Format(calendar.DayKey)), ui.Dim(fmt.Sprintf("(%d tasks)", len(wave.TaskIDs))))
		for _, id := range wave.TaskIDs {
			t := r.Result.Tasks[id]
			fmt.Fprintf(w, "    %s  %s%s\n", ui.BoldMagenta(id), t.Title, ui.CriticalMark(t.IsCritical))
		}
	}
}

// Summary returns the one-paragraph result summary: project end date and the
// critical path.
func (r *Reporter) Summary() string {
	var b strings.Builder

	end := "—"
	if r.Result.ProjectEnd != nil {
		end = r.Result.ProjectEnd.Format(calendar.DayKey)
	}
	fmt.Fprintf(&b, "%s %d tasks, project end %s\n",
		ui.BoldCyan("Schedloom:"), len(r.Result.Tasks), ui.Bold(end))

	if len(r.Result.CriticalPath) > 0 {
		fmt.Fprintf(&b, "%s %s\n",
			ui.BoldYellow("critical path:"),
			strings.Join(r.Result.CriticalPath, ui.Dim(" -> ")))
	}
	return b.String()
}

// JSON returns the machine-readable form of the result.
func (r *Reporter) JSON() ([]byte, error) {
	type jsonTask struct {
		*graph.Task
		ES string `json:"es,omitempty"`
		EF string `json:"ef,omitempty"`
		LS string `json:"ls,omitempty"`
		LF string `json:"lf,omitempty"`
	}
	out := struct {
		Tasks        []jsonTask `json:"tasks"`
		CriticalPath []string   `json:"critical_path"`
		ProjectEnd   string     `json:"project_end,omitempty"`
	}{
		CriticalPath: r.Result.CriticalPath,
	}
	if r.Result.ProjectEnd != nil {
		out.ProjectEnd = r.Result.ProjectEnd.Format(calendar.DayKey)
	}
	for _, id := range r.Result.TopoOrder {
		t := r.Result.Tasks[id]
		out.Tasks = append(out.Tasks, jsonTask{
			Task: t,
			ES:   dateOrEmpty(t.EarliestStart),
			EF:   dateOrEmpty(t.EarliestFinish),
			LS:   dateOrEmpty(t.LatestStart),
			LF:   dateOrEmpty(t.LatestFinish),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

func fmtDate(d *time.Time) string {
	if d == nil {
		return ui.Dim("—")
	}
	return d.Format(calendar.DayKey)
}

func dateOrEmpty(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(calendar.DayKey)
}
