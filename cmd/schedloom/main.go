package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joshharrison/schedloom/internal/calendar"
	"github.com/joshharrison/schedloom/internal/config"
	"github.com/joshharrison/schedloom/internal/cpm"
	"github.com/joshharrison/schedloom/internal/project"
	"github.com/joshharrison/schedloom/internal/reporter"
	"github.com/joshharrison/schedloom/internal/state"
	"github.com/joshharrison/schedloom/internal/ui"
)

var (
	flagProject   string
	flagStart     string
	flagResources bool
	flagJSON      bool
	flagWaves     bool
	flagNoSave    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedloom",
		Short: "Critical path scheduling over working calendars",
		Long: `Schedloom reads a project file of tasks and typed dependencies, runs a
calendar-aware critical path analysis (forward and backward pass, slack,
critical path), and prints the computed schedule.`,
	}

	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "project.json", "Project file path")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(computeCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(showCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func computeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the schedule and critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Color {
				color.NoColor = true
			}

			p, err := project.Load(flagProject)
			if err != nil {
				return err
			}
			applyDefaults(p, cfg)

			start := p.ProjectStart
			if flagStart != "" {
				start, err = time.Parse(calendar.DayKey, flagStart)
				if err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
			}
			if start.IsZero() {
				start = calendar.Day(time.Now())
			}

			var result *cpm.Result
			if flagResources {
				result, err = cpm.CalculateWithResources(p.Tasks, p.Dependencies, start, p.Calendar(), p.Members, p.TimeOff)
			} else {
				result, err = cpm.Calculate(p.Tasks, p.Dependencies, start, p.Calendar())
			}
			if err != nil {
				return err
			}

			rpt := reporter.New(result)
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				ui.PrintLogo()
				rpt.PrintSchedule(os.Stdout)
				fmt.Println()
				if flagWaves {
					rpt.PrintWaves(os.Stdout)
					fmt.Println()
				}
				fmt.Print(rpt.Summary())
			}

			if cfg.Snapshot.Enabled && !flagNoSave {
				snap := state.New(cfg.Snapshot.Dir)
				snap.ProjectFile = flagProject
				snap.ProjectName = p.Name
				snap.ProjectStart = start
				snap.ProjectEnd = result.ProjectEnd
				snap.Tasks = result.Tasks
				snap.CriticalPath = result.CriticalPath
				snap.TopoOrder = result.TopoOrder
				if err := snap.Save(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagStart, "start", "", "Project start date (YYYY-MM-DD, overrides project file)")
	cmd.Flags().BoolVar(&flagResources, "resources", false, "Use per-resource calendars and capacities")
	cmd.Flags().BoolVar(&flagWaves, "waves", false, "Group tasks by shared start date")
	cmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Skip writing the schedule snapshot")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the project file for structural problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(flagProject)
			if err != nil {
				return err
			}

			// A zero-cost dry run surfaces duplicate ids, self-edges,
			// unknown dependency types and cycles.
			_, err = cpm.Calculate(p.Tasks, p.Dependencies, calendar.Day(time.Now()), p.Calendar())
			if err != nil {
				return err
			}

			fmt.Printf("%s %s: %d tasks, %d dependencies, no cycles\n",
				ui.BoldGreen("ok"), flagProject, len(p.Tasks), len(p.Dependencies))
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the last computed schedule snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !state.Exists(cfg.Snapshot.Dir) {
				return fmt.Errorf("no schedule snapshot (run `schedloom compute` first)")
			}
			snap, err := state.Load(cfg.Snapshot.Dir)
			if err != nil {
				return err
			}

			result := &cpm.Result{
				Tasks:        snap.Tasks,
				CriticalPath: snap.CriticalPath,
				ProjectEnd:   snap.ProjectEnd,
				TopoOrder:    snap.TopoOrder,
			}
			rpt := reporter.New(result)
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			fmt.Printf("%s %s %s\n", ui.BoldCyan("Snapshot"), ui.Dim(snap.ID),
				ui.Dim(snap.ComputedAt.Format(time.RFC3339)))
			rpt.PrintSchedule(os.Stdout)
			fmt.Println()
			fmt.Print(rpt.Summary())
			return nil
		},
	}
}

// applyDefaults fills calendar fields the project file leaves empty from the
// config file.
func applyDefaults(p *project.Project, cfg *config.Config) {
	if len(p.WorkDays) == 0 {
		p.WorkDays = cfg.WorkDays
	}
	if len(p.Holidays) == 0 {
		for _, h := range cfg.Holidays {
			if d, err := time.Parse(calendar.DayKey, h); err == nil {
				p.Holidays = append(p.Holidays, d)
			}
		}
	}
}
