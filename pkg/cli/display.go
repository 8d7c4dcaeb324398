package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/foreman/foreman/pkg/site"
	"github.com/foreman/foreman/pkg/types"
)

func printStatus(out io.Writer, s *site.Site) {
	fmt.Fprintf(out, "Resources: %s\n", s.ResourceSnapshot())

	snap := s.WorkerSnapshot()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKER\tPROFICIENCY\tSTATUS")
	fmt.Fprintln(w, "------\t-----------\t------")
	for _, worker := range snap.Active {
		fmt.Fprintf(w, "%s\t%d\t%s\n", worker.Name, worker.Proficiency, color.GreenString("on duty"))
	}
	for _, worker := range snap.Resting {
		fmt.Fprintf(w, "%s\t%d\t%s\n", worker.Name, worker.Proficiency, color.YellowString("on break"))
	}
	w.Flush()
}

func printQueue(out io.Writer, tasks []types.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks queued")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRIORITY\tTASK\tBRICKS\tCEMENT\tTOOLS\tSUBMITTED")
	fmt.Fprintln(w, "--------\t----\t------\t------\t-----\t---------")
	for _, t := range tasks {
		submitted := "-"
		if !t.SubmittedAt.IsZero() {
			submitted = t.SubmittedAt.Format("15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n",
			t.Priority, t.Name, t.Required.Bricks, t.Required.Cement, t.Required.Tools, submitted)
	}
	w.Flush()
}

func printReport(out io.Writer, r *types.CycleReport) {
	if r.Skipped {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("[%s]", r.Weather), "Work cannot proceed today due to weather conditions")
		return
	}

	weather := r.Weather
	if weather == "" {
		weather = "Clear"
	}

	parts := []string{}
	if n := len(r.Completed); n > 0 {
		parts = append(parts, color.GreenString("%d completed", n))
	}
	if n := len(r.Deferred); n > 0 {
		parts = append(parts, color.YellowString("%d deferred", n))
	}
	if r.Aborted != nil {
		parts = append(parts, color.RedString("%s aborted", r.Aborted.Name))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}

	fmt.Fprintf(out, "%s %s (%d unit(s) handed out)\n",
		color.CyanString("[%s]", weather), strings.Join(parts, ", "), len(r.Allocations))
}
