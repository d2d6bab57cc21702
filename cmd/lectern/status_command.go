package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"lectern/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary workflow.StatusSummary
			if err := ctx.client().get(cmd.Context(), "/admin/status", &summary); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workflow running: %s\n", yesNo(summary.Running))
			if summary.LastError != "" {
				fmt.Fprintf(out, "Last error: %s\n", summary.LastError)
			}
			if summary.LastLecture != nil {
				fmt.Fprintf(out, "Last lecture: #%d %s (%s)\n",
					summary.LastLecture.ID,
					summary.LastLecture.OriginalFilename,
					summary.LastLecture.Status,
				)
			}

			fmt.Fprintf(out, "Queue total: %d (needs review: %d)\n",
				summary.Queue.Total, summary.Queue.NeedsReview)
			if len(summary.Queue.ByStatus) > 0 {
				rows := make([][]string, 0, len(summary.Queue.ByStatus))
				for _, status := range summary.Queue.SortedStatuses() {
					rows = append(rows, []string{
						string(status),
						strconv.FormatInt(summary.Queue.ByStatus[status], 10),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}

			if len(summary.StageHealth) > 0 {
				names := make([]string, 0, len(summary.StageHealth))
				for name := range summary.StageHealth {
					names = append(names, name)
				}
				sort.Strings(names)
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					health := summary.StageHealth[name]
					state := "ok"
					if !health.Ready {
						state = "not ready"
					}
					rows = append(rows, []string{name, state, health.Detail})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Stage", "State", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}
}
