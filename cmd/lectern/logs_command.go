package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Tail the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Lines []string `json:"lines"`
				Count int      `json:"count"`
			}
			path := "/admin/logs?lines=" + strconv.Itoa(lines)
			if err := ctx.client().get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			for _, line := range resp.Lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "Number of trailing log lines to fetch")
	return cmd
}
