package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/syllabus"
)

func newSyllabusCommand(ctx *commandContext) *cobra.Command {
	syllabusCmd := &cobra.Command{
		Use:   "syllabus",
		Short: "Upload and inspect syllabus coverage",
	}

	syllabusCmd.AddCommand(newSyllabusUploadCommand(ctx))
	syllabusCmd.AddCommand(newSyllabusResultCommand(ctx))
	syllabusCmd.AddCommand(newSyllabusTopicsCommand(ctx))

	return syllabusCmd
}

func newSyllabusUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a syllabus document and compute coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Filename       string          `json:"filename"`
				CoverageResult syllabus.Result `json:"coverage_result"`
			}
			if err := ctx.client().postFile(cmd.Context(), "/upload_syllabus/", "file", args[0], &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			printCoverage(cmd, resp.CoverageResult.CoverageStats)
			return nil
		},
	}
}

func newSyllabusResultCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "result",
		Short: "Show the latest stored syllabus coverage result",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp syllabus.LatestResult
			if err := ctx.client().get(cmd.Context(), "/syllabus_result/", &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Result file: %s\n", resp.Filename)
			printCoverage(cmd, resp.Data.CoverageStats)
			return nil
		},
	}
}

func newSyllabusTopicsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Show the syllabus topic structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []syllabus.TopicEntry
			if err := ctx.client().get(cmd.Context(), "/syllabus/topics", &entries); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				subtopics := ""
				for i, subtopic := range entry.Subtopics {
					if i > 0 {
						subtopics += ", "
					}
					subtopics += subtopic
				}
				rows = append(rows, []string{entry.MainTopic, subtopics})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Topic", "Subtopics"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func printCoverage(cmd *cobra.Command, stats syllabus.CoverageStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Coverage: %.1f%% (%d of %d topics)\n",
		stats.CoveragePercentage, stats.CoveredTopics, stats.TotalTopics)
	if len(stats.MissingTopics) > 0 {
		fmt.Fprintln(out, "Missing topics:")
		for _, topic := range stats.MissingTopics {
			fmt.Fprintf(out, "  - %s\n", topic)
		}
	}
}
