package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lectern/internal/analytics"
)

func newAnalyticsCommand(ctx *commandContext) *cobra.Command {
	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Dashboard metrics over completed lectures",
	}

	analyticsCmd.AddCommand(newAnalyticsDashboardCommand(ctx))
	analyticsCmd.AddCommand(newAnalyticsQuestionsCommand(ctx))
	analyticsCmd.AddCommand(newAnalyticsTopicsCommand(ctx))

	return analyticsCmd
}

func newAnalyticsDashboardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show every dashboard metric in one payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dashboard analytics.Dashboard
			if err := ctx.client().get(cmd.Context(), "/analytics/dashboard", &dashboard); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, dashboard)
			}

			out := cmd.OutOrStdout()
			coverage := dashboard.SyllabusCoverage
			fmt.Fprintf(out, "Completed lectures: %d\n", coverage.LecturesCount)
			fmt.Fprintf(out, "Unique topics covered: %d (avg %.2f per class)\n",
				coverage.UniqueTopicsCovered, coverage.AvgTopicsPerClass)

			rows := make([][]string, 0, len(dashboard.TopicsOverview))
			questions := make(map[int64]int64, len(dashboard.QuestionsPerClass))
			for _, entry := range dashboard.QuestionsPerClass {
				questions[entry.ClassID] = entry.Questions
			}
			words := make(map[int64]int64, len(dashboard.TranscriptLength))
			for _, entry := range dashboard.TranscriptLength {
				words[entry.ClassID] = entry.WordCount
			}
			for _, entry := range dashboard.TopicsOverview {
				rows = append(rows, []string{
					strconv.FormatInt(entry.ClassID, 10),
					strconv.Itoa(entry.Topics),
					strconv.Itoa(entry.Subtopics),
					strconv.FormatInt(questions[entry.ClassID], 10),
					strconv.FormatInt(words[entry.ClassID], 10),
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Class", "Topics", "Subtopics", "Questions", "Words"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
				))
			}
			return nil
		},
	}
}

func newAnalyticsQuestionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Show captured questions per class",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				QuestionsPerClass []analytics.QuestionCount `json:"questions_per_class"`
			}
			if err := ctx.client().get(cmd.Context(), "/analytics/questions", &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			rows := make([][]string, 0, len(resp.QuestionsPerClass))
			for _, entry := range resp.QuestionsPerClass {
				rows = append(rows, []string{
					strconv.FormatInt(entry.ClassID, 10),
					strconv.FormatInt(entry.Questions, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Class", "Questions"},
				rows,
				[]columnAlignment{alignRight, alignRight},
			))
			return nil
		},
	}
}

func newAnalyticsTopicsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Show topic counts per class",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				TopicsOverview []analytics.TopicsOverview `json:"topics_overview"`
			}
			if err := ctx.client().get(cmd.Context(), "/analytics/topics", &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			rows := make([][]string, 0, len(resp.TopicsOverview))
			for _, entry := range resp.TopicsOverview {
				rows = append(rows, []string{
					strconv.FormatInt(entry.ClassID, 10),
					strconv.Itoa(entry.Topics),
					strconv.Itoa(entry.Subtopics),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Class", "Topics", "Subtopics"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}
