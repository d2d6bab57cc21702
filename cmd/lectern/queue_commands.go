package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/lectures"
)

type queueListResponse struct {
	Lectures []*lectures.Lecture `json:"lectures"`
	Count    int                 `json:"count"`
}

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the lecture queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lectures in the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				query.Set("status", trimmed)
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			path := "/admin/queue"
			if encoded := query.Encode(); encoded != "" {
				path += "?" + encoded
			}

			var resp queueListResponse
			if err := ctx.client().get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if resp.Count == 0 {
				fmt.Fprintln(out, "Queue is empty")
				return nil
			}
			rows := make([][]string, 0, len(resp.Lectures))
			for _, lecture := range resp.Lectures {
				progress := lecture.ProgressStage
				if lecture.ProgressPercent > 0 {
					progress = fmt.Sprintf("%s (%.0f%%)", progress, lecture.ProgressPercent)
				}
				rows = append(rows, []string{
					strconv.FormatInt(lecture.ID, 10),
					lecture.OriginalFilename,
					string(lecture.Status),
					progress,
					yesNo(lecture.NeedsReview),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "File", "Status", "Progress", "Review"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only list lectures in the given status")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of lectures to list")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one lecture in full detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLectureID(args[0])
			if err != nil {
				return err
			}
			var lecture lectures.Lecture
			if err := ctx.client().get(cmd.Context(), fmt.Sprintf("/admin/queue/%d", id), &lecture); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, lecture)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lecture #%d\n", lecture.ID)
			fmt.Fprintf(out, "  File:     %s\n", lecture.OriginalFilename)
			fmt.Fprintf(out, "  Status:   %s\n", lecture.Status)
			fmt.Fprintf(out, "  Created:  %s\n", lecture.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Updated:  %s\n", lecture.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			if lecture.ProgressStage != "" {
				fmt.Fprintf(out, "  Progress: %s %.0f%% %s\n",
					lecture.ProgressStage, lecture.ProgressPercent, lecture.ProgressMessage)
			}
			if lecture.NeedsReview {
				fmt.Fprintf(out, "  Review:   %s\n", lecture.ReviewReason)
			}
			if lecture.ErrorMessage != "" {
				fmt.Fprintf(out, "  Error:    %s\n", lecture.ErrorMessage)
			}
			fmt.Fprintf(out, "  Transcript: %s\n", presence(lecture.Transcript))
			fmt.Fprintf(out, "  Summary:    %s\n", presence(lecture.SummaryJSON))
			fmt.Fprintf(out, "  Topics:     %s\n", presence(lecture.TopicsJSON))
			fmt.Fprintf(out, "  Quiz:       %s\n", presence(lecture.QuizJSON))
			fmt.Fprintf(out, "  LDA topics: %s\n", presence(lecture.LDATopicsJSON))
			fmt.Fprintf(out, "  Notes:      %s\n", presence(lecture.NotesJSON))
			return nil
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id]",
		Short: "Requeue a failed lecture, or all failed lectures",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				id, err := parseLectureID(args[0])
				if err != nil {
					return err
				}
				var resp map[string]any
				if err := ctx.client().post(cmd.Context(), fmt.Sprintf("/admin/queue/%d/retry", id), &resp); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(out, "Lecture %d requeued\n", id)
				return nil
			}

			var resp struct {
				Retried int64 `json:"retried"`
			}
			if err := ctx.client().post(cmd.Context(), "/admin/queue/retry", &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(out, "Requeued %d lecture(s)\n", resp.Retried)
			return nil
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a finished lecture and its stored upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLectureID(args[0])
			if err != nil {
				return err
			}
			var resp map[string]any
			if err := ctx.client().delete(cmd.Context(), fmt.Sprintf("/admin/queue/%d", id), &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lecture %d removed\n", id)
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear finished lectures from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Scope   string `json:"scope"`
				Cleared int64  `json:"cleared"`
			}
			path := "/admin/queue/clear?scope=" + url.QueryEscape(scope)
			if err := ctx.client().post(cmd.Context(), path, &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d %s lecture(s)\n", resp.Cleared, resp.Scope)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "completed", "Which lectures to clear: completed, failed, or all")
	return cmd
}

func parseLectureID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid lecture id %q", raw)
	}
	return id, nil
}

func presence(value string) string {
	if strings.TrimSpace(value) == "" {
		return "absent"
	}
	return fmt.Sprintf("present (%d bytes)", len(value))
}
