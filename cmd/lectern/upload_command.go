package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/ingest"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <audio-file>",
		Short: "Upload a lecture recording for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			if !ingest.IsAudioFile(path) {
				return fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
			}

			var resp struct {
				LectureID int64  `json:"lecture_id"`
				Status    string `json:"status"`
			}
			if err := ctx.client().postFile(cmd.Context(), "/upload/", "file", path, &resp); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lecture %d queued (%s)\n", resp.LectureID, resp.Status)
			return nil
		},
	}
}

func newNotesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id>",
		Short: "Fetch the generated notes for a completed lecture",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one lecture id")
			}
			id, err := parseLectureID(args[0])
			if err != nil {
				return err
			}
			var notes any
			if err := ctx.client().get(cmd.Context(), fmt.Sprintf("/lecture/%d/notes", id), &notes); err != nil {
				return err
			}
			return writeJSON(cmd, notes)
		},
	}
}
