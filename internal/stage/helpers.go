package stage

import (
	"strings"

	"lectern/internal/lectures"
	"lectern/internal/services"
)

// RequireTranscript returns the lecture transcript for stages that run after
// transcription. On a missing transcript it returns a services.ErrValidation
// suitable for stage Execute methods.
func RequireTranscript(lecture *lectures.Lecture, stageName string) (string, error) {
	transcript := strings.TrimSpace(lecture.Transcript)
	if transcript == "" {
		return "", services.Wrap(
			services.ErrValidation, stageName, "load transcript",
			"Transcript missing; rerun transcription", nil)
	}
	return transcript, nil
}
