package stage

import (
	"errors"
	"testing"

	"lectern/internal/lectures"
	"lectern/internal/services"
)

func TestRequireTranscript_Present(t *testing.T) {
	lecture := &lectures.Lecture{Transcript: "  today we covered recursion  "}
	transcript, err := RequireTranscript(lecture, "analysis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transcript != "today we covered recursion" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
}

func TestRequireTranscript_Missing(t *testing.T) {
	lecture := &lectures.Lecture{Transcript: "   "}
	_, err := RequireTranscript(lecture, "analysis")
	if err == nil {
		t.Fatal("expected error for missing transcript")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
