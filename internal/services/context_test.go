package services_test

import (
	"context"
	"testing"

	"lectern/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithLectureID(ctx, 42)
	ctx = services.WithStage(ctx, "model")
	ctx = services.WithLane(ctx, "enrichment")
	ctx = services.WithRequestID(ctx, "req-1")

	if id, ok := services.LectureIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("lecture id = %d ok=%v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "model" {
		t.Fatalf("stage = %q ok=%v", stage, ok)
	}
	if lane, ok := services.LaneFromContext(ctx); !ok || lane != "enrichment" {
		t.Fatalf("lane = %q ok=%v", lane, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-1" {
		t.Fatalf("request id = %q ok=%v", rid, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage for empty value")
	}
	if _, ok := services.LectureIDFromContext(context.Background()); ok {
		t.Fatal("expected no lecture id on fresh context")
	}
}
