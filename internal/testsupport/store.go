package testsupport

import (
	"context"
	"testing"

	"lectern/internal/config"
	"lectern/internal/lectures"
)

// MustOpenStore opens a lectures.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *lectures.Store {
	t.Helper()

	store, err := lectures.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("lectures.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewLecture inserts a pending lecture for tests using the provided store.
func NewLecture(t testing.TB, store *lectures.Store, sourcePath, originalFilename string) *lectures.Lecture {
	t.Helper()

	lecture, err := store.NewLecture(context.Background(), sourcePath, originalFilename)
	if err != nil {
		t.Fatalf("store.NewLecture: %v", err)
	}
	return lecture
}
