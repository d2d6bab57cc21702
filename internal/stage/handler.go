package stage

import (
	"context"

	"lectern/internal/lectures"
)

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *lectures.Lecture) error
	Execute(context.Context, *lectures.Lecture) error
	HealthCheck(context.Context) Health
}
