package pipeline

import (
	"time"

	"github.com/shopcheck/credo/internal/models"
)

// trace accumulates one step per pipeline stage, in execution order. Steps
// are immutable once appended.
type trace struct {
	steps []models.TraceStep
}

// run executes a stage, recording its wall-clock duration and outcome. The
// stage error is returned unchanged so the caller can short-circuit; the
// detail field is populated only on failure.
func (t *trace) run(name string, fn func() error) error {
	start := time.Now()
	err := fn()

	step := models.TraceStep{
		Name:       name,
		Status:     models.StepDone,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		step.Status = models.StepFailed
		step.Detail = err.Error()
	}
	t.steps = append(t.steps, step)
	return err
}
