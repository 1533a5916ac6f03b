// Package checklist runs named steps strictly in order.
//
// Pipeline stages like "move the take, then fix the file names" have a
// hard ordering requirement but no scheduling: each step starts only
// after the previous one finished. The checklist makes that ordering
// explicit and records every step in the run log.
package checklist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step is one named unit of work.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// List is an ordered sequence of steps.
type List struct {
	name  string
	steps []Step
	log   *zap.Logger
}

// New returns an empty checklist. A nil logger disables logging.
func New(name string, log *zap.Logger) *List {
	if log == nil {
		log = zap.NewNop()
	}
	return &List{name: name, log: log}
}

// Add appends a step to the end of the list.
func (l *List) Add(name string, run func(ctx context.Context) error) {
	l.steps = append(l.steps, Step{Name: name, Run: run})
}

// Len reports the number of steps queued.
func (l *List) Len() int { return len(l.steps) }

// Run executes the steps in insertion order, stopping at the first
// failure or context cancellation. The list is drained as it runs.
func (l *List) Run(ctx context.Context) error {
	for len(l.steps) > 0 {
		step := l.steps[0]
		l.steps = l.steps[1:]

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("checklist %s: %w", l.name, err)
		}

		start := time.Now()
		if err := step.Run(ctx); err != nil {
			l.log.Error("step failed",
				zap.String("checklist", l.name),
				zap.String("step", step.Name),
				zap.Error(err))
			return fmt.Errorf("%s: %s: %w", l.name, step.Name, err)
		}
		l.log.Info("step done",
			zap.String("checklist", l.name),
			zap.String("step", step.Name),
			zap.Duration("took", time.Since(start)))
	}
	return nil
}
