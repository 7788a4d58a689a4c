package coordinator

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog"
)

// Step is a single unit of work in a submission round.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// orderIdentified is implemented by steps that know the id they created.
type orderIdentified interface {
	OrderID() int64
}

// Result is the outcome of one step, in the position the step was given.
type Result struct {
	Step Step
	Err  error
}

// Orchestrator runs steps one after another and keeps going when one fails.
// Nothing already done is undone.
type Orchestrator struct {
	roundID    string
	clientName string
	steps      []Step
	repo       roundlog.Repository
}

// NewOrchestrator builds a round. repo may be nil, in which case nothing is recorded.
func NewOrchestrator(roundID, clientName string, steps []Step, repo roundlog.Repository) *Orchestrator {
	return &Orchestrator{
		roundID:    roundID,
		clientName: clientName,
		steps:      steps,
		repo:       repo,
	}
}

// Run executes every step in order and returns one result per step. Once ctx
// is done the remaining steps are not executed and carry ctx.Err().
func (o *Orchestrator) Run(ctx context.Context) []Result {
	o.record(ctx, roundlog.NewEntry(ctx, o.roundID, roundlog.StatusStarted, o.clientName, "", 0, nil))

	results := make([]Result, 0, len(o.steps))
	succeeded := 0
	for _, step := range o.steps {
		err := ctx.Err()
		if err == nil {
			slog.DebugContext(ctx, "executing step", "round_id", o.roundID, "step", step.Name())
			err = step.Execute(ctx)
		}
		results = append(results, Result{Step: step, Err: err})

		if err != nil {
			slog.WarnContext(ctx, "step failed", "round_id", o.roundID, "step", step.Name(), "error", err)
			o.record(ctx, roundlog.NewEntry(ctx, o.roundID, roundlog.StatusUnitFailed, o.clientName, step.Name(), 0, []string{err.Error()}))
			continue
		}

		succeeded++
		var id int64
		if s, ok := step.(orderIdentified); ok {
			id = s.OrderID()
		}
		o.record(ctx, roundlog.NewEntry(ctx, o.roundID, roundlog.StatusUnitCreated, o.clientName, step.Name(), id, nil))
	}

	final := roundlog.StatusCompleted
	if succeeded == 0 {
		final = roundlog.StatusFailed
	}
	o.record(context.WithoutCancel(ctx), roundlog.NewEntry(ctx, o.roundID, final, o.clientName, "", 0, nil))

	slog.InfoContext(ctx, "round finished",
		"round_id", o.roundID,
		"steps", len(o.steps),
		"succeeded", succeeded,
	)
	return results
}

// record never fails the round; a broken audit log only costs a warning.
func (o *Orchestrator) record(ctx context.Context, entry *roundlog.Entry) {
	if o.repo == nil {
		return
	}
	if err := o.repo.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to save round log", "round_id", o.roundID, "status", entry.Status, "error", err)
	}
}
