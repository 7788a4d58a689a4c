package entity

import (
	"errors"
	"fmt"
	"time"
)

// Action is a kitchen command that moves an order through its lifecycle.
type Action string

const (
	ActionStart  Action = "iniciar"
	ActionFinish Action = "finalizar"
	ActionCancel Action = "cancelar"
)

var ErrIllegalTransition = errors.New("illegal order transition")

// transitions lists every legal move. Terminal states have no entry.
var transitions = map[Status]map[Action]Status{
	StatusReceived: {
		ActionStart:  StatusPreparing,
		ActionCancel: StatusCanceled,
	},
	StatusPreparing: {
		ActionFinish: StatusReady,
		ActionCancel: StatusCanceled,
	},
}

// NextStatus returns the state reached by applying a to an order in from.
func NextStatus(from Status, a Action) (Status, error) {
	to, ok := transitions[from][a]
	if !ok {
		return from, fmt.Errorf("%w: %s from %s", ErrIllegalTransition, a, from)
	}
	return to, nil
}

// Reachable reports whether some sequence of legal moves leads from one
// status to a different one. Nothing is reachable from a terminal status.
func Reachable(from, to Status) bool {
	seen := map[Status]bool{from: true}
	queue := []Status{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range transitions[cur] {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// CanApply reports whether a is legal from the order's current status.
func (o Order) CanApply(a Action) bool {
	_, err := NextStatus(o.Status, a)
	return err == nil
}

// Start moves a received order into preparation.
func (o *Order) Start(at time.Time) error {
	to, err := NextStatus(o.Status, ActionStart)
	if err != nil {
		return err
	}
	o.Status = to
	o.StartedAt = &at
	return nil
}

// Finish marks a preparing order ready. confirmedMinutes is the server's value,
// nil when the server did not report one.
func (o *Order) Finish(at time.Time, confirmedMinutes *int) error {
	to, err := NextStatus(o.Status, ActionFinish)
	if err != nil {
		return err
	}
	o.Status = to
	o.CompletedAt = &at
	if confirmedMinutes != nil {
		m := *confirmedMinutes
		o.PreparationMinutes = &m
	}
	return nil
}

// Cancel aborts a received or preparing order. The reason is also shown as the note.
func (o *Order) Cancel(reason string) error {
	to, err := NextStatus(o.Status, ActionCancel)
	if err != nil {
		return err
	}
	o.Status = to
	o.CancelReason = reason
	o.Note = reason
	return nil
}
