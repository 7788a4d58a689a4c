package entity

import (
	"errors"
	"testing"
	"time"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from    Status
		action  Action
		want    Status
		illegal bool
	}{
		{StatusReceived, ActionStart, StatusPreparing, false},
		{StatusReceived, ActionCancel, StatusCanceled, false},
		{StatusReceived, ActionFinish, StatusReceived, true},
		{StatusPreparing, ActionFinish, StatusReady, false},
		{StatusPreparing, ActionCancel, StatusCanceled, false},
		{StatusPreparing, ActionStart, StatusPreparing, true},
		{StatusReady, ActionStart, StatusReady, true},
		{StatusReady, ActionFinish, StatusReady, true},
		{StatusReady, ActionCancel, StatusReady, true},
		{StatusCanceled, ActionStart, StatusCanceled, true},
		{StatusCanceled, ActionCancel, StatusCanceled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.action)
			if tt.illegal {
				if !errors.Is(err, ErrIllegalTransition) {
					t.Fatalf("err = %v, want ErrIllegalTransition", err)
				}
			} else if err != nil {
				t.Fatalf("NextStatus: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	o := Order{ID: 1, Status: StatusReceived}

	if err := o.Finish(now, nil); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("finish before start err = %v", err)
	}
	if o.Status != StatusReceived {
		t.Fatalf("status changed to %s", o.Status)
	}

	if err := o.Start(now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if o.Status != StatusPreparing || !o.StartedAt.Equal(now) {
		t.Errorf("after start: %+v", o)
	}

	m := 9
	if err := o.Finish(now.Add(9*time.Minute), &m); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	m = 100
	if o.Status != StatusReady || *o.PreparationMinutes != 9 {
		t.Errorf("after finish: %+v", o)
	}
	if !o.Status.Terminal() {
		t.Error("READY should be terminal")
	}

	if err := o.Cancel("x"); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("cancel after ready err = %v", err)
	}
}

func TestOrderCancel(t *testing.T) {
	o := Order{Status: StatusPreparing, Note: "sem cebola"}
	if err := o.Cancel("Ingredientes insuficientes"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if o.Status != StatusCanceled || o.Note != "Ingredientes insuficientes" || o.CancelReason != o.Note {
		t.Errorf("after cancel: %+v", o)
	}
	if o.CanApply(ActionStart) || o.CanApply(ActionCancel) {
		t.Error("canceled order accepts actions")
	}
}

func TestReachable(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusReceived, StatusPreparing, true},
		{StatusReceived, StatusReady, true},
		{StatusReceived, StatusCanceled, true},
		{StatusPreparing, StatusReady, true},
		{StatusPreparing, StatusReceived, false},
		{StatusReceived, StatusReceived, false},
		{StatusReady, StatusPreparing, false},
		{StatusCanceled, StatusReady, false},
		{StatusReady, StatusCanceled, false},
	}
	for _, tt := range tests {
		if got := Reachable(tt.from, tt.to); got != tt.want {
			t.Errorf("Reachable(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
