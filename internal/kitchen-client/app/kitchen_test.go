package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/apierr"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/dispatch"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/guard"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// fakeKitchen keeps its own queue and records every call.
type fakeKitchen struct {
	mu        sync.Mutex
	queue     []entity.Order
	calls     []string
	finishArg int
	cancelArg string
	confirmed *int
	err       error
	queueErr  error
	block     chan struct{}
}

func (f *fakeKitchen) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeKitchen) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeKitchen) Queue(context.Context) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queueErr != nil {
		return nil, f.queueErr
	}
	return append([]entity.Order(nil), f.queue...), nil
}

func (f *fakeKitchen) Start(_ context.Context, id int64) error {
	if f.block != nil {
		<-f.block
	}
	f.record("start")
	return f.err
}

func (f *fakeKitchen) Finish(_ context.Context, id int64, minutes int) (*int, error) {
	f.record("finish")
	f.mu.Lock()
	f.finishArg = minutes
	f.mu.Unlock()
	return f.confirmed, f.err
}

func (f *fakeKitchen) Cancel(_ context.Context, id int64, reason string) error {
	f.record("cancel")
	f.mu.Lock()
	f.cancelArg = reason
	f.mu.Unlock()
	return f.err
}

type fakeInventory struct {
	mu       sync.Mutex
	stock    []entity.IngredientStock
	calls    int
	err      error
	stockErr error
	// delay holds Stock back, honouring ctx, before it answers.
	delay time.Duration
}

func (f *fakeInventory) Stock(ctx context.Context) ([]entity.IngredientStock, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stockErr != nil {
		return nil, f.stockErr
	}
	return append([]entity.IngredientStock(nil), f.stock...), nil
}

func (f *fakeInventory) Replenish(context.Context, string, int, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func newKitchen(k *fakeKitchen, inv *fakeInventory, orders ...entity.Order) *Kitchen {
	kit := NewKitchen(NewBoard(), k, inv, WithClock(func() time.Time { return t0 }))
	kit.Board().ApplyOrders(orders, t0)
	return kit
}

func TestStart(t *testing.T) {
	fk := &fakeKitchen{queueErr: errors.New("offline")}
	k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusReceived})

	res, err := k.Start(context.Background(), 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !res.Applied || res.Status != entity.StatusPreparing {
		t.Errorf("result = %+v", res)
	}
	o, _ := k.Board().Find(1)
	if o.Status != entity.StatusPreparing || o.StartedAt == nil || !o.StartedAt.Equal(t0) {
		t.Errorf("local order = %+v", o)
	}
}

func TestTransitions_RejectedFromIllegalStates(t *testing.T) {
	tests := []struct {
		name   string
		status entity.Status
		run    func(*Kitchen) (ActionResult, error)
	}{
		{"start canceled", entity.StatusCanceled, func(k *Kitchen) (ActionResult, error) { return k.Start(context.Background(), 1) }},
		{"start ready", entity.StatusReady, func(k *Kitchen) (ActionResult, error) { return k.Start(context.Background(), 1) }},
		{"finish received", entity.StatusReceived, func(k *Kitchen) (ActionResult, error) { return k.Finish(context.Background(), 1) }},
		{"cancel ready", entity.StatusReady, func(k *Kitchen) (ActionResult, error) { return k.Cancel(context.Background(), 1, "") }},
		{"cancel canceled", entity.StatusCanceled, func(k *Kitchen) (ActionResult, error) { return k.Cancel(context.Background(), 1, "") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fk := &fakeKitchen{}
			k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: tt.status})

			res, err := tt.run(k)
			if !errors.Is(err, entity.ErrIllegalTransition) {
				t.Fatalf("err = %v, want ErrIllegalTransition", err)
			}
			if res.Applied {
				t.Error("rejected action reported as applied")
			}
			if len(fk.Calls()) != 0 {
				t.Errorf("requests sent: %v", fk.Calls())
			}
			if o, _ := k.Board().Find(1); o.Status != tt.status {
				t.Errorf("status changed to %s", o.Status)
			}
		})
	}
}

func TestActions_MissingOrderIsNoop(t *testing.T) {
	fk := &fakeKitchen{}
	k := newKitchen(fk, &fakeInventory{})

	for _, run := range []func() (ActionResult, error){
		func() (ActionResult, error) { return k.Start(context.Background(), 9) },
		func() (ActionResult, error) { return k.Finish(context.Background(), 9) },
		func() (ActionResult, error) { return k.Cancel(context.Background(), 9, "x") },
	} {
		res, err := run()
		if err != nil || res.Applied {
			t.Errorf("result = %+v, %v; want not applied, nil", res, err)
		}
	}
	if len(fk.Calls()) != 0 {
		t.Errorf("requests sent: %v", fk.Calls())
	}
}

func TestFinish_EstimateAndConfirmed(t *testing.T) {
	started := t0.Add(-7*time.Minute - 30*time.Second)

	t.Run("server confirms", func(t *testing.T) {
		fk := &fakeKitchen{confirmed: ptr(8), queueErr: errors.New("offline")}
		k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusPreparing, StartedAt: &started})

		res, err := k.Finish(context.Background(), 1)
		if err != nil {
			t.Fatalf("Finish: %v", err)
		}
		if fk.finishArg != 7 {
			t.Errorf("hint sent = %d, want 7", fk.finishArg)
		}
		if res.Time.EstimatedMinutes != 7 || *res.Time.ConfirmedMinutes != 8 || res.Time.Display() != 8 {
			t.Errorf("time = %+v", res.Time)
		}
		o, _ := k.Board().Find(1)
		if o.Status != entity.StatusReady || *o.PreparationMinutes != 8 || o.CompletedAt == nil {
			t.Errorf("local order = %+v", o)
		}
	})

	t.Run("server silent", func(t *testing.T) {
		fk := &fakeKitchen{queueErr: errors.New("offline")}
		just := t0
		k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusPreparing, StartedAt: &just})

		res, err := k.Finish(context.Background(), 1)
		if err != nil {
			t.Fatalf("Finish: %v", err)
		}
		if res.Time.ConfirmedMinutes != nil || res.Time.Display() != 1 {
			t.Errorf("time = %+v", res.Time)
		}
	})

	t.Run("cook override", func(t *testing.T) {
		fk := &fakeKitchen{queueErr: errors.New("offline")}
		k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusPreparing, StartedAt: &started})

		if _, err := k.FinishWithMinutes(context.Background(), 1, 0); !apierr.IsValidation(err) {
			t.Fatalf("zero minutes err = %v", err)
		}
		if _, err := k.FinishWithMinutes(context.Background(), 1, 12); err != nil {
			t.Fatalf("FinishWithMinutes: %v", err)
		}
		if fk.finishArg != 12 {
			t.Errorf("hint sent = %d, want 12", fk.finishArg)
		}
	})
}

func TestCancel_DefaultReason(t *testing.T) {
	fk := &fakeKitchen{queueErr: errors.New("offline")}
	k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusReceived})

	if _, err := k.Cancel(context.Background(), 1, "  "); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if fk.cancelArg != DefaultCancelReason {
		t.Errorf("reason = %q", fk.cancelArg)
	}
	o, _ := k.Board().Find(1)
	if o.Status != entity.StatusCanceled || o.Note != DefaultCancelReason || o.CancelReason != DefaultCancelReason {
		t.Errorf("local order = %+v", o)
	}
}

func TestRemoteRejectionLeavesStateAlone(t *testing.T) {
	fk := &fakeKitchen{err: &apierr.RemoteRejection{StatusCode: 400, Message: "Pedido já está com status: PREPARANDO"}}
	k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusReceived})

	_, err := k.Start(context.Background(), 1)
	if apierr.Reason(err, "") != "Pedido já está com status: PREPARANDO" {
		t.Errorf("err = %v", err)
	}
	if o, _ := k.Board().Find(1); o.Status != entity.StatusReceived {
		t.Errorf("status = %s", o.Status)
	}
	if k.Busy(1) {
		t.Error("guard not released after failure")
	}
}

func TestActionIsGuarded(t *testing.T) {
	fk := &fakeKitchen{block: make(chan struct{}), queueErr: errors.New("offline")}
	k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusReceived})

	done := make(chan struct{})
	go func() {
		defer close(done)
		k.Start(context.Background(), 1)
	}()

	deadline := time.Now().Add(time.Second)
	for !k.Busy(1) {
		if time.Now().After(deadline) {
			t.Fatal("first start never began")
		}
		time.Sleep(time.Millisecond)
	}
	if _, err := k.Start(context.Background(), 1); !errors.Is(err, guard.ErrBusy) {
		t.Errorf("second start err = %v, want ErrBusy", err)
	}
	close(fk.block)
	<-done
}

func TestSelectionSurvivesRefresh(t *testing.T) {
	fk := &fakeKitchen{}
	k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, ClientName: "Ana", Status: entity.StatusReceived})

	if _, ok := k.Board().Open(1, entity.ActionStart, t0); !ok {
		t.Fatal("Open failed")
	}

	// a poll replaces the snapshot with one where the order changed
	k.Board().ApplyOrders([]entity.Order{{ID: 1, ClientName: "Renamed", Status: entity.StatusReceived}}, t0)

	sel, ok := k.Board().Selected()
	if !ok || sel.Order.ClientName != "Ana" {
		t.Errorf("selection = %+v", sel)
	}

	fk.queue = []entity.Order{{ID: 1, Status: entity.StatusPreparing}}
	res, err := k.ConfirmSelection(context.Background(), "", 0)
	if err != nil || !res.Applied {
		t.Fatalf("ConfirmSelection = %+v, %v", res, err)
	}
	if _, ok := k.Board().Selected(); ok {
		t.Error("selection not closed after confirm")
	}
	if _, err := k.ConfirmSelection(context.Background(), "", 0); !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
}

func TestReplenish(t *testing.T) {
	inv := &fakeInventory{stock: []entity.IngredientStock{{Name: "Pão", Quantity: 10}}, stockErr: errors.New("offline")}
	k := newKitchen(&fakeKitchen{}, inv)
	k.Board().ApplyStock(inv.stock, t0)

	for _, delta := range []int{0, -3} {
		if _, err := k.Replenish(context.Background(), "Pão", delta, ""); !apierr.IsValidation(err) {
			t.Errorf("delta %d err = %v, want validation", delta, err)
		}
	}
	if inv.calls != 0 {
		t.Fatalf("requests sent for invalid delta: %d", inv.calls)
	}

	got, err := k.Replenish(context.Background(), "Pão", 5, "")
	if err != nil {
		t.Fatalf("Replenish: %v", err)
	}
	if got.Quantity != 15 || inv.calls != 1 {
		t.Errorf("got %+v after %d calls", got, inv.calls)
	}
	if s := k.Board().Stock(); s[0].Quantity != 15 {
		t.Errorf("board stock = %+v", s)
	}
}

func TestRefresh_PartialFailureStillApplies(t *testing.T) {
	fk := &fakeKitchen{queue: []entity.Order{{ID: 4, Status: entity.StatusReceived}}}
	inv := &fakeInventory{stockErr: errors.New("estoque offline")}
	k := newKitchen(fk, inv)

	if err := k.Refresh(context.Background()); err == nil {
		t.Fatal("expected stock error")
	}
	if k.Board().Orders().Len() != 1 {
		t.Error("orders snapshot not applied")
	}
}

func TestRefresh_QueueFailureDoesNotAbortStock(t *testing.T) {
	fk := &fakeKitchen{queueErr: &apierr.RemoteRejection{StatusCode: 500, Message: "fila offline"}}
	inv := &fakeInventory{
		stock: []entity.IngredientStock{{Name: "Pão", Quantity: 3}},
		delay: 50 * time.Millisecond,
	}
	k := newKitchen(fk, inv)

	err := k.Refresh(context.Background())
	var rej *apierr.RemoteRejection
	if !errors.As(err, &rej) {
		t.Fatalf("err = %v, want the queue rejection", err)
	}
	if got := len(k.Board().Stock()); got != 1 {
		t.Errorf("stock rows applied = %d, want 1", got)
	}
}

func TestRefresh_BothFailuresReported(t *testing.T) {
	queueErr := errors.New("fila offline")
	stockErr := errors.New("estoque offline")
	k := newKitchen(&fakeKitchen{queueErr: queueErr}, &fakeInventory{stockErr: stockErr})

	err := k.Refresh(context.Background())
	if !errors.Is(err, queueErr) || !errors.Is(err, stockErr) {
		t.Errorf("err = %v, want both failures", err)
	}
}

func TestPoll_StopsWithContext(t *testing.T) {
	fk := &fakeKitchen{queue: []entity.Order{{ID: 1, Status: entity.StatusReceived}}}
	k := newKitchen(fk, &fakeInventory{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- k.Poll(ctx, 5*time.Millisecond) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Poll = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	if k.Board().Orders().Len() != 1 {
		t.Error("poll never applied a snapshot")
	}
}

func TestView(t *testing.T) {
	started := t0.Add(-3 * time.Minute)
	k := newKitchen(&fakeKitchen{}, &fakeInventory{},
		entity.Order{ID: 1, Status: entity.StatusReceived},
		entity.Order{ID: 2, Status: entity.StatusPreparing, StartedAt: &started},
		entity.Order{ID: 3, Status: entity.StatusReady, PreparationMinutes: ptr(9)},
		entity.Order{ID: 4, Status: entity.StatusCanceled},
	)
	k.Board().ApplyStock([]entity.IngredientStock{
		{Name: "Pão", Quantity: 0},
		{Name: "Queijo", Quantity: 5},
		{Name: "Carne", Quantity: 11, Minimum: ptr(10), Unit: "kg"},
	}, t0)

	v := k.View(10)
	if v.Counts != (CountsView{Received: 1, Preparing: 1, Ready: 1, Canceled: 1}) {
		t.Errorf("counts = %+v", v.Counts)
	}
	if len(v.Orders) != 3 || v.Orders[0].ID != 3 || v.Orders[2].ID != 1 {
		t.Errorf("default view orders = %+v", v.Orders)
	}
	if m := v.Orders[1].Minutes; m == nil || *m != 3 || v.Orders[1].Confirmed {
		t.Errorf("preparing minutes = %+v", v.Orders[1])
	}
	if !v.Orders[0].Confirmed || *v.Orders[0].Minutes != 9 {
		t.Errorf("ready minutes = %+v", v.Orders[0])
	}
	if acts := v.Orders[2].Actions; len(acts) != 2 || acts[0] != "iniciar" || acts[1] != "cancelar" {
		t.Errorf("received actions = %v", acts)
	}

	wantStock := []struct{ health, class, unit string }{
		{"Esgotado", "status-critico", "unidade"},
		{"Baixo", "status-baixo", "unidade"},
		{"OK", "status-ok", "kg"},
	}
	for i, w := range wantStock {
		s := v.Stock[i]
		if s.Health != w.health || s.Class != w.class || s.Unit != w.unit {
			t.Errorf("stock %d = %+v", i, s)
		}
	}

	k.Board().SetFilter(entity.FilterAll)
	if v := k.View(10); len(v.Orders) != 4 {
		t.Errorf("todos shows %d orders, want 4", len(v.Orders))
	}
}

func TestView_StockTimeAndSelectionAge(t *testing.T) {
	k := newKitchen(&fakeKitchen{}, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusReceived})
	if v := k.View(10); v.StockFetchedAt != "" || v.Selection != nil {
		t.Fatalf("empty board view = %+v", v)
	}

	stockAt := t0.Add(-time.Minute)
	k.Board().ApplyStock([]entity.IngredientStock{{Name: "Pão", Quantity: 4}}, stockAt)
	if _, ok := k.Board().Open(1, entity.ActionCancel, t0.Add(-45*time.Second)); !ok {
		t.Fatal("Open did not find order 1")
	}

	v := k.View(10)
	if v.StockFetchedAt != stockAt.Format(time.RFC3339) {
		t.Errorf("stock fetched at = %q", v.StockFetchedAt)
	}
	if v.StockFetchedAt == v.FetchedAt {
		t.Errorf("stock time should not follow the order snapshot time")
	}
	if v.Selection == nil || v.Selection.AgeSeconds != 45 || v.Selection.Action != "cancelar" {
		t.Errorf("selection = %+v", v.Selection)
	}
}

func TestCommands(t *testing.T) {
	fk := &fakeKitchen{queueErr: errors.New("offline")}
	k := newKitchen(fk, &fakeInventory{}, entity.Order{ID: 1, Status: entity.StatusReceived})
	cmds := k.Commands(10)
	ctx := context.Background()

	if _, err := cmds.Dispatch(ctx, "iniciar", dispatch.Args{"id": "abc"}); err == nil {
		t.Error("expected argument error")
	}
	res, err := cmds.Dispatch(ctx, "iniciar", dispatch.Args{"id": "1"})
	if err != nil {
		t.Fatalf("iniciar: %v", err)
	}
	if r := res.(ActionResult); !r.Applied {
		t.Errorf("result = %+v", r)
	}
	if _, err := cmds.Dispatch(ctx, "finalizar", dispatch.Args{"id": "1", "tempo": "6"}); err != nil {
		t.Fatalf("finalizar: %v", err)
	}
	if fk.finishArg != 6 {
		t.Errorf("tempo sent = %d", fk.finishArg)
	}
	if _, err := cmds.Dispatch(ctx, "repor", dispatch.Args{"ingrediente": "Pão", "quantidade": "0"}); !apierr.IsValidation(err) {
		t.Errorf("repor 0 err = %v", err)
	}
}
