package guard

import (
	"errors"
	"sync"
	"testing"
)

func TestGuard(t *testing.T) {
	g := New()

	release, err := g.Acquire("fazer_pedido")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !g.Busy("fazer_pedido") {
		t.Error("key should be busy")
	}
	if _, err := g.Acquire("fazer_pedido"); !errors.Is(err, ErrBusy) {
		t.Errorf("second Acquire err = %v, want ErrBusy", err)
	}
	if _, err := g.Acquire("pedido:1"); err != nil {
		t.Errorf("other key blocked: %v", err)
	}

	release()
	release()
	if g.Busy("fazer_pedido") {
		t.Error("key still busy after release")
	}

	again, err := g.Acquire("fazer_pedido")
	if err != nil {
		t.Fatalf("re-Acquire: %v", err)
	}
	// the stale release must not free the new holder
	release()
	if !g.Busy("fazer_pedido") {
		t.Error("stale release freed the new holder")
	}
	again()
}

func TestGuard_OneWinnerUnderContention(t *testing.T) {
	g := New()
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := g.Acquire("k"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()
	if wins != 1 {
		t.Errorf("%d goroutines acquired the key, want 1", wins)
	}
}
