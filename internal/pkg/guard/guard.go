// Package guard keeps a logical action from being triggered twice while its
// first request is still in flight.
package guard

import (
	"errors"
	"sync"
)

var ErrBusy = errors.New("action already in progress")

type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

// Acquire marks key as in flight. The returned release must be called on every
// exit path; calling it more than once is harmless.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, ErrBusy
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether key is in flight, so a view can render its control disabled.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[key]
	return busy
}
