// Package dispatch maps action identifiers to handlers so a presentation layer
// can trigger client behaviour without reaching into its state.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Args are the string parameters an action was invoked with.
type Args map[string]string

func (a Args) String(key string) string {
	return strings.TrimSpace(a[key])
}

// Int parses key as an integer. Missing or malformed values are errors.
func (a Args) Int(key string) (int, error) {
	v := a.String(key)
	if v == "" {
		return 0, fmt.Errorf("%w: %q is required", ErrInvalidArgument, key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidArgument, key, err)
	}
	return n, nil
}

func (a Args) Int64(key string) (int64, error) {
	v := a.String(key)
	if v == "" {
		return 0, fmt.Errorf("%w: %q is required", ErrInvalidArgument, key)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidArgument, key, err)
	}
	return n, nil
}

// Handler runs one action and returns whatever the caller should render.
type Handler func(ctx context.Context, args Args) (any, error)

type Table struct {
	handlers map[string]Handler
}

func NewTable() *Table {
	return &Table{handlers: make(map[string]Handler)}
}

// Register binds name to h, replacing any previous binding.
func (t *Table) Register(name string, h Handler) {
	t.handlers[name] = h
}

func (t *Table) Dispatch(ctx context.Context, name string, args Args) (any, error) {
	h, ok := t.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if args == nil {
		args = Args{}
	}
	return h(ctx, args)
}

// Actions lists the registered names in lexical order.
func (t *Table) Actions() []string {
	names := make([]string, 0, len(t.handlers))
	for name := range t.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
