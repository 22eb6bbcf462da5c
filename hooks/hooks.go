// Package hooks provides typed action and filter dispatchers. Handlers run in
// ascending priority order; handlers sharing a priority run in the order they
// were added.
package hooks

import (
	"context"
	"sort"
	"sync"
)

// DefaultPriority is the priority used by Add.
const DefaultPriority = 10

type entry[F any] struct {
	priority int
	seq      int
	fn       F
}

type list[F any] struct {
	mu      sync.RWMutex
	entries []entry[F]
	seq     int
}

func (l *list[F]) add(priority int, fn F) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.entries = append(l.entries, entry[F]{priority: priority, seq: l.seq, fn: fn})
	sort.SliceStable(l.entries, func(i, j int) bool {
		if l.entries[i].priority != l.entries[j].priority {
			return l.entries[i].priority < l.entries[j].priority
		}
		return l.entries[i].seq < l.entries[j].seq
	})
}

// snapshot copies the handlers so dispatch does not hold the lock while
// handlers run (a handler may add further handlers).
func (l *list[F]) snapshot() []F {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]F, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}

func (l *list[F]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// ActionFunc handles an event of type E.
type ActionFunc[E any] func(ctx context.Context, e E) error

// Action dispatches an event to every registered handler.
type Action[E any] struct {
	l list[ActionFunc[E]]
}

// Add registers fn at DefaultPriority.
func (a *Action[E]) Add(fn ActionFunc[E]) {
	a.l.add(DefaultPriority, fn)
}

// AddPriority registers fn at the given priority.
func (a *Action[E]) AddPriority(priority int, fn ActionFunc[E]) {
	a.l.add(priority, fn)
}

// Do runs every handler in order and stops at the first error.
func (a *Action[E]) Do(ctx context.Context, e E) error {
	for _, fn := range a.l.snapshot() {
		if err := fn(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of registered handlers.
func (a *Action[E]) Len() int {
	return a.l.len()
}

// FilterFunc transforms v in the context of event e.
type FilterFunc[V, E any] func(ctx context.Context, v V, e E) V

// Filter threads a value through every registered handler.
type Filter[V, E any] struct {
	l list[FilterFunc[V, E]]
}

// Add registers fn at DefaultPriority.
func (f *Filter[V, E]) Add(fn FilterFunc[V, E]) {
	f.l.add(DefaultPriority, fn)
}

// AddPriority registers fn at the given priority.
func (f *Filter[V, E]) AddPriority(priority int, fn FilterFunc[V, E]) {
	f.l.add(priority, fn)
}

// Apply passes v through each handler and returns the final value.
func (f *Filter[V, E]) Apply(ctx context.Context, v V, e E) V {
	for _, fn := range f.l.snapshot() {
		v = fn(ctx, v, e)
	}
	return v
}

// Len reports the number of registered handlers.
func (f *Filter[V, E]) Len() int {
	return f.l.len()
}
