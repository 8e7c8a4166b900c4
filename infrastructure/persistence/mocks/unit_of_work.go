package mocks

import (
	"context"
	"sync"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
)

// MockUnitOfWorkFactory issues one MockUnitOfWork per request, like the real
// factory. Events drained by every issued instance are collected here so
// tests can assert on them after the fact.
type MockUnitOfWorkFactory struct {
	mu      sync.Mutex
	drained []shared.DomainEvent
}

// NewMockUnitOfWorkFactory creates a new MockUnitOfWorkFactory instance
func NewMockUnitOfWorkFactory() *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{}
}

// New returns a fresh MockUnitOfWork wired back to this factory's sink.
func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return &MockUnitOfWork{sink: f}
}

// DrainedEvents returns every event collected across all issued units of
// work, in commit order.
func (f *MockUnitOfWorkFactory) DrainedEvents() []shared.DomainEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]shared.DomainEvent, len(f.drained))
	copy(out, f.drained)
	return out
}

func (f *MockUnitOfWorkFactory) collect(events []shared.DomainEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drained = append(f.drained, events...)
}

// MockUnitOfWork is a transaction-less UnitOfWork for testing. It still
// drains events from registered aggregates so tests can assert on them.
// Like the real one it holds per-request state and must not be shared
// across requests.
type MockUnitOfWork struct {
	aggregates []shared.AggregateRoot
	drained    []shared.DomainEvent
	sink       *MockUnitOfWorkFactory
}

// NewMockUnitOfWork creates a new MockUnitOfWork instance
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		aggregates: make([]shared.AggregateRoot, 0),
	}
}

// Execute runs the business logic without real transaction management and
// collects events from registered aggregates afterwards.
func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	if err := fn(ctx); err != nil {
		return err
	}

	var events []shared.DomainEvent
	for _, agg := range u.aggregates {
		events = append(events, agg.PullEvents()...)
	}
	u.drained = append(u.drained, events...)
	if u.sink != nil {
		u.sink.collect(events)
	}
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// DrainedEvents returns every event this instance collected, in commit order.
func (u *MockUnitOfWork) DrainedEvents() []shared.DomainEvent {
	out := make([]shared.DomainEvent, len(u.drained))
	copy(out, u.drained)
	return out
}

// Compile-time checks.
var (
	_ shared.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
)
