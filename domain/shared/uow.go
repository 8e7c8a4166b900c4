package shared

import "context"

// UnitOfWork coordinates a business transaction: every repository call made
// inside fn shares one database transaction, and events pulled from the
// registered aggregates are written to the outbox before commit.
type UnitOfWork interface {
	// Execute runs fn inside a transaction. A non-nil error from fn rolls
	// everything back, including the outbox rows.
	Execute(ctx context.Context, fn func(ctx context.Context) error) error

	// RegisterNew marks a freshly created aggregate so its events are
	// drained into the outbox at commit time.
	RegisterNew(aggregate AggregateRoot)

	// RegisterDirty marks a loaded-and-mutated aggregate for event draining.
	RegisterDirty(aggregate AggregateRoot)
}

// UnitOfWorkFactory builds a fresh UnitOfWork per request so concurrent
// transactions never share aggregate registration state.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository stores domain events for asynchronous publication. Writes
// happen inside the business transaction so event and state commit together.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
