package shared

// AggregateRoot is the entry point of an aggregate. It owns the consistency
// boundary: all modifications to child entities go through it, and it records
// the domain events raised by those modifications.
type AggregateRoot interface {
	// ID returns the globally unique identity of the aggregate root.
	ID() string

	// PullEvents returns and clears the domain events recorded since the
	// aggregate was created or loaded. The Unit of Work calls this inside the
	// transaction to hand the events to the outbox.
	PullEvents() []DomainEvent
}

// Entity has identity; two entities with equal attributes but different IDs
// are different entities.
type Entity interface {
	ID() string
}

// ValueObject has no identity of its own. It is immutable once constructed
// and compared by attribute equality; "updating" one means replacing it
// wholesale. Go cannot enforce immutability, so this is held by convention:
// value objects expose no mutating methods.
type ValueObject interface {
	Equals(other interface{}) bool
}
