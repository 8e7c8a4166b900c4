package shared

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Command is the envelope every mutating request implements. The concrete
// command embeds BaseCommand and supplies its own Validate.
type Command interface {
	// CommandName identifies the command type for handler routing.
	CommandName() string

	// GetAggregateID returns the identity of the aggregate the command
	// targets.
	GetAggregateID() string

	// IsValid runs the command's validator, stores the outcome in the
	// envelope and reports it.
	IsValid() bool

	// Validation returns the stored outcome of the last IsValid call.
	Validation() *ValidationResult
}

// Validatable is the capability a concrete command provides; the envelope
// calls it from IsValid and stores the result.
type Validatable interface {
	Validate() *ValidationResult
}

// BaseCommand is the single command envelope: aggregate identity (set once),
// UTC creation timestamp (set once, at construction) and the stored
// validation outcome.
type BaseCommand struct {
	aggregateID string
	timestamp   time.Time
	validation  *ValidationResult
}

// NewBaseCommand stamps the envelope with the current UTC time.
func NewBaseCommand(aggregateID string) BaseCommand {
	return BaseCommand{
		aggregateID: aggregateID,
		timestamp:   time.Now().UTC(),
	}
}

func (c *BaseCommand) GetAggregateID() string { return c.aggregateID }
func (c *BaseCommand) Timestamp() time.Time   { return c.timestamp }

// SetAggregateID fills the identity when it only becomes known after
// construction (e.g. looked up by natural key). It is set-once: a non-empty
// identity is never overwritten.
func (c *BaseCommand) SetAggregateID(id string) {
	if c.aggregateID == "" {
		c.aggregateID = id
	}
}

// Validation returns the stored outcome; empty (valid) when IsValid was
// never called.
func (c *BaseCommand) Validation() *ValidationResult {
	if c.validation == nil {
		return NewValidationResult()
	}
	return c.validation
}

// storeValidation is called by RunValidation below.
func (c *BaseCommand) storeValidation(v *ValidationResult) {
	c.validation = v
}

// RunValidation executes the command's own validator and stores the outcome
// in its envelope. Concrete commands implement IsValid as a one-liner over
// this.
func RunValidation(cmd Validatable, base *BaseCommand) bool {
	v := cmd.Validate()
	if v == nil {
		v = NewValidationResult()
	}
	base.storeValidation(v)
	return v.IsValid()
}

// CommandHandler executes one command type. The notification context is the
// request-scoped channel for every business-rule violation found on the way.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command, notifications *NotificationContext) (CommandResult, error)
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc func(ctx context.Context, cmd Command, notifications *NotificationContext) (CommandResult, error)

func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command, notifications *NotificationContext) (CommandResult, error) {
	return f(ctx, cmd, notifications)
}

// CommandBus routes each command to its single registered handler and owns
// the lifetime of the per-request NotificationContext. It is safe for
// concurrent dispatch; every dispatch gets its own context, so concurrent
// requests never observe each other's notifications.
type CommandBus struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
}

// NewCommandBus creates an empty bus.
func NewCommandBus() *CommandBus {
	return &CommandBus{handlers: make(map[string]CommandHandler)}
}

// Register binds a handler to a command name. Exactly one handler per
// command; a second registration is a programming error.
func (b *CommandBus) Register(commandName string, handler CommandHandler) error {
	if commandName == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("command handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.handlers[commandName]; exists {
		return fmt.Errorf("handler already registered for command %s", commandName)
	}
	b.handlers[commandName] = handler
	return nil
}

// Dispatch hands the command to its handler with a fresh NotificationContext
// and returns the handler's result together with that context. A missing
// handler is a structural failure reported as an error, never as a domain
// notification.
func (b *CommandBus) Dispatch(ctx context.Context, cmd Command) (CommandResult, *NotificationContext, error) {
	b.mu.RLock()
	handler, exists := b.handlers[cmd.CommandName()]
	b.mu.RUnlock()

	if !exists {
		return CommandResult{}, nil, fmt.Errorf("no handler registered for command %s", cmd.CommandName())
	}

	notifications := NewNotificationContext()
	result, err := handler.Handle(ctx, cmd, notifications)
	return result, notifications, err
}
