package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainNotification is a non-exception record of a business-rule violation.
// It is data, not an error: publishing one never aborts control flow by
// itself. Each notification gets a unique ID at construction.
type DomainNotification struct {
	id          string
	aggregateID string
	key         string // category, typically the aggregate type name
	message     string
	timestamp   time.Time
}

// NewDomainNotification builds a notification stamped with the current UTC
// time. uuid.NewString never fails for v4, so construction cannot error.
func NewDomainNotification(aggregateID, key, message string) DomainNotification {
	return DomainNotification{
		id:          uuid.NewString(),
		aggregateID: aggregateID,
		key:         key,
		message:     message,
		timestamp:   time.Now().UTC(),
	}
}

func (n DomainNotification) ID() string           { return n.id }
func (n DomainNotification) AggregateID() string  { return n.aggregateID }
func (n DomainNotification) Key() string          { return n.key }
func (n DomainNotification) Message() string      { return n.message }
func (n DomainNotification) Timestamp() time.Time { return n.timestamp }

// CommandResult merges the structural validation outcome with the mutation
// outcome. A recoverable failure is reported here (Success=false plus the
// request's notifications); only unexpected failures travel as errors.
type CommandResult struct {
	Success    bool
	Payload    interface{}
	Validation *ValidationResult
}

// NewCommandResult derives a result from a validation outcome.
func NewCommandResult(validation *ValidationResult) CommandResult {
	return CommandResult{
		Success:    validation.IsValid(),
		Validation: validation,
	}
}

// SucceededWith marks the result successful and attaches the handler's
// payload.
func (r CommandResult) SucceededWith(payload interface{}) CommandResult {
	r.Success = true
	r.Payload = payload
	return r
}

// Failed marks the result unsuccessful without touching the validation
// outcome (used when an aggregate invariant, not input shape, rejected the
// operation).
func (r CommandResult) Failed() CommandResult {
	r.Success = false
	return r
}
