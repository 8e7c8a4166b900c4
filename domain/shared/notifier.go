package shared

import (
	"fmt"
	"sync"
)

// NotificationHandler consumes domain notifications as they are published.
type NotificationHandler interface {
	HandleNotification(n DomainNotification)
}

// NotificationHandlerFunc adapts a function to NotificationHandler.
type NotificationHandlerFunc func(n DomainNotification)

func (f NotificationHandlerFunc) HandleNotification(n DomainNotification) { f(n) }

// NotificationContext is the request-scoped channel for business-rule
// violations. One instance exists per inbound request and is owned by the
// command dispatcher; two concurrent requests never share one, so
// notifications cannot leak between requests.
//
// Delivery contract: Publish is synchronous and ordered. A handler that
// publishes A, B, C is guaranteed that every subscriber has consumed A, B, C
// in that order before the last Publish returns. This keeps "first error
// wins" and "report all errors" policies deterministic.
type NotificationContext struct {
	mu          sync.Mutex
	subscribers []NotificationHandler
	collected   []DomainNotification
}

// NewNotificationContext creates an empty context with the built-in
// collector already active.
func NewNotificationContext() *NotificationContext {
	return &NotificationContext{}
}

// Subscribe registers an additional consumer. A nil handler is a programming
// error and is reported as such, never as a domain notification.
func (c *NotificationContext) Subscribe(handler NotificationHandler) error {
	if handler == nil {
		return fmt.Errorf("notification handler cannot be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, handler)
	return nil
}

// Publish records the notification and delivers it synchronously to every
// subscriber, in subscription order. A notification is data: Publish never
// fails on behalf of the domain.
func (c *NotificationContext) Publish(n DomainNotification) {
	c.mu.Lock()
	c.collected = append(c.collected, n)
	subs := make([]NotificationHandler, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, s := range subs {
		s.HandleNotification(n)
	}
}

// PublishDomainError is sugar: it builds a DomainNotification from the
// aggregate ID, category key and message, and publishes it.
func (c *NotificationContext) PublishDomainError(aggregateID, key, message string) {
	c.Publish(NewDomainNotification(aggregateID, key, message))
}

// HasNotifications reports whether anything was published during this
// request.
func (c *NotificationContext) HasNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.collected) > 0
}

// Notifications returns a copy of everything published, in publish order.
func (c *NotificationContext) Notifications() []DomainNotification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]DomainNotification, len(c.collected))
	copy(out, c.collected)
	return out
}

// Messages returns the message texts in publish order.
func (c *NotificationContext) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]string, len(c.collected))
	for i, n := range c.collected {
		msgs[i] = n.Message()
	}
	return msgs
}
