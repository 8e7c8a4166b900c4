package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationContextStartsEmpty(t *testing.T) {
	c := NewNotificationContext()
	assert.False(t, c.HasNotifications())
	assert.Empty(t, c.Notifications())
	assert.Empty(t, c.Messages())
}

func TestPublishIsSynchronousAndOrdered(t *testing.T) {
	c := NewNotificationContext()

	var delivered []string
	require.NoError(t, c.Subscribe(NotificationHandlerFunc(func(n DomainNotification) {
		delivered = append(delivered, n.Message())
	})))

	c.PublishDomainError("agg-1", "student", "A")
	// every subscriber has consumed A before this Publish returns
	require.Equal(t, []string{"A"}, delivered)

	c.PublishDomainError("agg-1", "student", "B")
	c.PublishDomainError("agg-1", "student", "C")

	assert.Equal(t, []string{"A", "B", "C"}, delivered)
	assert.Equal(t, []string{"A", "B", "C"}, c.Messages())
}

func TestSubscribersReceiveInSubscriptionOrder(t *testing.T) {
	c := NewNotificationContext()

	var order []string
	require.NoError(t, c.Subscribe(NotificationHandlerFunc(func(n DomainNotification) {
		order = append(order, "first:"+n.Message())
	})))
	require.NoError(t, c.Subscribe(NotificationHandlerFunc(func(n DomainNotification) {
		order = append(order, "second:"+n.Message())
	})))

	c.PublishDomainError("agg-1", "student", "X")

	assert.Equal(t, []string{"first:X", "second:X"}, order)
}

func TestSubscribeRejectsNilHandler(t *testing.T) {
	c := NewNotificationContext()
	assert.Error(t, c.Subscribe(nil))
}

func TestNotificationCarriesIdentityAndKey(t *testing.T) {
	c := NewNotificationContext()
	c.PublishDomainError("agg-9", "enrollment", "already enrolled")

	require.True(t, c.HasNotifications())
	n := c.Notifications()[0]
	assert.NotEmpty(t, n.ID())
	assert.Equal(t, "agg-9", n.AggregateID())
	assert.Equal(t, "enrollment", n.Key())
	assert.Equal(t, "already enrolled", n.Message())
	assert.False(t, n.Timestamp().IsZero())
}

func TestContextsAreIsolated(t *testing.T) {
	first := NewNotificationContext()
	second := NewNotificationContext()

	first.PublishDomainError("agg-1", "student", "only in first")

	assert.True(t, first.HasNotifications())
	assert.False(t, second.HasNotifications())
}

func TestNotificationsReturnsACopy(t *testing.T) {
	c := NewNotificationContext()
	c.PublishDomainError("agg-1", "student", "original")

	got := c.Notifications()
	got[0] = NewDomainNotification("agg-2", "other", "mutated")

	assert.Equal(t, "original", c.Notifications()[0].Message())
}
