package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	BaseCommand
	name  string
	value string
}

func (c *fakeCommand) CommandName() string { return c.name }
func (c *fakeCommand) IsValid() bool       { return RunValidation(c, &c.BaseCommand) }

func (c *fakeCommand) Validate() *ValidationResult {
	v := NewValidationResult()
	v.RequireNonEmpty("value", c.value)
	return v
}

func TestBaseCommandAggregateIDSetOnce(t *testing.T) {
	cmd := fakeCommand{BaseCommand: NewBaseCommand("")}
	assert.Empty(t, cmd.GetAggregateID())

	cmd.SetAggregateID("agg-1")
	assert.Equal(t, "agg-1", cmd.GetAggregateID())

	cmd.SetAggregateID("agg-2")
	assert.Equal(t, "agg-1", cmd.GetAggregateID(), "a non-empty identity is never overwritten")

	preset := NewBaseCommand("agg-3")
	preset.SetAggregateID("agg-4")
	assert.Equal(t, "agg-3", preset.GetAggregateID())
}

func TestBaseCommandTimestampIsUTC(t *testing.T) {
	cmd := NewBaseCommand("agg-1")
	assert.False(t, cmd.Timestamp().IsZero())
	assert.Equal(t, "UTC", cmd.Timestamp().Location().String())
}

func TestRunValidationStoresOutcome(t *testing.T) {
	cmd := &fakeCommand{name: "fake.command"}

	assert.True(t, cmd.Validation().IsValid(), "empty result before IsValid runs")

	assert.False(t, cmd.IsValid())
	stored := cmd.Validation()
	require.Len(t, stored.Errors(), 1)
	assert.Equal(t, "value", stored.Errors()[0].Field)

	cmd.value = "filled"
	assert.True(t, cmd.IsValid())
	assert.True(t, cmd.Validation().IsValid())
}

func TestCommandBusRegisterRejectsDuplicates(t *testing.T) {
	bus := NewCommandBus()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command, n *NotificationContext) (CommandResult, error) {
		return CommandResult{Success: true}, nil
	})

	require.NoError(t, bus.Register("fake.command", handler))
	assert.Error(t, bus.Register("fake.command", handler))
	assert.Error(t, bus.Register("", handler))
	assert.Error(t, bus.Register("other.command", nil))
}

func TestCommandBusDispatchMissingHandlerIsError(t *testing.T) {
	bus := NewCommandBus()
	cmd := &fakeCommand{name: "unregistered.command", value: "x"}

	_, notifications, err := bus.Dispatch(context.Background(), cmd)
	require.Error(t, err)
	assert.Nil(t, notifications, "structural failures never produce notifications")
}

func TestCommandBusDispatchFreshNotificationContext(t *testing.T) {
	bus := NewCommandBus()

	var seen []*NotificationContext
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command, n *NotificationContext) (CommandResult, error) {
		seen = append(seen, n)
		n.PublishDomainError(cmd.GetAggregateID(), "test", "violation for "+cmd.CommandName())
		return CommandResult{}, nil
	})
	require.NoError(t, bus.Register("fake.command", handler))

	cmd := &fakeCommand{name: "fake.command", value: "x"}

	_, first, err := bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	_, second, err := bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotSame(t, first, second)
	assert.Len(t, first.Notifications(), 1)
	assert.Len(t, second.Notifications(), 1)
}

func TestValidationResultOrderAndMerge(t *testing.T) {
	v := NewValidationResult()
	v.AddError("a", "first")
	v.AddError("b", "second")

	other := NewValidationResult()
	other.AddError("c", "third")
	v.Merge(other)

	assert.Equal(t, []string{"first", "second", "third"}, v.Messages())
	assert.False(t, v.IsValid())

	v.Merge(nil)
	assert.Len(t, v.Errors(), 3)
}

func TestCommandResultTransitions(t *testing.T) {
	valid := NewValidationResult()
	r := NewCommandResult(valid)
	assert.True(t, r.Success)

	r = r.SucceededWith("payload")
	assert.True(t, r.Success)
	assert.Equal(t, "payload", r.Payload)

	r = r.Failed()
	assert.False(t, r.Success)
	assert.True(t, r.Validation.IsValid(), "Failed leaves the validation outcome untouched")

	invalid := NewValidationResult()
	invalid.AddError("f", "bad")
	assert.False(t, NewCommandResult(invalid).Success)
}
