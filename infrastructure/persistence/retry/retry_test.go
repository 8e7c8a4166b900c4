package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fastConfig() Config {
	return Config{
		Enabled:            true,
		MaxAttempts:        3,
		InitialDelay:       time.Millisecond,
		MaxDelay:           5 * time.Millisecond,
		BackoffFactor:      2.0,
		RetryOnDeadlock:    true,
		RetryOnLockTimeout: true,
	}
}

func TestIsRetryableErrorMySQLCodes(t *testing.T) {
	cfg := fastConfig()

	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	lockTimeout := &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	syntax := &mysqlDriver.MySQLError{Number: 1064, Message: "You have an error in your SQL syntax"}

	assert.True(t, IsRetryableError(deadlock, cfg))
	assert.True(t, IsRetryableError(lockTimeout, cfg))
	assert.False(t, IsRetryableError(syntax, cfg))

	// wrapped errors still match
	assert.True(t, IsRetryableError(fmt.Errorf("tx failed: %w", deadlock), cfg))

	cfg.RetryOnDeadlock = false
	assert.False(t, IsRetryableError(deadlock, cfg))
}

func TestIsRetryableErrorClassification(t *testing.T) {
	cfg := fastConfig()

	assert.False(t, IsRetryableError(nil, cfg))
	assert.False(t, IsRetryableError(errors.New("student not found"), cfg))
	assert.False(t, IsRetryableError(gorm.ErrDuplicatedKey, cfg))
	assert.True(t, IsRetryableError(gorm.ErrInvalidTransaction, cfg))
	assert.True(t, IsRetryableError(errors.New("deadlock detected"), cfg))
	assert.True(t, IsRetryableError(errors.New("lock wait timeout exceeded"), cfg))
}

func TestIsRetryableErrorCustomPredicate(t *testing.T) {
	cfg := fastConfig()
	sentinel := errors.New("broker unavailable")
	cfg.RetryPredicate = func(err error) bool { return errors.Is(err, sentinel) }

	assert.True(t, IsRetryableError(sentinel, cfg))
	assert.False(t, IsRetryableError(errors.New("other"), cfg))
}

func TestExponentialBackoffGrowsAndCaps(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second, BackoffFactor: 2.0}

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 2*time.Second, ExponentialBackoffWithJitter(10, cfg), "delay caps at MaxDelay")
}

func TestExponentialBackoffJitterStaysInBand(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second, BackoffFactor: 2.0, JitterEnabled: true}

	for i := 0; i < 50; i++ {
		d := ExponentialBackoffWithJitter(1, cfg)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}

func TestExecuteWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}

	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return deadlock
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetryStopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("constraint violated")

	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetryExhaustsAttempts(t *testing.T) {
	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}

	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return deadlock
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetryDisabledRunsOnce(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}

	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return deadlock
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetryHonorsContextCancellation(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Second
	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := ExecuteWithRetry(ctx, cfg, func(ctx context.Context) error {
		return deadlock
	})

	assert.ErrorIs(t, err, context.Canceled)
}
