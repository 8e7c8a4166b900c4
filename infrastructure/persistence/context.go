package persistence

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key carrying the active GORM transaction.
type txKey struct{}

// TxFromContext retrieves the transaction opened by the Unit of Work, or nil
// when the call runs outside one.
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx attaches the transaction so repositories called inside
// UnitOfWork.Execute share it.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// requestIDKey is the context key carrying the inbound request ID.
type requestIDKey struct{}

// ContextWithRequestID attaches the request ID for correlation in logs.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext retrieves the request ID, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
