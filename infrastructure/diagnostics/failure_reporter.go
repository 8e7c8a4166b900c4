package diagnostics

import (
	"context"

	"go.uber.org/zap"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence"
	"github.com/jasonamaral/mba.modulo4-sub001/pkg/logger"
)

// LoggingFailureReporter writes unexpected command failures to the log,
// including the construction-site stack when the error carries one.
type LoggingFailureReporter struct{}

func NewLoggingFailureReporter() *LoggingFailureReporter {
	return &LoggingFailureReporter{}
}

func (r *LoggingFailureReporter) ReportFailure(ctx context.Context, commandName string, err error) {
	fields := []zap.Field{
		zap.String("command", commandName),
		zap.Error(err),
	}
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if stacker, ok := err.(shared.Stacker); ok {
		fields = append(fields, zap.Strings("stack", stacker.Stack()))
	}
	logger.Error("Command execution failed", fields...)
}
