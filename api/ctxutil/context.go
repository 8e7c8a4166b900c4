package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jasonamaral/mba.modulo4-sub001/api/response"
	"github.com/jasonamaral/mba.modulo4-sub001/infrastructure/persistence"
)

// WithRequestID carries the gin request ID into the request context so lower
// layers (repositories, loggers) can correlate.
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
