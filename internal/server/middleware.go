package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/diatrack/internal/auth"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"github.com/vladimiradmaev/diatrack/internal/logger"
	"github.com/vladimiradmaev/diatrack/internal/risk"
	"github.com/vladimiradmaev/diatrack/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and attaches a request scoped
// logger to its context.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		l := logger.GetLogger().With("request_id", requestID)
		c.Request = c.Request.WithContext(logger.ContextWith(c.Request.Context(), l))

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := handlers.CurrentUserID(c); id != 0 {
			attrs = append(attrs, "user_id", id)
		}
		l.Info("Request handled", attrs...)
	}
}

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireAuth resolves the caller from the Authorization header. Requests
// without a valid token are rejected before any handler runs.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debug("Rejected bearer token", "error", err)
			abortUnauthorized(c)
			return
		}

		c.Set(handlers.UserIDKey, claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	resp := risk.Translate(apperrors.ErrUnauthorized)
	c.AbortWithStatusJSON(resp.Status, resp.Body)
}

// recovery turns a panic into the internal error response.
func recovery(errs *apperrors.Handler) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := apperrors.New(apperrors.ErrorTypeInternal, "PANIC", "Internal server error").
			WithContext("panic", recovered)
		if errs != nil {
			errs.Handle(c.Request.Context(), err)
		}
		resp := risk.Translate(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Body)
	})
}
