package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/ratelimit"
	"alcyxob/workout-tracker/internal/service"
)

// Constants for context keys
const (
	ContextUserKey      = "currentUser"
	ContextRequestIDKey = "requestID"
)

const requestIDHeader = "X-Request-ID"

// RateLimiter is satisfied by *ratelimit.Manager.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error)
}

// RequestLogger assigns a request id and writes one log entry per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		fields := log.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}
		if user, ok := currentUser(c); ok {
			fields["user_id"] = user.ID
		}
		entry := log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// AuthMiddleware creates a Gin middleware for bearer token authentication.
// The resolved user is stored in the context for downstream handlers.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminMiddleware rejects non-admin users. Must run AFTER AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			// This should not happen if AuthMiddleware ran correctly
			abortWithError(c, http.StatusInternalServerError, "User not found in context")
			return
		}
		if !user.IsAdmin {
			writeError(c, service.ErrAdminRequired)
			return
		}
		c.Next()
	}
}

// LoginRateLimit throttles requests per client address. A limiter failure
// lets the request through.
func LoginRateLimit(limiter RateLimiter, attempts int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || attempts <= 0 {
			c.Next()
			return
		}
		result, err := limiter.Allow(c.Request.Context(), "login:"+c.ClientIP(), attempts, window)
		if err != nil {
			log.WithError(err).Warn("login rate limit check failed")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(attempts))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			retryAfter := result.RetryAfter(time.Now())
			c.Header("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))
			abortWithError(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated user set by AuthMiddleware.
func currentUser(c *gin.Context) (*domain.User, bool) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*domain.User)
	return user, ok && user != nil
}

// getCurrentUser is currentUser for handlers behind AuthMiddleware; it aborts
// the request when no user is present.
func getCurrentUser(c *gin.Context) (*domain.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return nil, false
	}
	return user, true
}
