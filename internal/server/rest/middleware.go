package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requireAuth admits requests with a valid Bearer access token and stores
// the user ID in the request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := s.gate.Authenticate(c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			requestIDKey, c.GetString(requestIDKey),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered",
			"path", c.Request.URL.Path,
			"panic", recovered,
			requestIDKey, c.GetString(requestIDKey),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	})
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		c.Next()
	}
}

// rateLimit charges one request against l per client IP. When the limiter
// backend is unavailable the request is let through.
func (s *Server) rateLimit(l ratelimit.Limiter, message string) gin.HandlerFunc {
	policy := l.Policy()
	limit := strconv.Itoa(policy.Max)
	retryAfter := strconv.Itoa(int(policy.Window / time.Second))

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		c.Header("RateLimit-Limit", limit)

		remaining, err := l.Allow(ctx, c.ClientIP())
		switch {
		case errors.Is(err, ratelimit.ErrRateLimited):
			s.logger.Warn(ctx, "rate limited", "policy", policy.Name, "client_ip", c.ClientIP())
			c.Header("RateLimit-Remaining", "0")
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		case err != nil:
			s.logger.Error(ctx, "rate limiter unavailable", "policy", policy.Name, "error", err)
		default:
			c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		}

		c.Next()
	}
}
