package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal Server Error"

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ratelimit.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single place errors become responses. Classified
// errors are logged at warn with their public message; anything else is
// logged at error with full detail and answered with a generic body.
func (s *Server) writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": msgInternal})
		return
	}

	msg := common.PublicMessage(err, http.StatusText(status))
	s.logger.Warn(ctx, "request rejected", "path", c.FullPath(), "status", status, "reason", msg)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
