package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgAuthLimited = "Too many attempts, please try again after 15 minutes"
	msgAPILimited  = "Too many requests, please try again later"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(
		s.requestID(),
		s.requestLogger(),
		s.recovery(),
		securityHeaders(),
	)
	if s.limiters.API != nil {
		r.Use(s.rateLimit(s.limiters.API, msgAPILimited))
	}

	r.GET("/health", s.health)

	authLimit := func(c *gin.Context) { c.Next() }
	if s.limiters.Auth != nil {
		authLimit = s.rateLimit(s.limiters.Auth, msgAuthLimited)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/signup", authLimit, s.signup)
		auth.POST("/signin", authLimit, s.signin)
		auth.POST("/refresh", s.refresh)
		auth.POST("/signout", s.signout)
		auth.POST("/signout/all", s.requireAuth(), s.signoutAll)
	}

	r.GET("/profile", s.requireAuth(), s.profile)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return r
}
