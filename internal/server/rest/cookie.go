package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.RefreshTokenCookieName, token, s.refreshMaxAge, "/", "", s.cookieSecure, true)
}

// clearRefreshCookie expires the cookie with the attributes it was set with.
func (s *Server) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, "/", "", s.cookieSecure, true)
}
