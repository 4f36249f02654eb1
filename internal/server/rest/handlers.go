package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	AccessToken string       `json:"accessToken"`
	User        userResponse `json:"user"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func newSessionResponse(sess *services.Session) sessionResponse {
	return sessionResponse{
		AccessToken: sess.AccessToken,
		User:        userResponse{ID: sess.User.ID, Email: sess.User.Email, Name: sess.User.Name},
	}
}

func newProfileResponse(u *models.User) profileResponse {
	return profileResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if !s.bind(c, &req) {
		return
	}

	sess, err := s.users.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", sess.User.ID)
	s.setRefreshCookie(c, sess.RefreshToken)
	c.JSON(http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) signin(c *gin.Context) {
	var req signinRequest
	if !s.bind(c, &req) {
		return
	}

	sess, err := s.users.Signin(c.Request.Context(), services.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setRefreshCookie(c, sess.RefreshToken)
	c.JSON(http.StatusOK, newSessionResponse(sess))
}

func (s *Server) refresh(c *gin.Context) {
	token, err := c.Cookie(common.RefreshTokenCookieName)
	if err != nil || token == "" {
		s.writeError(c, common.ErrUnauthenticated)
		return
	}

	res, err := s.users.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			s.clearRefreshCookie(c)
		}
		s.writeError(c, err)
		return
	}

	if res.Rotated() {
		s.setRefreshCookie(c, res.RefreshToken)
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": res.AccessToken})
}

func (s *Server) signout(c *gin.Context) {
	token, _ := c.Cookie(common.RefreshTokenCookieName)

	err := s.users.Signout(c.Request.Context(), token)
	s.clearRefreshCookie(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}

func (s *Server) signoutAll(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c.Request.Context())

	err := s.users.SignoutAll(c.Request.Context(), userID)
	s.clearRefreshCookie(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out from all sessions"})
}

func (s *Server) profile(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c.Request.Context())

	u, err := s.users.Profile(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(u))
}
