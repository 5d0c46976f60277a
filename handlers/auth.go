package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hairbystephanie/site/backend/go-services/internal/config"
	"github.com/hairbystephanie/site/backend/go-services/internal/sessions"
	"github.com/hairbystephanie/site/backend/go-services/internal/tokens"
	"github.com/hairbystephanie/site/backend/go-services/internal/users"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
	"github.com/hairbystephanie/site/backend/go-services/pkg/metrics"
	"github.com/hairbystephanie/site/backend/go-services/pkg/middleware"
)

// LoginRequest is the POST /login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	usersSvc *users.Service
}

func NewAuthHandler(cfg *config.Config, u *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u}
}

// Register mounts /login (behind the optional limiter) and the bearer
// protected /me and /logout.
func (h *AuthHandler) Register(r gin.IRouter, auth gin.HandlerFunc, limiters ...gin.HandlerFunc) {
	chain := append(append([]gin.HandlerFunc{}, limiters...), h.Login)
	r.POST("/login", chain...)
	r.GET("/me", auth, h.Me)
	r.POST("/logout", auth, h.Logout)
}

// Login exchanges admin credentials for a bearer access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			logger.Infof("login rejected for %q", req.Username)
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		logger.Errorf("login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication unavailable"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, TokenResponse{AccessToken: access, TokenType: "bearer"})
}

// Me returns the authenticated username.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": c.GetString(middleware.UsernameKey)})
}

// Logout revokes the presented access token for the rest of its lifetime.
// Without Redis there is nothing to revoke and the call still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)
	claims, _ := c.Get(middleware.ClaimsKey)
	cm, _ := claims.(map[string]interface{})
	if exp, ok := expiryFromClaims(cm); ok && token != "" {
		if err := sessions.BlacklistAccessToken(c.Request.Context(), token, time.Until(exp)); err != nil {
			logger.Errorf("failed to blacklist access token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke access token"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out", "revoked": sessions.Enabled()})
}

// expiryFromClaims reads a numeric exp claim.
func expiryFromClaims(claims map[string]interface{}) (time.Time, bool) {
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	}
	return time.Time{}, false
}
