package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/internal/sessions"
	"github.com/docdesk/docdesk/backend/go-services/internal/tokens"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// LoginRequest used for email/password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates an account and logs it in
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg       *config.Config
	provider  *sessions.Provider
	blacklist *sessions.Blacklist
	verifier  middleware.Verifier
}

func NewAuthHandler(cfg *config.Config, p *sessions.Provider, bl *sessions.Blacklist) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: p, blacklist: bl, verifier: middleware.JWTVerifier{Config: cfg}}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/google", h.LoginWithGoogle)
	a.POST("/register", h.RegisterAccount)
	a.POST("/logout", h.Logout)
	a.GET("/session", h.Session)
	a.GET("/me", middleware.AuthMiddleware(h.verifier, h.blacklist), h.Me)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.provider.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issue(c, http.StatusOK, u)
}

func (h *AuthHandler) LoginWithGoogle(c *gin.Context) {
	u, err := h.provider.LoginWithGoogle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.issue(c, http.StatusOK, u)
}

func (h *AuthHandler) RegisterAccount(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.provider.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, u)
}

// issue answers with a fresh access token for u.
func (h *AuthHandler) issue(c *gin.Context, status int, u models.CurrentUser) {
	ttl := h.cfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, ttl)
	if err != nil {
		logger.Errorf("failed to create access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(status, gin.H{"accessToken": access, "user": u, "isAdmin": u.IsAdmin(), "expiresIn": int(ttl.Seconds())})
}

// Logout clears the session and, when a Bearer token is supplied, blacklists
// it for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	if auth := c.GetHeader("Authorization"); auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if claims, err := tokens.ParseAccessToken(h.cfg, at); err == nil {
				if ttl := claims.Remaining(time.Now()); ttl > 0 {
					if err := h.blacklist.Revoke(c.Request.Context(), at, ttl); err != nil {
						logger.Errorf("failed to blacklist access token: %v", err)
						c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
						return
					}
				}
			}
		}
	}
	if err := h.provider.Logout(c.Request.Context()); err != nil {
		logger.Errorf("failed to remove session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session reports the provider's current user.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.View())
}

// Me returns the caller identified by the access token.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "isAuthenticated": true, "isAdmin": u.IsAdmin()})
}
