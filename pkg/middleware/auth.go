package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/internal/tokens"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Revocations reports tokens revoked before expiry, e.g. by logout.
type Revocations interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// JWTVerifier verifies access tokens issued by the tokens package.
type JWTVerifier struct {
	Config *config.Config
}

type jwtToken struct {
	claims *tokens.Claims
}

func (t *jwtToken) Claims(v interface{}) error {
	switch out := v.(type) {
	case *map[string]interface{}:
		u := t.claims.User()
		*out = map[string]interface{}{
			"sub":     u.ID,
			"name":    u.Name,
			"email":   u.Email,
			"role":    string(u.Role),
			"picture": u.Picture,
		}
		return nil
	case *tokens.Claims:
		*out = *t.claims
		return nil
	}
	return fmt.Errorf("unsupported claims type %T", v)
}

func (j JWTVerifier) Verify(_ context.Context, raw string) (Token, error) {
	claims, err := tokens.ParseAccessToken(j.Config, raw)
	if err != nil {
		return nil, err
	}
	return &jwtToken{claims: claims}, nil
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier.
// revoked may be nil.
func AuthMiddleware(ver Verifier, revoked Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if revoked != nil {
			bad, err := revoked.IsRevoked(c.Request.Context(), token)
			if err != nil {
				logger.Errorf("token revocation check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "token check unavailable"})
				return
			}
			if bad {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		verified, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}

		// Extract claims
		var claims map[string]interface{}
		if err := verified.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}

		c.Set("claims", claims)
		c.Set("token", token)
		c.Next()
	}
}

// CurrentUser returns the caller set by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.CurrentUser, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return models.CurrentUser{}, false
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return models.CurrentUser{}, false
	}
	str := func(k string) string {
		s, _ := cm[k].(string)
		return s
	}
	if str("sub") == "" {
		return models.CurrentUser{}, false
	}
	return models.CurrentUser{
		ID:      str("sub"),
		Name:    str("name"),
		Email:   str("email"),
		Role:    models.Role(str("role")),
		Picture: str("picture"),
	}, true
}

// RequireRole rejects callers whose role claim differs from role. It must run
// after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if u.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the caller like AuthMiddleware when a valid, unrevoked
// Bearer token is present and lets every request through.
func OptionalAuth(ver Verifier, revoked Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if n, _ := fmt.Sscanf(c.GetHeader("Authorization"), "Bearer %s", &token); n != 1 {
			c.Next()
			return
		}
		if revoked != nil {
			if bad, err := revoked.IsRevoked(c.Request.Context(), token); err != nil || bad {
				c.Next()
				return
			}
		}
		verified, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}
		var claims map[string]interface{}
		if err := verified.Claims(&claims); err == nil {
			c.Set("claims", claims)
			c.Set("token", token)
		}
		c.Next()
	}
}
