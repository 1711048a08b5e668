package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/infrastructure/auth"
	"github.com/sokohub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Gin context keys under which validated claims are stored.
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTEmailKey   = "jwt_email"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig tunes the auth middleware. Only JWTService is
// mandatory.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist, when set, rejects revoked tokens in addition to
	// invalid ones.
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are paths that don't require authentication. A valid
	// token on a skipped path still populates the claims, so public
	// endpoints recognize signed-in callers.
	SkipPaths []string
	// SkipPathPrefixes skip auth for whole subtrees, such as /swagger.
	SkipPathPrefixes []string
	// OnError replaces the default 401 response when set.
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration.
// Public catalog browsing stays open; writes on those paths are guarded
// by the role middleware and per-handler identity checks.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: nil,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
			"/api/v1/health",
			"/api/v1/system/ping",
			"/api/v1/system/info",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
			"/api/v1/products",
			"/api/v1/product/",
			"/api/v1/categories",
		},
		OnError: nil,
		Logger:  nil,
	}
}

// authFailure pairs a sentinel auth error with the log message
type authFailure struct {
	err     error
	message string
}

// JWTAuthMiddleware runs auth with the default config.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token, checks the
// blacklist, and stores the claims in the gin context for handlers.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pathSkipsAuth(cfg, c.Request.URL.Path) {
			if claims, failure := authenticateRequest(c, cfg); failure == nil {
				attachClaims(c, cfg, claims)
			}
			c.Next()
			return
		}

		claims, failure := authenticateRequest(c, cfg)
		if failure != nil {
			handleAuthError(c, cfg, failure.err, failure.message)
			return
		}

		attachClaims(c, cfg, claims)
		c.Next()
	}
}

func pathSkipsAuth(cfg JWTMiddlewareConfig, path string) bool {
	for _, skipPath := range cfg.SkipPaths {
		if path == skipPath {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// authenticateRequest extracts and validates the bearer token, including
// the blacklist checks
func authenticateRequest(c *gin.Context, cfg JWTMiddlewareConfig) (*auth.Claims, *authFailure) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		return nil, &authFailure{auth.ErrInvalidToken, "Missing authorization header"}
	}

	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return nil, &authFailure{auth.ErrInvalidToken, "Invalid authorization header format"}
	}

	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		return nil, &authFailure{auth.ErrInvalidToken, "Missing token"}
	}

	claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, &authFailure{err, "Token validation failed"}
	}

	if cfg.TokenBlacklist != nil {
		ctx := c.Request.Context()

		// Individual logout revokes one JTI
		if claims.ID != "" {
			blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
			if err != nil {
				// Fail open for availability
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check token blacklist",
						zap.String("jti", claims.ID),
						zap.Error(err))
				}
			} else if blacklisted {
				return nil, &authFailure{auth.ErrTokenBlacklisted, "Token has been revoked"}
			}
		}

		// Password change invalidates every token issued before it
		if claims.UserID != "" {
			tokenIssuedAt := claims.GetIssuedAtTime()
			invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, tokenIssuedAt)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check user token invalidation",
						zap.String("user_id", claims.UserID),
						zap.Error(err))
				}
			} else if invalidated {
				return nil, &authFailure{auth.ErrTokenBlacklisted, "User session has been invalidated"}
			}
		}
	}

	return claims, nil
}

// attachClaims stores the claims on the gin context and scopes the
// request logger to the user
func attachClaims(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) {
	setClaimsInContext(c, claims)

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
	c.Request = c.Request.WithContext(ctx)

	if cfg.Logger != nil {
		cfg.Logger.Debug("JWT authentication successful",
			zap.String("user_id", claims.UserID),
			zap.String("role", string(claims.Role)),
		)
	}
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "ERR_UNAUTHORIZED"
	errorMessage := "Authentication required"

	switch err {
	case auth.ErrExpiredToken:
		errorCode = "ERR_TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case auth.ErrInvalidToken:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Invalid token"
	case auth.ErrInvalidTokenType:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Invalid token type"
	case auth.ErrTokenNotYetValid:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Token is not yet valid"
	case auth.ErrTokenBlacklisted:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

func setClaimsInContext(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTEmailKey, claims.Email)
	c.Set(JWTRoleKey, claims.Role)
}

// GetJWTClaims returns the validated claims, or nil when the request
// carried no usable token.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID returns the authenticated user ID, or empty.
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTEmail retrieves the email from JWT claims in context
func GetJWTEmail(c *gin.Context) string {
	if email, exists := c.Get(JWTEmailKey); exists {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

// GetJWTRole retrieves the role from JWT claims in context. Returns an
// empty role for unauthenticated requests.
func GetJWTRole(c *gin.Context) identity.Role {
	if role, exists := c.Get(JWTRoleKey); exists {
		if r, ok := role.(identity.Role); ok {
			return r
		}
	}
	return identity.Role("")
}

// OptionalJWTAuthMiddleware creates middleware that doesn't require JWT but
// extracts claims if present. Public catalog endpoints use this so owners
// browsing their own listings can be recognized.
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" || !strings.HasPrefix(authHeader, BearerPrefix) {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		setClaimsInContext(c, claims)

		c.Next()
	}
}
