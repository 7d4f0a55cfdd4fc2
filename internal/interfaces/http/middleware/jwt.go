package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripled/backend/internal/infrastructure/auth"
	"github.com/tripled/backend/internal/infrastructure/logger"
	"github.com/tripled/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	ContextKeyClaims   = "jwt_claims"
	ContextKeyUserID   = "jwt_user_id"
	ContextKeyUsername = "jwt_username"
	ContextKeyRole     = "jwt_role"
)

// JWTMiddlewareConfig holds configuration for the JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService validates access tokens
	JWTService *auth.JWTService
	// TokenBlacklist is optional and used to reject revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths lists exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes lists path prefixes that bypass authentication
	SkipPathPrefixes []string
	// Logger is used for auth failures and blacklist lookup errors
	Logger *zap.Logger
}

// JWTAuth returns a JWT authentication middleware with default skip paths
func JWTAuth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthWithConfig(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	})
}

// JWTAuthWithConfig returns a JWT authentication middleware. Validated
// claims are stored on the gin context and the user ID is attached to
// the request-scoped logger.
func JWTAuthWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, cfg.Logger, dto.ErrCodeUnauthorized, err.Error())
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, cfg.Logger, code, "Invalid or expired token")
			return
		}

		if cfg.TokenBlacklist != nil {
			ctx := c.Request.Context()

			// Blacklist lookups fail open: a dead Redis should not
			// take authentication down with it.
			revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
			if err != nil {
				cfg.Logger.Error("token blacklist lookup failed",
					zap.String("jti", claims.ID),
					zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, cfg.Logger, dto.ErrCodeTokenInvalid, "Token has been revoked")
				return
			}

			invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				cfg.Logger.Error("user token invalidation lookup failed",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			} else if invalidated {
				abortUnauthorized(c, cfg.Logger, dto.ErrCodeTokenInvalid, "Token has been revoked")
				return
			}
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has one of
// the given roles. Must run after the JWT middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetJWTClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if !claims.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Insufficient permissions", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetJWTClaims returns the validated claims set by the JWT middleware
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user's ID, or "" if unauthenticated
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetJWTRole returns the authenticated user's role, or "" if unauthenticated
func GetJWTRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, code, message string) {
	log.Debug("request rejected",
		zap.String("path", c.Request.URL.Path),
		zap.String("code", code))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
