package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ecoscan-backend/internal/apierr"
	"ecoscan-backend/internal/config"
)

const UserIDKey = "user_id"

// AuthMiddleware validates the Supabase JWT from the Authorization header
// and stores the user id (the "sub" claim) in the request context. Requests
// without a resolvable identity are rejected before any handler runs, so no
// upload or classification cost is incurred for them.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abortUnauthorized(c, "empty token")
			return
		}

		// Some clients URL-encode the token when passing it around
		if decoded, err := url.QueryUnescape(tokenString); err == nil && decoded != tokenString {
			tokenString = decoded
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// Supabase signs access tokens with HS256 using the project JWT secret
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			if cfg.SupabaseJWTSecret == "" {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.SupabaseJWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))

		if err != nil {
			var message string
			switch {
			case strings.Contains(err.Error(), "signature is invalid"):
				message = "token signature is invalid - check JWT secret"
			case strings.Contains(err.Error(), "token is expired"):
				message = "token has expired"
			default:
				message = "invalid token: " + err.Error()
			}
			abortUnauthorized(c, message)
			return
		}

		if !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			abortUnauthorized(c, "missing user id in token")
			return
		}

		c.Set(UserIDKey, sub)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Error(apierr.Unauthorized(message))
	c.Abort()
}
