package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/skillsenselab/freightway/errors"
)

// Context keys populated by AuthContext.
const (
	CtxAuthToken  = "auth_token"
	CtxAuthClaims = "auth_claims"
)

// AuthContext populates the per-request authentication context from a Bearer
// token before resource handlers run. Requests without a token continue
// anonymously; handlers that require identity reject them. A token that is
// present but invalid is a hard authentication failure and flows through the
// interceptor.
func AuthContext(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header format.")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid token.")
			return
		}

		c.Set(CtxAuthToken, parts[1])
		c.Set(CtxAuthClaims, map[string]interface{}(claims))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	_ = c.Error(apierrors.Unauthorized(reason))
	c.Abort()
}
