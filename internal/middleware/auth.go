package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	roleKey    = "role"
	subjectKey = "subject"
)

// JWTAuth verifies an HS256 bearer token. The token may also arrive as ?token=
// for websocket upgrades, where browsers cannot set headers.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if tokenString == "" {
				tokenString = c.QueryParam("token")
			}
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header or token query parameter required")
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			role, _ := claims["role"].(string)
			sub, _ := claims.GetSubject()

			c.Set(roleKey, models.Role(role))
			c.Set(subjectKey, sub)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireManager lets admins and superadmins through.
func RequireManager() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !RoleFrom(c).CanManage() {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}

func RoleFrom(c echo.Context) models.Role {
	role, _ := c.Get(roleKey).(models.Role)
	return role
}

func SubjectFrom(c echo.Context) string {
	sub, _ := c.Get(subjectKey).(string)
	return sub
}

// SetIdentity is used by tests and by callers that authenticate elsewhere.
func SetIdentity(c echo.Context, role models.Role, subject string) {
	c.Set(roleKey, role)
	c.Set(subjectKey, subject)
}
