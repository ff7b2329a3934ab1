package middleware // middleware holds the echo middlewares shared by the lineup routes

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
    CtxUserID = "user_id"
    CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// signed with secret (HS256 only) and stores the sub and role claims in the
// context under CtxUserID and CtxRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
    keyFunc := func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), keyFunc)
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            // Downstream consumers type-assert; the rate limiter expects strings.
            if sub, ok := claims["sub"].(string); ok {
                c.Set(CtxUserID, sub)
            }
            c.Set(CtxRole, claims["role"])
            return next(c)
        }
    }
}
