// Package middleware provides shared request processing: token
// verification, role gating, response caching, rate limiting and
// request metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-attendance/internal/auth"
	"github.com/iliyamo/school-attendance/internal/model"
)

// actorKey is the context key the verified actor is stored under.
const actorKey = "actor"

// JWTAuth validates a Bearer access token and injects the rebuilt
// actor into the request context.  Handlers retrieve it with
// ActorFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			actor, err := auth.ParseActor(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by JWTAuth.  The zero actor and
// false mean the request was not authenticated.
func ActorFrom(c echo.Context) (model.Actor, bool) {
	actor, ok := c.Get(actorKey).(model.Actor)
	return actor, ok
}
