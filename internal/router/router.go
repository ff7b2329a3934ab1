package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/team-lineup/internal/config"
	"github.com/iliyamo/team-lineup/internal/handler"
	"github.com/iliyamo/team-lineup/internal/middleware"
	"github.com/iliyamo/team-lineup/internal/utils"
)

// Deps bundles what the routes need.  Redis may be nil, which disables the
// rate limiter and the response cache.
type Deps struct {
	Cfg       config.Config
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Log       *zap.Logger
	Auth      *handler.AuthHandler
	Lineup    *handler.LineupHandler
}

// RegisterRoutes installs the global middleware and every route.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))

	e.GET("/healthz", handler.Health)
	RegisterAuth(e, d.Auth)
	RegisterPublic(e, d)
	RegisterCoach(e, d.Lineup, d.Cfg.JWTSecret)
}

// RegisterAuth registers the unauthenticated login route under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}

// RegisterPublic registers the read-only endpoints.  Formation templates are
// static, so their responses go through the Redis cache.
func RegisterPublic(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	e.GET("/v1/formations", handler.ListFormations, cache)
	e.GET("/v1/formations/:name", handler.GetFormation, cache)

	l := d.Lineup
	e.GET("/v1/players", l.ListPlayers)
	e.GET("/v1/staff", l.ListStaff)
	e.GET("/v1/lineup", l.GetLineup)
	e.GET("/v1/lineup/available", l.ListAvailable)
}

// RegisterCoach registers the mutating endpoints under /v1.  All of them
// require a valid JWT with the COACH role.
func RegisterCoach(e *echo.Echo, l *handler.LineupHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleCoach),
	)

	// ---- Roster ----
	g.POST("/members", l.CreateMember)
	g.PUT("/players", l.ReplacePlayers)
	g.POST("/players/reorder", l.ReorderPlayers)
	g.PUT("/players/:id", l.UpdatePlayer)
	g.DELETE("/players/:id", l.DeletePlayer)
	g.PUT("/staff", l.ReplaceStaff)

	// ---- Lineup ----
	g.PUT("/lineup/formation", l.SetFormation)
	g.PUT("/lineup/field/:slot", l.AssignSlot)
	g.DELETE("/lineup/field/:slot", l.ClearSlot)
	g.DELETE("/lineup/field", l.ClearField)
	g.POST("/lineup/bench", l.AddBench)
	g.DELETE("/lineup/bench/:id", l.RemoveBench)
	g.POST("/lineup/staff", l.AddStaff)
	g.DELETE("/lineup/staff/:id", l.RemoveStaff)
	g.POST("/lineup/drop", l.Drop)
}
