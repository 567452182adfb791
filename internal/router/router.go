package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/school-attendance/internal/config"
	"github.com/iliyamo/school-attendance/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/school-attendance/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/school-attendance/internal/model"
)

// Handlers bundles every handler the router needs so callers wire the
// application in one place.
type Handlers struct {
	Auth       *handler.AuthHandler
	Student    *handler.StudentHandler
	Attendance *handler.AttendanceHandler
	Face       *handler.FaceHandler
	Teacher    *handler.TeacherHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the health check, Prometheus metrics and the two
// login endpoints.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Staff and student logins issue JWTs; everything under /api requires one.
	e.POST("/login", h.Auth.Login)
	e.POST("/student/login", h.Auth.StudentLogin)
}

// RegisterAPI registers all authenticated routes under /api and applies the
// necessary middleware.  Role checks happen at the route group level and are
// enforced again inside the services, so a misrouted handler still refuses
// callers with the wrong role.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	// Create a route group under the /api prefix for operations that require
	// a valid access token.  All handlers registered on this group execute
	// the JWTAuth middleware before being invoked.
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.RateLimit(rlCfg, rdb))

	// Any authenticated caller can inspect its own identity or rotate its
	// password (students get a 403 from the handler on password change).
	api.GET("/me", h.Auth.Me)
	api.POST("/change-password", h.Auth.ChangePassword)

	// Staff endpoints: the roster is readable and writable by teachers and
	// the principal alike.
	staff := api.Group("", middleware.RequireRole(model.RolePrincipal, model.RoleTeacher))
	staff.GET("/students", h.Student.List, middleware.ResponseCache(cacheCfg, rdb))
	staff.POST("/students", h.Student.Create)
	staff.GET("/students/search", h.Student.Search)
	staff.GET("/students/:id", h.Student.Get)
	staff.PUT("/students/:id", h.Student.Update)
	staff.GET("/students/:id/attendance", h.Attendance.HistoryFor)
	staff.GET("/attendance/class/:class", h.Attendance.ForClass, middleware.ResponseCache(cacheCfg, rdb))

	// Principal-only endpoints: cascade deletion and teacher administration.
	principal := api.Group("", middleware.RequireRole(model.RolePrincipal))
	principal.DELETE("/students/:id", h.Student.Delete)
	principal.DELETE("/attendance/remove/:id/:date", h.Attendance.Remove)
	principal.GET("/teachers", h.Teacher.List)
	principal.PUT("/teachers/:username", h.Teacher.Update)

	// Student endpoints: marking attendance and managing face registration
	// always act on the caller's own record.
	student := api.Group("", middleware.RequireRole(model.RoleStudent))
	student.POST("/student/attendance", h.Attendance.Mark)
	student.GET("/student/attendance-history", h.Attendance.OwnHistory)
	student.POST("/student/register-face", h.Face.Register)
	student.GET("/student/face-status", h.Face.Status)
}
