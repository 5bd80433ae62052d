// Package router wires HTTP routes to their handlers and middleware.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/bookfair-stall-reservation/internal/config"
    "github.com/iliyamo/bookfair-stall-reservation/internal/handler"
    "github.com/iliyamo/bookfair-stall-reservation/internal/middleware"
    "github.com/iliyamo/bookfair-stall-reservation/internal/model"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no session; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole(model.RoleVendor, model.RoleOrganizer))
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated stall catalog.  Catalog
// reads are cached in Redis and rate limited per client; both layers
// degrade to pass-through when Redis is absent.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
    g := e.Group("/v1/stalls")
    g.Use(middleware.RateLimit(rlCfg, rdb))
    g.Use(middleware.ResponseCache(cacheCfg, rdb))
    g.GET("", p.ListStalls)
    g.GET("/:id", p.GetStall)
}

// RegisterVendor registers the vendor session endpoints: selection,
// checkout and reservation management.  All require a VENDOR token.
func RegisterVendor(e *echo.Echo, v *handler.VendorHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(model.RoleVendor))

    g.GET("/selection", v.GetSelection)
    g.POST("/selection/toggle", v.ToggleSelection)
    g.DELETE("/selection", v.ClearSelection)

    g.POST("/checkout", v.BeginCheckout)
    g.GET("/checkout", v.GetCheckout)
    g.POST("/checkout/details", v.EnterDetails)
    g.POST("/checkout/pay", v.Pay)
    g.DELETE("/checkout", v.CancelCheckout)

    g.GET("/my-reservations", v.ListMyReservations)
    g.GET("/reservations/:id", v.GetReservation)
    g.POST("/reservations/:id/cancel", v.CancelReservation)
}

// RegisterOrganizer registers the organizer console under
// /v1/organizer.  All routes require an ORGANIZER token.
func RegisterOrganizer(e *echo.Echo, o *handler.OrganizerHandler, jwtSecret string) {
    g := e.Group("/v1/organizer")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(model.RoleOrganizer))

    g.GET("/reservations", o.ListReservations)
    g.POST("/stalls", o.CreateStall)
    g.PATCH("/stalls/:id/availability", o.SetStallAvailability)
}
