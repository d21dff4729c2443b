// Package router mounts the API routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/zerowaste/connect/internal/config"
	"github.com/zerowaste/connect/internal/database"
	"github.com/zerowaste/connect/internal/handler"
	"github.com/zerowaste/connect/internal/middleware"
	"github.com/zerowaste/connect/internal/model"
)

// Handlers bundles everything Register mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Donation *handler.DonationHandler
	Profile  *handler.ProfileHandler
	Contact  *handler.ContactHandler
}

// Register mounts all routes on the provided Echo instance. Public
// reads stay open; donation writes and profile access require a valid
// bearer token, and posting donations additionally requires the
// restaurant role. The Redis client may be nil, which disables the
// rate limiter and the listing cache.
func Register(e *echo.Echo, cfg config.Config, store *database.Store, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health(store))

	api := e.Group("/api")

	// Credential endpoints take the brunt of abusive traffic.
	authGroup := api.Group("/auth", middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/me", h.Auth.Me, middleware.JWTAuth(cfg.JWTSecret))

	// Public reads; the listing is cached briefly.
	api.GET("/donations", h.Donation.List, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	api.GET("/donations/:id", h.Donation.Get)

	protected := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	protected.POST("/donations", h.Donation.Create, middleware.RequireRole(model.RoleRestaurant))
	protected.PATCH("/donations/:id", h.Donation.Update)
	protected.GET("/profile", h.Profile.Get)
	protected.PATCH("/profile", h.Profile.Update)

	api.POST("/contact", h.Contact.Submit)
}
