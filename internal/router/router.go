package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/IAmShivay/motorcarbackedn/internal/handler"
	"github.com/IAmShivay/motorcarbackedn/internal/middleware"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/validate"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	guard *middleware.AuthGuard,
	authHandler *handler.AuthHandler,
	carHandler *handler.CarHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = validate.New()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Profile routes (hard gate)
	api.GET("/auth/me", authHandler.Me, guard.RequireAuth())
	api.PUT("/auth/me", authHandler.UpdateMe, guard.RequireAuth())

	// Listing routes. Search carries the soft gate so anonymous browsing
	// works while authenticated requests still get an identity bound.
	api.GET("/cars", carHandler.Search, guard.OptionalAuth())
	api.GET("/cars/stats", carHandler.Stats)
	api.GET("/cars/my-listings", carHandler.MyListings, guard.RequireAuth())
	api.GET("/cars/:id", carHandler.GetByID)
	api.POST("/cars", carHandler.Create, guard.RequireAuth())
	api.PUT("/cars/:id", carHandler.Update, guard.RequireAuth())
	api.DELETE("/cars/:id", carHandler.Delete, guard.RequireAuth())

	// Admin override: soft-deleted listings stay reachable here.
	admin := api.Group("/admin", guard.RequireAuth(), guard.RequireRoles(model.RoleAdmin))
	admin.GET("/cars/:id", carHandler.AdminGetByID)
}
