package main

import (
	"net/http"
	"os"

	_ "github.com/IAmShivay/motorcarbackedn/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/IAmShivay/motorcarbackedn/internal/auth"
	"github.com/IAmShivay/motorcarbackedn/internal/cache"
	"github.com/IAmShivay/motorcarbackedn/internal/config"
	"github.com/IAmShivay/motorcarbackedn/internal/db"
	"github.com/IAmShivay/motorcarbackedn/internal/handler"
	"github.com/IAmShivay/motorcarbackedn/internal/logger"
	"github.com/IAmShivay/motorcarbackedn/internal/middleware"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/repository"
	"github.com/IAmShivay/motorcarbackedn/internal/router"
	"github.com/IAmShivay/motorcarbackedn/internal/service"
	"github.com/IAmShivay/motorcarbackedn/internal/validate"
)

// @title Motorcar API
// @version 1.0
// @description Vehicle classifieds API with listings search, statistics and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New()

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.Car{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("failed to drop table (may not exist)")
			}
		}
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Car{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	carRepo := repository.NewCarRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	tokenStore := auth.NewTokenStore(cacheClient)
	guard := middleware.NewAuthGuard(jwtService, userRepo)

	// Initialize services
	validator := validate.New()
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cfg.BcryptCost, log)
	carService := service.NewCarService(carRepo, validator, cfg.DefaultCountry, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	carHandler := handler.NewCarHandler(carService)

	// Register routes
	router.Register(e, guard, authHandler, carHandler)

	if cfg.SwaggerHost != "" {
		log.Info().Str("host", cfg.SwaggerHost).Msg("swagger docs available")
	} else {
		log.Info().Msgf("swagger docs available at http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
