package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/seatflow/seatflow/internal/config"
	"github.com/seatflow/seatflow/internal/database"
	"github.com/seatflow/seatflow/internal/handler"
	"github.com/seatflow/seatflow/internal/middleware"
	"github.com/seatflow/seatflow/internal/queue"
	"github.com/seatflow/seatflow/internal/repository"
	"github.com/seatflow/seatflow/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// Optional Redis for response caching and rate limiting; nil disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Background audit consumer; keeps its own reconnect loop.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	overrideRepo := repository.NewOverrideRepo(db)
	squadRepo := repository.NewSquadRepo(db)
	batchRepo := repository.NewBatchRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo), cfg.JWTSecret)
	router.RegisterAPI(e, router.APIHandlers{
		Seats:    handler.NewSeatHandler(seatRepo, bookingRepo, overrideRepo, userRepo),
		Bookings: handler.NewBookingHandler(bookingRepo, seatRepo, overrideRepo, userRepo),
		Users:    handler.NewUserHandler(userRepo),
		Admin:    handler.NewAdminHandler(squadRepo, batchRepo),
	}, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
