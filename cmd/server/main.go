package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/zerowaste/connect/internal/config"
	"github.com/zerowaste/connect/internal/database"
	"github.com/zerowaste/connect/internal/handler"
	"github.com/zerowaste/connect/internal/queue"
	"github.com/zerowaste/connect/internal/repository"
	"github.com/zerowaste/connect/internal/router"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	store := database.NewStore(database.Credentials{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	// The server starts serving before storage is reachable; the loop
	// retries every 5 seconds and never terminates the process.
	go store.ConnectLoop(context.Background())

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	accounts := repository.NewAccountRepo(store, cfg.BcryptCost)
	donations := repository.NewDonationRepo(store)
	contacts := repository.NewContactRepo(store)
	events := queue.NewPublisherFromEnv()

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, accounts),
		Donation: handler.NewDonationHandler(donations, events),
		Profile:  handler.NewProfileHandler(accounts),
		Contact:  handler.NewContactHandler(contacts, events),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	router.Register(e, cfg, store, h, rdb)

	queue.StartEventConsumers()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
