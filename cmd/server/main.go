package main

import (
    "log"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/bookfair-stall-reservation/internal/config"
    "github.com/iliyamo/bookfair-stall-reservation/internal/database"
    "github.com/iliyamo/bookfair-stall-reservation/internal/handler"
    "github.com/iliyamo/bookfair-stall-reservation/internal/queue"
    "github.com/iliyamo/bookfair-stall-reservation/internal/repository"
    "github.com/iliyamo/bookfair-stall-reservation/internal/router"
    "github.com/iliyamo/bookfair-stall-reservation/internal/selection"
    "github.com/iliyamo/bookfair-stall-reservation/internal/validator"
    "github.com/iliyamo/bookfair-stall-reservation/internal/workflow"
)

func main() {
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: cache and rate limiting pass through when nil.
    rdb := config.NewRedisClient()

    stallRepo := repository.NewStallRepo(db)
    reservationRepo := repository.NewReservationRepo(db)
    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)

    authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
    publicH := handler.NewPublicHandler(stallRepo)
    vendorH := handler.NewVendorHandler(stallRepo, reservationRepo,
        selection.NewStore(), workflow.NewStore(),
        validator.New(), workflow.SimulatedPaymentGate{})
    organizerH := handler.NewOrganizerHandler(stallRepo, reservationRepo)

    // Background consumer that writes confirmation notifications.  It
    // reconnects on its own; a broker outage never blocks the API.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, config.LoadCacheConfig(), config.LoadRateLimitConfig(), rdb)
    router.RegisterVendor(e, vendorH, cfg.JWTSecret)
    router.RegisterOrganizer(e, organizerH, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
