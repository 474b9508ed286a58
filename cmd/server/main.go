package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-booking-platform/internal/config"
	"github.com/iliyamo/travel-booking-platform/internal/database"
	"github.com/iliyamo/travel-booking-platform/internal/handler"
	"github.com/iliyamo/travel-booking-platform/internal/middleware"
	"github.com/iliyamo/travel-booking-platform/internal/queue"
	"github.com/iliyamo/travel-booking-platform/internal/repository"
	"github.com/iliyamo/travel-booking-platform/internal/router"
	"github.com/iliyamo/travel-booking-platform/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient()
	defer func() { _ = rdb.Close() }()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	products := repository.NewProductRepo(db)
	inventory := repository.NewInventoryRepo(db)
	carts := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(products, inventory)
	cartH := handler.NewCartHandler(products, inventory, carts, orders, cfg.HoldTTL)
	orderH := handler.NewOrderHandler(orders, inventory, products)
	agentH := handler.NewAgentHandler(orders, inventory, products)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, catalogH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCustomer(e, cartH, orderH, cfg.JWTSecret)
	router.RegisterAgent(e, agentH, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := &worker.HoldSweeper{Carts: carts, Inventory: inventory, Interval: cfg.SweepInterval}
	go sweeper.Run(ctx)

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()
	if err := e.Start(addr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
