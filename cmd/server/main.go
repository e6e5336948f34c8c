package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iwacu250/landplots/internal/auth"
	"github.com/iwacu250/landplots/internal/config"
	"github.com/iwacu250/landplots/internal/database"
	"github.com/iwacu250/landplots/internal/handler"
	"github.com/iwacu250/landplots/internal/middleware"
	"github.com/iwacu250/landplots/internal/queue"
	"github.com/iwacu250/landplots/internal/repository"
	"github.com/iwacu250/landplots/internal/router"
	"github.com/iwacu250/landplots/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	codec, err := auth.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("jwt secret: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	plots := repository.NewPlotRepo(db)
	houses := repository.NewHouseRepo(db)
	plotImages := repository.NewPlotImageRepo(db)
	houseImages := repository.NewHouseImageRepo(db)
	features := repository.NewFeatureRepo(db)
	inquiries := repository.NewInquiryRepo(db)
	settings := repository.NewSettingRepo(db)

	authSvc := auth.NewService(users, roles, tokens, codec,
		cfg.BcryptCost,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDay)*24*time.Hour,
		time.Duration(cfg.ResetTTLMin)*time.Minute,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	if err := settings.SeedDefaults(ctx); err != nil {
		log.Printf("seeding settings failed: %v", err)
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiter disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	go func() {
		if err := queue.StartInquiryConsumer(); err != nil {
			log.Printf("inquiry consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.Authenticate(authSvc))

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, authSvc),
		Files:     handler.NewFileHandler(store),
		Plots:     handler.NewPublicPlotHandler(plots),
		Houses:    handler.NewPublicHouseHandler(houses),
		AdminP:    handler.NewAdminPlotHandler(plots, plotImages, store),
		AdminH:    handler.NewAdminHouseHandler(houses, houseImages, store),
		Features:  handler.NewFeatureHandler(features),
		Inquiries: handler.NewInquiryHandler(inquiries, plots),
		Settings:  handler.NewSettingHandler(settings),
		Dashboard: handler.NewDashboardHandler(plots, houses, inquiries),
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, h, limitMW)
	router.RegisterPublic(e, h, cacheMW, limitMW)
	router.RegisterAdmin(e, h)

	// local driver: serve the upload directory directly
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		e.Static(cfg.Storage.PublicBaseURL, cfg.Storage.UploadDir)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
