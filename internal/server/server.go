package server

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"wingo/internal/cache"
	"wingo/internal/config"
	"wingo/internal/database"
	"wingo/internal/house"
	"wingo/internal/wingo"
)

type FiberServer struct {
	*fiber.App

	cfg      *config.Config
	game     *wingo.Game
	db       database.Service
	cache    cache.Service
	house    *house.Resolver
	validate *validator.Validate
	log      *logrus.Entry
}

// New connects the infrastructure and loads the game. Postgres and Redis are
// optional: without them the game runs in memory and uncached.
func New(ctx context.Context, cfg *config.Config) (*FiberServer, error) {
	log := logrus.WithField("component", "server")

	var store wingo.Store = wingo.NopStore{}
	db, err := database.New(cfg.Database)
	if err != nil {
		log.WithError(err).Warn("running without database, state is in memory only")
		db = nil
	} else {
		if err := database.RunMigrations(db.DB(), cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		store = database.NewStore(db.DB())
	}

	var roundCache wingo.RoundCache
	redisService, err := cache.New(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("running without redis cache")
		redisService = nil
	} else {
		roundCache = cache.NewRoundCache(redisService.GetClient())
	}

	admins := make([]wingo.Principal, 0, len(cfg.Admins))
	for _, a := range cfg.Admins {
		admins = append(admins, wingo.Principal(a))
	}
	game, err := wingo.NewGame(ctx, wingo.Options{
		RoundDuration: cfg.RoundDuration,
		Store:         store,
		Cache:         roundCache,
		Admins:        admins,
	})
	if err != nil {
		if redisService != nil {
			redisService.Close()
		}
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	s := newFiberServer(cfg, game)
	s.db = db
	s.cache = redisService

	if cfg.House.Enabled {
		s.house = house.NewResolver(game, wingo.Principal(cfg.House.Principal), cfg.House.Interval)
		s.house.Start()
	}
	return s, nil
}

func newFiberServer(cfg *config.Config, game *wingo.Game) *FiberServer {
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader:  "wingo",
			AppName:       "wingo",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			IdleTimeout:   120 * time.Second,
			StrictRouting: false,
		}),

		cfg:      cfg,
		game:     game,
		validate: validator.New(),
		log:      logrus.WithField("component", "server"),
	}

	server.App.Use(recover.New())
	if cfg.RateLimitMax > 0 {
		server.App.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: 1 * time.Minute,
		}))
	}

	server.RegisterFiberRoutes()
	return server
}

// Shutdown stops the house resolver, then the HTTP server, then the connections.
func (s *FiberServer) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down")

	if s.house != nil {
		s.house.Stop()
	}

	err := s.App.ShutdownWithContext(ctx)

	if s.cache != nil {
		s.cache.Close()
	}
	if s.db != nil {
		s.db.Close()
	}

	return err
}
