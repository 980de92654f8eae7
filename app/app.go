package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"Gin_postgres_redis_library/config"
	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/library"
	"Gin_postgres_redis_library/notify"
	"Gin_postgres_redis_library/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// short aliases for handlers
type Ctx = gin.Context
type H = gin.H

// App holds the process-wide dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config config.Config
	Log    *slog.Logger

	Repo          *db.Repo
	Borrows       *library.BorrowService
	Donations     *library.DonationService
	Tracker       *library.Tracker
	Stats         *library.Stats
	Notifications *notify.Sink

	appSess *session.AppSessionStore
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

// New connects Postgres and Redis and builds the services.
func New(cfg config.Config) (*App, error) {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)

	dbConn, err := db.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	return Build(cfg, log, r, dbConn, rdb)
}

// Build wires the services over already opened stores.
func Build(cfg config.Config, log *slog.Logger, r *gin.Engine, dbConn *gorm.DB, rdb *redis.Client) (*App, error) {
	iso, err := cfg.Isolation()
	if err != nil {
		return nil, err
	}
	repo := db.NewRepo(dbConn)
	sink := notify.NewSink(repo, rdb)
	deps := library.Deps{
		Repo: repo,
		Tx: library.NewCoordinator(dbConn, library.TxOptions{
			Timeout:    cfg.TxTimeout,
			Isolation:  iso,
			SyncCommit: cfg.TxSyncCommit,
		}, log),
		Notifier:      sink,
		NotifyTimeout: cfg.NotifyTimeout,
		Log:           log,
	}
	return &App{
		Router:        r,
		DB:            dbConn,
		RDB:           rdb,
		Config:        cfg,
		Log:           log,
		Repo:          repo,
		Borrows:       library.NewBorrowService(deps),
		Donations:     library.NewDonationService(deps),
		Tracker:       library.NewTracker(repo),
		Stats:         library.NewStats(repo),
		Notifications: sink,
		appSess:       session.NewAppSessionStore(rdb, 24*time.Hour),
	}, nil
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
