package main

import (
	"log/slog"
	"os"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/config"
	"Gin_postgres_redis_library/routes"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		slog.Error("env", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("startup", "err", err)
		os.Exit(1)
	}
	defer application.Close()

	routes.RegisterRoutes(application.Router, application)

	slog.Info("listening", "port", cfg.Port)
	if err := application.Router.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "err", err)
	}
}
