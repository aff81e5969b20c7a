package main

import (
	"os"

	"accessibility-admin-api/internal/backup"
	"accessibility-admin-api/internal/config"
	"accessibility-admin-api/internal/database"
	"accessibility-admin-api/internal/handlers"
	"accessibility-admin-api/internal/logger"
	"accessibility-admin-api/internal/routes"

	"go.uber.org/zap"
)

func main() {
	log, err := logger.Provide(os.Getenv("ADMIN_DEV_LOG") == "1")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	if err := database.InitDB(cfg.Database.Path); err != nil {
		log.Fatal("failed to init database", zap.Error(err))
	}
	log.Info("database connected and migrated", zap.String("path", cfg.Database.Path))

	handlers.SetEstimationHoursPerDay(cfg.Estimation.HoursPerDay)
	handlers.ConfigureEditor(cfg.Editor.SessionTTL, cfg.Editor.Debounce)
	handlers.ConfigureBackups(&backup.Service{
		DBPath: database.DBPath,
		Dir:    cfg.Backup.Dir,
		Retain: cfg.Backup.Retain,
	})

	ginRoutes := routes.SetupRoutes(routes.Options{
		EnforceAllowList:  cfg.AllowList.Enforce,
		AllowListCacheTTL: cfg.AllowList.CacheTTL,
	})

	log.Info("server starting",
		zap.String("addr", cfg.Server.Addr),
		zap.Bool("allowlist_enforced", cfg.AllowList.Enforce),
	)

	if err := ginRoutes.Run(cfg.Server.Addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
