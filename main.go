package main

import (
	"time"

	"go.uber.org/zap"

	"ccis-go/internal/config"
	"ccis-go/internal/database"
	logger "ccis-go/internal/logging"
	"ccis-go/internal/models"
	"ccis-go/internal/router"
	"ccis-go/internal/services"
)

func main() {
	// Bootstrap logger first with defaults; config hot-reload needs a logger
	// before the config file is read.
	log, err := logger.Init(logger.Options{})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { log.Sync() }()

	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Rebuild the logger with the configured rotation settings.
	logConf := config.Conf.Logging
	log, err = logger.Init(logger.Options{
		Directory:  logConf.Directory,
		MaxSize:    logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAge:     logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	if err := database.Init(log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Load difficulty tier definitions at startup.
	tiers := models.DefaultTiers()
	if path := config.Conf.Assessment.TiersFile; path != "" {
		tiers, err = models.LoadTiers(path)
		if err != nil {
			log.Fatal("Failed to load difficulty tiers", zap.Error(err))
		}
	}

	notifier := services.NewNotifier(log, nil)

	scheduler := services.NewScheduler(log, notifier,
		time.Duration(config.Conf.Assessment.SweepIntervalSeconds)*time.Second)
	scheduler.Start()

	r := router.Setup(log, notifier, tiers)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
