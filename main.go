package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moonflow/archive"
	"moonflow/config"
	"moonflow/internal/dashboard"
	"moonflow/internal/metrics"
	"moonflow/logger"
	"moonflow/moondev"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Moonflow.Name,
		"version": cfg.Moonflow.Version,
	}).Info("starting moonflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.InitCloudWatch(cfg.Storage.S3.Region, "Moonflow", cfg.Logging.DashboardName)
		logger.StartReport(ctx, log, 30*time.Second)
	}

	if cfg.Metrics.Enabled {
		metrics.Init(cfg.Metrics.Address)
	}

	client, err := moondev.FromConfig(cfg.API)
	if err != nil {
		log.WithError(err).Error("failed to create API client")
		os.Exit(1)
	}

	var recorder *archive.Recorder
	if cfg.Recorder.Enabled {
		if !cfg.Storage.S3.Enabled {
			log.Error("recorder requires storage.s3 to be enabled")
			os.Exit(1)
		}
		uploader, err := archive.NewS3Uploader(cfg.Storage.S3)
		if err != nil {
			log.WithError(err).Error("failed to create S3 uploader")
			os.Exit(1)
		}
		recorder = archive.NewRecorder(cfg.Recorder, cfg.Storage.S3.Prefix, client, uploader)
	} else {
		log.WithComponent("main").Info("recorder disabled; nothing will be archived")
	}

	dash := dashboard.NewServer(cfg.Dashboard, log, recorder)

	var wg sync.WaitGroup

	if recorder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := recorder.Start(ctx); err != nil {
				log.WithError(err).Warn("recorder failed to start")
			}
		}()
	}

	if dash != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dash.Run(ctx, cfg.Moonflow.Name); err != nil {
				log.WithError(err).Warn("dashboard server failed")
			}
		}()
		log.WithFields(logger.Fields{"address": dash.Address()}).Info("dashboard listening")
	}

	log.Info("all components started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")

	log.Info("starting graceful shutdown")
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("graceful shutdown completed")
	case <-time.After(30 * time.Second):
		log.Warn("graceful shutdown timeout exceeded")
	}

	log.Info("moonflow stopped")
}
