package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"speech-pace-go/internal/config"
	"speech-pace-go/internal/httpapi"
	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/processor"
)

func main() {
	_ = godotenv.Load() // loads .env

	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("invalid configuration")
	}
	log := logger.NewWith(cfg.Environment, cfg.LogLevel, os.Stdout)
	log.WithField("backend", cfg.Backend).Info("starting service")

	proc, err := processor.Build(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build pipeline")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.NewRouter(httpapi.NewHandlers(proc, log, cfg.MaxUploadBytes)),
		ReadHeaderTimeout: 15 * time.Second,
		// large uploads need longer than the header deadline
		ReadTimeout:  cfg.UploadTimeout,
		WriteTimeout: cfg.UploadTimeout + cfg.TranscribeTimeout + time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
