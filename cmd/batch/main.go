package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"speech-pace-go/internal/aggregator"
	"speech-pace-go/internal/batch"
	"speech-pace-go/internal/config"
	"speech-pace-go/internal/dataset"
	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/processor"
)

func main() {
	_ = godotenv.Load()

	manifest := flag.String("manifest", "", "xlsx manifest listing media files")
	out := flag.String("out", "speech_pace_results.xlsx", "xlsx report to write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("invalid configuration")
	}
	log := logger.NewWith(cfg.Environment, cfg.LogLevel, os.Stdout)
	if *manifest == "" {
		log.Fatal("-manifest is required")
	}

	records, err := dataset.LoadManifest(*manifest)
	if err != nil {
		log.WithError(err).WithField("manifest", *manifest).Fatal("failed to load manifest")
	}

	proc, err := processor.Build(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build pipeline")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	results := batch.Run(ctx, proc, records, log)
	sum := aggregator.Aggregate(batch.Results(results))
	if err := dataset.WriteReport(*out, results, sum); err != nil {
		log.WithError(err).Fatal("failed to write report")
	}
	log.WithField("out", *out).
		WithField("total", sum.Total).
		WithField("succeeded", sum.Succeeded).
		WithField("mean_wpm", sum.MeanWPM).
		Info("batch complete")
}
