package main

import (
	"context"
	"os"
	"time"

	"lavish/internal/amqp"
	"lavish/internal/cli"
	"lavish/internal/config"
	"lavish/internal/log"
	"lavish/internal/sheets"
	gsheet "lavish/internal/sheets/google"
	"lavish/internal/sheets/memory"
	"lavish/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger(nil, nil).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, nil)
	logger.Info("Starting lavish-worker", "mirror", cfg.MirrorBackend)

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	persister, res, err := cli.OpenSlot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer res.Close()

	mirror, err := newMirror(ctx, cfg, logger)
	if err != nil {
		return err
	}

	exportOpts, err := cli.ExportOptions(cfg)
	if err != nil {
		return err
	}

	wcfg := worker.DefaultConfig()
	wcfg.Debounce = cfg.MirrorDebounce
	wcfg.ExportOptions = exportOpts
	w := worker.NewMirrorWorker(persister, mirror, wcfg, logger)

	var consume worker.ConsumeFunc
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		consume = client.ConsumeChanges
	} else {
		logger.Warn("AMQP_URL not set, refreshing the mirror on the resync interval only",
			"interval", wcfg.ResyncInterval.String())
	}

	if err := w.Run(ctx, consume); err != nil {
		return err
	}
	<-done
	return nil
}

func newMirror(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.LedgerMirror, error) {
	if cfg.MirrorBackend != "sheets" {
		logger.Warn("Mirroring into this process only, nothing outside the worker can read it; set MIRROR_BACKEND=sheets to publish",
			"mirror_backend", cfg.MirrorBackend)
		return memory.New(), nil
	}
	return gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, logger)
}
