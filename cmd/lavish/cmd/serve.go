package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lavish/internal/cli"
	apphttp "lavish/internal/http"
	"lavish/internal/log"
	"lavish/internal/voice"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger page and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default $PORT or 8081)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg, nil)
	if servePort != "" {
		cfg.Port = servePort
	}

	l, err := cli.OpenLedger(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		return err
	}
	defer l.Close()

	exportOpts, err := cli.ExportOptions(cfg)
	if err != nil {
		return err
	}

	transcriber := voice.New(voice.Config{APIKey: cfg.OpenAIAPIKey, Language: cfg.VoiceLanguage}, logger)
	if !transcriber.Available() {
		logger.Info("Voice input disabled, OPENAI_API_KEY not set")
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:              l.Store,
		Transcriber:        transcriber,
		Logger:             logger,
		ExportOptions:      exportOpts,
		CacheSize:          cfg.CacheSize,
		CacheTTL:           cfg.CacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		return err
	}

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting lavish server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldCount, l.Store.Len(),
		"amqp_enabled", l.Publisher != nil,
		"voice_enabled", transcriber.Available())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		return err
	}

	<-done
	logger.Info("Server stopped gracefully")
	return nil
}
