package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"qrsafe/internal/history"
	"qrsafe/internal/logging"
	"qrsafe/internal/pipeline"
	"qrsafe/internal/qrgen"
	"qrsafe/internal/server"
	"qrsafe/internal/summarize"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			lock := flock.New(cfg.LockFilePath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another qrsafe instance is already running (lock: %s)", cfg.LockFilePath())
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			generator, err := qrgen.New(cfg.QR)
			if err != nil {
				return err
			}

			summarizer := summarize.NewClient(cfg.LLM)
			p := pipeline.New(cfg, logger, summarizer, generator, store)
			srv := server.New(cfg, logger, p, store)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx); err != nil {
				return err
			}
			defer srv.Stop()

			logger.Info("qrsafe serving",
				logging.String("address", srv.Addr()),
				logging.String("history_db", store.Path()))

			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
}
