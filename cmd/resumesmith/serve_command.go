package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"resumesmith/internal/logging"
	"resumesmith/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP generation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bindFlag != "" {
				cfg.Server.Bind = bindFlag
			}

			lockPath := cfg.Server.LockFile
			if lockPath == "" {
				lockPath = filepath.Join(cfg.Paths.LogDir, "resumesmith.lock")
			}
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another resumesmith server is already running (lock %s)", lockPath)
			}
			defer lock.Unlock()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			svc, err := ctx.newGenerationService(logger)
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, svc, logger)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := srv.Start(signalCtx); err != nil {
				return err
			}
			defer srv.Stop()

			<-signalCtx.Done()
			logger.Info("shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Override the configured bind address")
	return cmd
}
