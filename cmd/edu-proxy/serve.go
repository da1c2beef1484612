package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/edu-api-proxy/internal/api"
	"github.com/Sternrassler/edu-api-proxy/internal/directory"
	"github.com/Sternrassler/edu-api-proxy/internal/export"
	"github.com/Sternrassler/edu-api-proxy/internal/lookup"
	"github.com/Sternrassler/edu-api-proxy/pkg/warmup"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func (app *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}

	flags := cmd.Flags()
	flags.StringP("addr", "a", ":8000", "address to listen on")
	flags.String("thana-base-url", directory.DefaultThanaBaseURL, "base URL of the thana upstream")
	flags.String("institute-base-url", directory.DefaultInstituteBaseURL, "base URL of the institute and employee upstream")
	flags.String("export-dir", ".", "directory for CSV exports")
	flags.Bool("warm-on-start", false, "pre-load thana lists for all districts at startup")
	flags.Int("warm-workers", 4, "parallel warmup fetches")
	app.viper.BindPFlag("addr", flags.Lookup("addr"))
	app.viper.BindPFlag("thana_base_url", flags.Lookup("thana-base-url"))
	app.viper.BindPFlag("institute_base_url", flags.Lookup("institute-base-url"))
	app.viper.BindPFlag("export_dir", flags.Lookup("export-dir"))
	app.viper.BindPFlag("warm_on_start", flags.Lookup("warm-on-start"))
	app.viper.BindPFlag("warm_workers", flags.Lookup("warm-workers"))

	return cmd
}

func (app *cli) serve(ctx context.Context) error {
	cfg := app.config

	eduClient, err := app.newClient()
	if err != nil {
		return err
	}

	tables, err := lookup.Load()
	if err != nil {
		return err
	}

	svc := directory.New(eduClient, directory.NewEndpoints(cfg.ThanaBaseURL, cfg.InstituteBaseURL), tables)

	server := api.New(api.Options{
		Version:   version,
		Directory: svc,
		Cache:     eduClient,
		Exporter:  export.New(cfg.ExportDir),
	})

	if cfg.WarmOnStart {
		warmer := warmup.New(eduClient, warmup.Config{MaxConcurrency: cfg.WarmWorkers})
		go warmer.Run(ctx, svc.WarmupJobs())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
