// Package server provides server-related CLI commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrei-cloud/go_pool/internal/bootstrap"
	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/andrei-cloud/go_pool/internal/manager"
	"github.com/andrei-cloud/go_pool/internal/metrics"
	"github.com/andrei-cloud/go_pool/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pool manager with its admin console",
		Long: `Load the template manifests, run the frame loop and expose the pool manager
through the TCP admin console and a Prometheus metrics endpoint.`,
		RunE: runServe,
	}

	// Add serve command specific flags that can override config.
	cmd.Flags().String("host", "localhost", "Admin console host")
	cmd.Flags().Int("port", 1600, "Admin console port")
	cmd.Flags().String("metrics-addr", ":9108", "Metrics listen address, empty disables")

	// Bind serve command flags to viper.
	v := config.GetViper()
	_ = v.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("metrics.addr", cmd.Flags().Lookup("metrics-addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Get()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rt, err := bootstrap.New(cfg, manager.WithMetrics(metrics.NewCollector(promReg)))
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	for _, w := range rt.Warnings {
		log.Warn().Err(w).Msg("template warning")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loopDone := make(chan error, 1)
	go func() { loopDone <- rt.Loop.Run(ctx) }()

	var srv *server.Server
	if cfg.Server.Enabled {
		serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv, err = server.NewServer(serverAddr, rt.Loop, cfg.Pool.Prewarm)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %v", err)
		}
		go func() {
			if err := srv.Start(); err != nil {
				log.Error().Err(err).Msg("admin console stopped")
				cancel()
			}
		}()
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" {
		metricsSrv = metrics.NewHTTPServer(cfg.Metrics.Addr, promReg)
		go func() {
			log.Info().Str("address", cfg.Metrics.Addr).Msg("metrics endpoint started")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics endpoint failed")
			}
		}()
	}

	// Trim free lists back to the prewarm level on SIGHUP.
	trimChan := make(chan os.Signal, 1)
	signal.Notify(trimChan, syscall.SIGHUP)
	defer signal.Stop(trimChan)
	go func() {
		for range trimChan {
			err := rt.Loop.Post(func(m *manager.Manager) {
				n := m.Trim(cfg.Pool.Prewarm)
				log.Info().Int("destroyed", n).Msg("trimmed pools")
			})
			if err != nil {
				return
			}
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopChan)

	select {
	case <-stopChan:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server...")

	if srv != nil {
		if err := srv.Stop(); err != nil {
			log.Error().Err(err).Msg("error during server shutdown")
		}
	}
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during metrics shutdown")
		}
		shutdownCancel()
	}

	cancel()
	<-loopDone

	// The loop has exited, so the manager is ours again.
	return rt.Manager.Close()
}
