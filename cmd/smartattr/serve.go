package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigreer/smartattr/internal/cache"
	"github.com/sigreer/smartattr/internal/metrics"
	"github.com/sigreer/smartattr/internal/smart"
)

var serveCmd = &cobra.Command{
	Use:   "serve [device]",
	Short: "Expose SMART attributes as Prometheus metrics",
	Long: `Serve /metrics for one device. Each scrape reuses the last read cycle
until the refresh interval has passed, so scrapes never issue device
commands more often than metrics.interval.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address, overrides metrics.listen")
	serveCmd.Flags().Duration("interval", 0, "minimum time between device reads, overrides metrics.interval")
	addSourceFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Metrics.Listen = listen
	}
	if interval, _ := cmd.Flags().GetDuration("interval"); interval > 0 {
		cfg.Metrics.Interval = interval
	}

	src := sourceFor(cmd, cfg.Device)
	results := cache.New[*smart.Collection](cfg.Metrics.Interval)
	exporter := metrics.NewExporter(cfg.Device, cfg.AttributeNames(), func() (*smart.Collection, error) {
		return results.GetOrFetch(cfg.Device, func() (*smart.Collection, error) {
			coll, _, err := readCycle(src, cfg.Device)
			return coll, err
		})
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(exporter)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("listen", cfg.Metrics.Listen).Str("device", cfg.Device).
		Dur("interval", cfg.Metrics.Interval).Msg("serving SMART metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
