package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigreer/smartattr/internal/notify"
	"github.com/sigreer/smartattr/internal/report"
	"github.com/sigreer/smartattr/internal/smart"
)

// Exit codes
const (
	exitHealthy     = 0
	exitWarning     = 1
	exitCritical    = 2
	exitUnavailable = 3
)

// HealthcheckResult contains the complete health check output
type HealthcheckResult struct {
	Timestamp      time.Time                 `json:"timestamp"`
	Device         string                    `json:"device"`
	Status         string                    `json:"status"` // healthy, warning, critical, unavailable
	Summary        smart.Summary             `json:"summary"`
	Failing        []notify.FailingAttribute `json:"failing,omitempty"`
	Error          string                    `json:"error,omitempty"`
	ScanDurationMs int64                     `json:"scan_duration_ms"`
}

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck [device]",
	Short: "Check SMART attribute health",
	Long: `Perform one read cycle and report the overall verdict:
  - healthy   every attribute passes or has no threshold (exit 0)
  - warning   an attribute failed in the past (exit 1)
  - critical  a pre-fail attribute is failing now (exit 2)
  - unavailable the SMART tables could not be read (exit 3)

With --nats the verdict is also published as a health event.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHealthcheck,
}

func init() {
	healthcheckCmd.Flags().Bool("json", false, "Output as JSON")
	healthcheckCmd.Flags().Bool("nats", false, "Publish the health event to NATS (nats.url in config)")
	healthcheckCmd.Flags().String("nats-url", "", "NATS server URL, overrides config")
	addSourceFlags(healthcheckCmd)
}

func runHealthcheck(cmd *cobra.Command, args []string) {
	start := time.Now()
	jsonOut, _ := cmd.Flags().GetBool("json")
	publish, _ := cmd.Flags().GetBool("nats")
	natsURL, _ := cmd.Flags().GetString("nats-url")

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(exitUnavailable)
	}
	if natsURL != "" {
		cfg.NATS.URL = natsURL
	}

	result := &HealthcheckResult{
		Timestamp: start,
		Device:    cfg.Device,
	}

	coll, cycle, err := readCycle(sourceFor(cmd, cfg.Device), cfg.Device)
	if err != nil {
		result.Status = "unavailable"
		result.Error = err.Error()
		result.ScanDurationMs = time.Since(start).Milliseconds()
		printHealthcheck(result, jsonOut)
		os.Exit(exitUnavailable)
	}

	event := notify.BuildEvent(cfg.Device, cycle, coll, cfg.AttributeNames())
	result.Summary = event.Summary
	result.Status = event.Summary.Status
	result.Failing = event.Failing
	result.ScanDurationMs = time.Since(start).Milliseconds()

	if publish {
		if err := publishEvent(cfg.NATS.URL, cfg.NATS.Subject, event); err != nil {
			log.Error().Err(err).Str("device", cfg.Device).Msg("failed to publish health event")
		}
	}

	printHealthcheck(result, jsonOut)
	os.Exit(exitCode(result.Status))
}

func publishEvent(url, subject string, event notify.Event) error {
	if url == "" {
		return fmt.Errorf("no NATS url configured")
	}
	nc, closeConn, err := notify.Connect(url)
	if err != nil {
		return err
	}
	defer closeConn()
	return notify.PublishEvent(nc, subject, event)
}

func exitCode(status string) int {
	switch status {
	case smart.StatusHealthy:
		return exitHealthy
	case smart.StatusWarning:
		return exitWarning
	case smart.StatusCritical:
		return exitCritical
	}
	return exitUnavailable
}

func printHealthcheck(result *HealthcheckResult, jsonOut bool) {
	if jsonOut {
		report.PrintJSON(os.Stdout, result)
		return
	}

	fmt.Printf("\nSMART Health Check: %s\n", result.Device)
	fmt.Printf("  Timestamp: %s (took %dms)\n", result.Timestamp.Format("2006-01-02 15:04:05"), result.ScanDurationMs)
	fmt.Println()

	if result.Error != "" {
		fmt.Printf("✗ UNAVAILABLE: %s\n", result.Error)
		return
	}

	report.PrintSummary(os.Stdout, result.Summary)
	for _, f := range result.Failing {
		fmt.Printf("  %3d %-24s value %d worst %d thresh %d: %s\n",
			f.ID, f.Name, f.Value, f.Worst, f.Threshold, f.State)
	}
}
