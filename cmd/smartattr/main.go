package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigreer/smartattr/internal/ata"
	"github.com/sigreer/smartattr/internal/config"
	"github.com/sigreer/smartattr/internal/smart"
	"github.com/sigreer/smartattr/internal/version"
)

var (
	cfgFile   string
	verbosity string
)

var rootCmd = &cobra.Command{
	Use:   "smartattr",
	Short: "Read and classify ATA SMART attributes",
	Long: `smartattr reads the SMART attribute and threshold tables from an ATA
block device, decodes every attribute and classifies its health the way
smartctl -A does (pre-fail/old-age, always/offline, when-failed).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setUpLogs(verbosity)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/smartattr/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", zerolog.WarnLevel.String(), "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(attrsCmd)
	rootCmd.AddCommand(healthcheckCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// setUpLogs sets the log output and the log level
func setUpLogs(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	return nil
}

// loadConfig loads the config file and resolves the device from args
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if len(args) > 0 {
		cfg.Device = args[0]
	}
	return cfg, nil
}

// addSourceFlags registers the dump-file flags shared by read commands
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "read the attribute table from this 512-byte dump instead of the device")
	cmd.Flags().String("thresholds", "", "read the threshold table from this 512-byte dump")
	cmd.MarkFlagsRequiredTogether("data", "thresholds")
}

// sourceFor returns the dump source when dump flags are set, else the device
func sourceFor(cmd *cobra.Command, device string) smart.Source {
	dataPath, _ := cmd.Flags().GetString("data")
	threshPath, _ := cmd.Flags().GetString("thresholds")
	if dataPath != "" {
		return &ata.Dump{DataPath: dataPath, ThresholdsPath: threshPath}
	}
	return ata.NewDevice(device)
}

// readCycle runs one read cycle and logs it under a fresh cycle id
func readCycle(src smart.Source, device string) (*smart.Collection, string, error) {
	cycle := uuid.NewString()
	logger := log.With().Str("device", device).Str("cycle", cycle).Logger()

	coll, err := smart.Read(src)
	if err != nil {
		logger.Error().Err(err).Msg("smart read cycle failed")
		return nil, cycle, err
	}
	logger.Debug().Int("attributes", coll.Len()).Msg("smart read cycle complete")
	return coll, cycle, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
