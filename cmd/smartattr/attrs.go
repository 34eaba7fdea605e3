package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sigreer/smartattr/internal/report"
)

var attrsCmd = &cobra.Command{
	Use:   "attrs [device]",
	Short: "Show decoded SMART attributes",
	Long: `Read the SMART attribute and threshold tables once and print every
attribute with its threshold, type, update policy and when-failed state.

Examples:
  smartattr attrs /dev/sda
  smartattr attrs /dev/sda --json
  smartattr attrs --data data.bin --thresholds thresholds.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttrs,
}

func init() {
	attrsCmd.Flags().Bool("json", false, "Output as JSON")
	addSourceFlags(attrsCmd)
}

func runAttrs(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	coll, _, err := readCycle(sourceFor(cmd, cfg.Device), cfg.Device)
	if err != nil {
		return err
	}

	if jsonOut {
		return report.PrintJSON(os.Stdout, report.NewAttributesResult(cfg.Device, coll))
	}
	report.PrintTable(os.Stdout, coll, cfg.AttributeNames())
	return nil
}
