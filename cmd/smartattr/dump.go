package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigreer/smartattr/internal/ata"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [device]",
	Short: "Save the raw SMART tables to files",
	Long: `Read the raw 512-byte attribute and threshold tables from the device
and write them to data.bin and thresholds.bin in the output directory.
The files can be decoded later with "attrs --data --thresholds".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		if err := ata.WriteDump(ata.NewDevice(cfg.Device), outDir); err != nil {
			log.Error().Err(err).Str("device", cfg.Device).Msg("dump failed")
			return err
		}
		fmt.Printf("Saved %s tables to %s\n", cfg.Device, outDir)
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringP("out-dir", "o", ".", "directory to write the dump files into")
}
