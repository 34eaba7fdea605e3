// Package ata supplies raw SMART tables to the smart package, either from
// a block device via the HDIO_DRIVE_CMD ioctl or from saved dump files.
package ata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sigreer/smartattr/internal/smart"
)

// ATA command bytes for SMART table reads
const (
	CmdSmart            = 0xb0
	FeatureReadData     = 0xd0
	FeatureReadThresh   = 0xd1
	driveCmdHeaderBytes = 4
)

var (
	// ErrUnsupported is returned on platforms without HDIO_DRIVE_CMD
	ErrUnsupported = errors.New("HDIO_DRIVE_CMD not supported on this platform")

	// ErrShortBuffer is returned when a dump file is not a full table
	ErrShortBuffer = errors.New("dump file is not 512 bytes")
)

// Default dump file names inside a dump directory
const (
	DataFile       = "data.bin"
	ThresholdsFile = "thresholds.bin"
)

// Dump reads both tables from files on disk
type Dump struct {
	DataPath       string
	ThresholdsPath string
}

// DumpDir returns a Dump reading the default file names inside dir
func DumpDir(dir string) *Dump {
	return &Dump{
		DataPath:       filepath.Join(dir, DataFile),
		ThresholdsPath: filepath.Join(dir, ThresholdsFile),
	}
}

// ReadTables implements smart.Source
func (d *Dump) ReadTables() (smart.Tables, error) {
	data, err := readTableFile(d.DataPath)
	if err != nil {
		return smart.Tables{}, &smart.AcquisitionError{Table: smart.TableData, Err: err}
	}
	thresh, err := readTableFile(d.ThresholdsPath)
	if err != nil {
		return smart.Tables{}, &smart.AcquisitionError{Table: smart.TableThresholds, Err: err}
	}
	return smart.Tables{Data: data, Thresholds: thresh}, nil
}

func readTableFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(b) != smart.TableSize {
		return nil, fmt.Errorf("%s: %d bytes: %w", path, len(b), ErrShortBuffer)
	}
	return b, nil
}

// WriteDump reads one pair of tables from src and saves them into dir
// using the default file names.
func WriteDump(src smart.Source, dir string) error {
	tables, err := src.ReadTables()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DataFile), tables.Data, 0644); err != nil {
		return fmt.Errorf("failed to write data table: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ThresholdsFile), tables.Thresholds, 0644); err != nil {
		return fmt.Errorf("failed to write threshold table: %w", err)
	}
	return nil
}

// driveCmdArgs builds the HDIO_DRIVE_CMD argument block: command,
// sector count, feature, sector number, then room for one 512-byte sector.
func driveCmdArgs(feature byte) []byte {
	args := make([]byte, driveCmdHeaderBytes+smart.TableSize)
	args[0] = CmdSmart
	args[1] = 0x01
	args[2] = feature
	args[3] = 0x01
	return args
}

// tableFromArgs copies the sector out of the argument block so the
// caller never aliases it.
func tableFromArgs(args []byte) []byte {
	table := make([]byte, smart.TableSize)
	copy(table, args[driveCmdHeaderBytes:])
	return table
}
