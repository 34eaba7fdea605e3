//go:build !linux

package ata

import "github.com/sigreer/smartattr/internal/smart"

// Device reads SMART tables from an ATA block device such as /dev/sda.
// Only Linux provides HDIO_DRIVE_CMD; here every read fails.
type Device struct {
	Path string
}

// NewDevice returns a Device for path
func NewDevice(path string) *Device {
	return &Device{Path: path}
}

// ReadTables always returns an AcquisitionError wrapping ErrUnsupported
func (d *Device) ReadTables() (smart.Tables, error) {
	return smart.Tables{}, &smart.AcquisitionError{Table: smart.TableData, Err: ErrUnsupported}
}
