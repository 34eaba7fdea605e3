//go:build linux

package ata

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/sigreer/smartattr/internal/smart"
)

// hdioDriveCmd is HDIO_DRIVE_CMD from linux/hdreg.h
const hdioDriveCmd = 0x031f

// Device reads SMART tables from an ATA block device such as /dev/sda.
// Reads need CAP_SYS_RAWIO.
type Device struct {
	Path string
}

// NewDevice returns a Device for path
func NewDevice(path string) *Device {
	return &Device{Path: path}
}

// ReadTables opens the device, reads the data table, then the threshold
// table, and closes the device on every path.
func (d *Device) ReadTables() (smart.Tables, error) {
	fd, err := unix.Open(d.Path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return smart.Tables{}, &smart.AcquisitionError{
			Table: smart.TableData,
			Err:   fmt.Errorf("failed to open %s: %w", d.Path, err),
		}
	}
	defer unix.Close(fd)

	data, err := driveCmd(fd, FeatureReadData)
	if err != nil {
		return smart.Tables{}, &smart.AcquisitionError{Table: smart.TableData, Err: err}
	}
	thresh, err := driveCmd(fd, FeatureReadThresh)
	if err != nil {
		return smart.Tables{}, &smart.AcquisitionError{Table: smart.TableThresholds, Err: err}
	}
	return smart.Tables{Data: data, Thresholds: thresh}, nil
}

func driveCmd(fd int, feature byte) ([]byte, error) {
	args := driveCmdArgs(feature)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), hdioDriveCmd, uintptr(unsafe.Pointer(&args[0])))
	if errno != 0 {
		return nil, fmt.Errorf("HDIO_DRIVE_CMD feature %#02x failed: %w", feature, errno)
	}
	return tableFromArgs(args), nil
}
