// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package pci

import (
	"fmt"
	"sort"

	"github.com/go-logr/logr"
	"github.com/prometheus/procfs/sysfs"
)

type reader struct {
	log    logr.Logger
	fs     sysfs.FS
	filter Filter
}

func NewReader(log logr.Logger, filter Filter) (*reader, error) {
	fs, err := sysfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open sysfs: %w", err)
	}

	return &reader{log: log, fs: fs, filter: filter}, nil
}

func NewReaderWithMount(log logr.Logger, mountPoint string, filter Filter) (*reader, error) {
	fs, err := sysfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("failed to open sysfs at %s: %w", mountPoint, err)
	}

	return &reader{log: log, fs: fs, filter: filter}, nil
}

// Read returns the addresses of all matching devices in address order.
func (r *reader) Read() ([]Address, error) {
	devices, err := r.fs.PciDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to read pci devices: %w", err)
	}

	var addresses []Address
	for _, device := range devices {
		if !r.filter.Matches(device.Vendor, device.Class) {
			r.log.V(3).Info("Skipping device",
				"device", device.Name(),
				"vendor", fmt.Sprintf("%#04x", device.Vendor),
				"class", fmt.Sprintf("%#06x", device.Class),
			)
			continue
		}

		r.log.V(1).Info("Found matching pci device", "device", device.Name())
		addresses = append(addresses, Address{
			Domain:   uint(device.Location.Segment),
			Bus:      uint(device.Location.Bus),
			Slot:     uint(device.Location.Device),
			Function: uint(device.Location.Function),
		})
	}

	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].String() < addresses[j].String()
	})

	return addresses, nil
}
