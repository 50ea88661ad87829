// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package pci

import (
	"github.com/go-logr/logr"
)

type reader struct {
	log logr.Logger
}

// NewReader returns a reader that never finds devices, sysfs does not exist on darwin.
func NewReader(log logr.Logger, _ Filter) (*reader, error) {
	log.V(1).Info("PCI discovery is not supported on darwin")

	return &reader{log: log}, nil
}

func (r *reader) Read() ([]Address, error) {
	return nil, nil
}
