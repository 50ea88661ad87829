// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"fmt"

	"github.com/ironcore-dev/inventory-utils/validationutils/validate"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/utils/ptr"
)

type CPUSpec struct {
	ResourceSpec
	Cores      *resource.Quantity `json:"cores"`
	Socket     string             `json:"socket"`
	PowerWatts *resource.Quantity `json:"powerWatts"`
}

// CPU tracks a pool of identical processors.
type CPU struct {
	Resource
	cores      int64
	socket     string
	powerWatts int64
}

func NewCPU(spec CPUSpec) (*CPU, error) {
	base, err := newResource(spec.ResourceSpec)
	if err != nil {
		return nil, err
	}

	cores, err := validate.Integer("cores", spec.Cores, validate.Bounds{Min: ptr.To[int64](1)})
	if err != nil {
		return nil, err
	}

	powerWatts, err := validate.Integer("power_watts", spec.PowerWatts, validate.Bounds{Min: ptr.To[int64](1)})
	if err != nil {
		return nil, err
	}

	return &CPU{
		Resource:   base,
		cores:      cores,
		socket:     spec.Socket,
		powerWatts: powerWatts,
	}, nil
}

func (c *CPU) Cores() int64 {
	return c.cores
}

func (c *CPU) Socket() string {
	return c.socket
}

func (c *CPU) PowerWatts() int64 {
	return c.powerWatts
}

func (c *CPU) Category() Category {
	return CategoryCPU
}

func (c *CPU) Describe() string {
	return fmt.Sprintf("%s: %s (%s - x%d)", CategoryCPU, c.name, c.socket, c.cores)
}
