// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"fmt"

	"github.com/ironcore-dev/inventory-utils/validationutils/validate"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/utils/ptr"
)

const (
	minRPM = 1_000
	maxRPM = 50_000
)

type StorageSpec struct {
	ResourceSpec
	CapacityGB *resource.Quantity `json:"capacityGB"`
}

// Storage tracks a pool of storage devices of one capacity.
type Storage struct {
	Resource
	capacityGB int64
}

func NewStorage(spec StorageSpec) (*Storage, error) {
	s, err := newStorage(spec)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func newStorage(spec StorageSpec) (Storage, error) {
	base, err := newResource(spec.ResourceSpec)
	if err != nil {
		return Storage{}, err
	}

	capacityGB, err := validate.Integer("capacity_gb", spec.CapacityGB, validate.Bounds{Min: ptr.To[int64](1)})
	if err != nil {
		return Storage{}, err
	}

	return Storage{Resource: base, capacityGB: capacityGB}, nil
}

func (s *Storage) CapacityGB() int64 {
	return s.capacityGB
}

func (s *Storage) Category() Category {
	return CategoryStorage
}

func (s *Storage) Describe() string {
	return describeStorage(s, CategoryStorage)
}

func describeStorage(s *Storage, category Category) string {
	return fmt.Sprintf("%s: %d GB", category, s.capacityGB)
}

type HDDSpec struct {
	StorageSpec
	Size string             `json:"size"`
	RPM  *resource.Quantity `json:"rpm"`
}

type HDD struct {
	Storage
	size HDDSize
	rpm  int64
}

func NewHDD(spec HDDSpec) (*HDD, error) {
	storage, err := newStorage(spec.StorageSpec)
	if err != nil {
		return nil, err
	}

	size, err := ParseHDDSize(spec.Size)
	if err != nil {
		return nil, err
	}

	rpm, err := validate.Integer("rpm", spec.RPM, validate.Bounds{
		Min: ptr.To[int64](minRPM),
		Max: ptr.To[int64](maxRPM),
	})
	if err != nil {
		return nil, err
	}

	return &HDD{Storage: storage, size: size, rpm: rpm}, nil
}

func (h *HDD) Size() HDDSize {
	return h.size
}

func (h *HDD) RPM() int64 {
	return h.rpm
}

func (h *HDD) Category() Category {
	return CategoryHDD
}

func (h *HDD) Describe() string {
	return fmt.Sprintf("%s: %s - %d RPM", describeStorage(&h.Storage, CategoryHDD), h.size, h.rpm)
}

type SSDSpec struct {
	StorageSpec
	Interface string `json:"interface"`
}

type SSD struct {
	Storage
	iface SSDInterface
}

func NewSSD(spec SSDSpec) (*SSD, error) {
	storage, err := newStorage(spec.StorageSpec)
	if err != nil {
		return nil, err
	}

	iface, err := ParseSSDInterface(spec.Interface)
	if err != nil {
		return nil, err
	}

	return &SSD{Storage: storage, iface: iface}, nil
}

func (s *SSD) Interface() SSDInterface {
	return s.iface
}

func (s *SSD) Category() Category {
	return CategorySSD
}

func (s *SSD) Describe() string {
	return fmt.Sprintf("%s: %s", describeStorage(&s.Storage, CategorySSD), s.iface)
}
