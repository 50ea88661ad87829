// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"fmt"
	"math"

	"github.com/ironcore-dev/inventory-utils/validationutils/validate"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/utils/ptr"
)

const (
	msgAllocatedExceedsTotal = "Allocated inventory cannot exceed total inventory"
	msgClaimExceedsAvailable = "Cannot claim more inventory than available"
	msgFreeUpExceedsAlloc    = "Cannot free up more inventory than allocated"
	msgRetireExceedsAlloc    = "Cannot retire more than allocated"
)

// Item is an inventory pool of one kind of hardware.
type Item interface {
	fmt.Stringer

	Name() string
	Manufacturer() string
	Total() int64
	Allocated() int64
	Available() int64
	Category() Category
	Describe() string

	Claim(num resource.Quantity) error
	FreeUp(num resource.Quantity) error
	Retire(num resource.Quantity) error
	Purchase(num resource.Quantity) error
}

// ResourceSpec declares a pool. Every quantity is required; a nil quantity is
// rejected as a type mismatch.
type ResourceSpec struct {
	Name         string             `json:"name"`
	Manufacturer string             `json:"manufacturer"`
	Total        *resource.Quantity `json:"total"`
	Allocated    *resource.Quantity `json:"allocated"`
}

// Resource tracks the total and allocated units of a generic pool. The zero
// value is an empty pool; use NewResource to build one from a spec.
type Resource struct {
	name         string
	manufacturer string
	total        int64
	allocated    int64
}

func NewResource(spec ResourceSpec) (*Resource, error) {
	r, err := newResource(spec)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func newResource(spec ResourceSpec) (Resource, error) {
	total, err := validate.Integer("total", spec.Total, validate.Bounds{Min: ptr.To[int64](0)})
	if err != nil {
		return Resource{}, err
	}

	allocated, err := validate.Integer("allocated", spec.Allocated, validate.Bounds{
		Min:        ptr.To[int64](0),
		Max:        ptr.To(total),
		MaxMessage: msgAllocatedExceedsTotal,
	})
	if err != nil {
		return Resource{}, err
	}

	return Resource{
		name:         spec.Name,
		manufacturer: spec.Manufacturer,
		total:        total,
		allocated:    allocated,
	}, nil
}

func (r *Resource) Name() string {
	return r.name
}

func (r *Resource) Manufacturer() string {
	return r.manufacturer
}

func (r *Resource) Total() int64 {
	return r.total
}

func (r *Resource) Allocated() int64 {
	return r.allocated
}

func (r *Resource) Available() int64 {
	return r.total - r.allocated
}

func (r *Resource) Category() Category {
	return CategoryResource
}

func (r *Resource) String() string {
	return r.name
}

func (r *Resource) Describe() string {
	return fmt.Sprintf("%s(%s, %s, %d, %d)", CategoryResource, r.name, r.manufacturer, r.total, r.allocated)
}

// Claim moves num available units to allocated.
func (r *Resource) Claim(num resource.Quantity) error {
	n, err := validate.Integer("num", num, validate.Bounds{
		Min:        ptr.To[int64](1),
		Max:        ptr.To(r.Available()),
		MaxMessage: msgClaimExceedsAvailable,
	})
	if err != nil {
		return err
	}

	r.allocated += n
	return nil
}

// FreeUp returns num allocated units to the available pool.
func (r *Resource) FreeUp(num resource.Quantity) error {
	n, err := validate.Integer("num", num, validate.Bounds{
		Min:        ptr.To[int64](1),
		Max:        ptr.To(r.allocated),
		MaxMessage: msgFreeUpExceedsAlloc,
	})
	if err != nil {
		return err
	}

	r.allocated -= n
	return nil
}

// Retire removes num units that died while in use from the pool altogether.
// Only allocated units can be retired.
func (r *Resource) Retire(num resource.Quantity) error {
	n, err := validate.Integer("num", num, validate.Bounds{
		Min:        ptr.To[int64](1),
		Max:        ptr.To(r.allocated),
		MaxMessage: msgRetireExceedsAlloc,
	})
	if err != nil {
		return err
	}

	r.total -= n
	r.allocated -= n
	return nil
}

// Purchase adds num new units to the pool. The total cannot grow past
// math.MaxInt64.
func (r *Resource) Purchase(num resource.Quantity) error {
	n, err := validate.Integer("num", num, validate.Bounds{
		Min: ptr.To[int64](1),
		Max: ptr.To(math.MaxInt64 - r.total),
	})
	if err != nil {
		return err
	}

	r.total += n
	return nil
}
