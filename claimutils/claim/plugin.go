// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package claim

import (
	"errors"

	"k8s.io/apimachinery/pkg/api/resource"
)

var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidResourceClaim  = errors.New("invalid resource claim")
	ErrNotStocked            = errors.New("resource stock is not managed by plugin")
)

// Plugin hands out claims on a single named resource.
type Plugin interface {
	CanClaim(quantity resource.Quantity) bool
	Claim(quantity resource.Quantity) (ResourceClaim, error)
	Release(claim ResourceClaim) error
	Init() error
	Name() string
}

// Stocker is implemented by plugins that also manage how many units of their
// resource exist.
type Stocker interface {
	// Purchase adds new units to the resource.
	Purchase(quantity resource.Quantity) error
	// Retire removes the claimed units from the resource for good.
	Retire(claim ResourceClaim) error
}

type ResourceClaim interface{}
