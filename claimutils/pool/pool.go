// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/ironcore-dev/inventory-utils/claimutils/claim"
	"github.com/ironcore-dev/inventory-utils/claimutils/pci"
	"github.com/ironcore-dev/inventory-utils/eventutils/recorder"
	"github.com/ironcore-dev/inventory-utils/inventoryutils/inventory"
	"github.com/ironcore-dev/inventory-utils/validationutils/validate"
	"k8s.io/apimachinery/pkg/api/resource"
)

const (
	EventTypeNormal  = "Normal"
	EventTypeWarning = "Warning"

	ReasonDiscovered  = "Discovered"
	ReasonClaimed     = "Claimed"
	ReasonClaimFailed = "ClaimFailed"
	ReasonReleased    = "Released"
	ReasonRetired     = "Retired"
	ReasonPurchased   = "Purchased"
)

type Claim interface {
	claim.ResourceClaim
	Pool() string
	Quantity() int64
}

type poolClaim struct {
	pool     string
	quantity int64
}

func (c poolClaim) Pool() string {
	return c.pool
}

func (c poolClaim) Quantity() int64 {
	return c.quantity
}

type Plugin interface {
	claim.Plugin
	claim.Stocker
}

// NewPoolClaimPlugin returns a plugin handing out claims on item. A claim can
// be released or retired once. When reader is set, Init purchases every
// discovered device the item does not count yet. rec may be nil.
func NewPoolClaimPlugin(log logr.Logger, name string, item inventory.Item, reader pci.Reader, rec recorder.EventRecorder) Plugin {
	return &poolClaimPlugin{
		name:     name,
		log:      log,
		item:     item,
		reader:   reader,
		recorder: rec,
		claims:   map[*poolClaim]struct{}{},
	}
}

type poolClaimPlugin struct {
	name     string
	log      logr.Logger
	item     inventory.Item
	reader   pci.Reader
	recorder recorder.EventRecorder

	// claims handed out and not yet released or retired
	claims map[*poolClaim]struct{}
}

func (p *poolClaimPlugin) eventf(eventType, reason, messageFormat string, args ...any) {
	if p.recorder == nil {
		return
	}
	p.recorder.Eventf(recorder.ObjectRef{
		Category: string(p.item.Category()),
		Name:     p.item.Name(),
	}, eventType, reason, messageFormat, args...)
}

func (p *poolClaimPlugin) CanClaim(quantity resource.Quantity) bool {
	requested, ok := quantity.AsInt64()
	if !ok {
		return false
	}

	available := p.item.Available()
	p.log.V(2).Info("Try to claim units", "available", available, "requested", requested)

	return requested >= 0 && available >= requested
}

func (p *poolClaimPlugin) Claim(quantity resource.Quantity) (claim.ResourceClaim, error) {
	if quantity.IsZero() {
		return p.track(&poolClaim{pool: p.name}), nil
	}

	if err := p.item.Claim(quantity); err != nil {
		p.eventf(EventTypeWarning, ReasonClaimFailed, "Failed to claim %s units: %v", quantity.String(), err)
		if errors.Is(err, validate.ErrAboveMaximum) {
			return nil, fmt.Errorf("%w: %w", claim.ErrInsufficientResources, err)
		}
		return nil, err
	}

	requested, _ := quantity.AsInt64()
	p.log.V(2).Info("Claimed units", "quantity", requested, "available", p.item.Available())
	p.eventf(EventTypeNormal, ReasonClaimed, "Claimed %d units", requested)

	return p.track(&poolClaim{pool: p.name, quantity: requested}), nil
}

func (p *poolClaimPlugin) track(c *poolClaim) *poolClaim {
	p.claims[c] = struct{}{}
	return c
}

func (p *poolClaimPlugin) outstandingClaim(resourceClaim claim.ResourceClaim) (*poolClaim, error) {
	c, ok := resourceClaim.(*poolClaim)
	if !ok || c == nil || c.pool != p.name {
		return nil, claim.ErrInvalidResourceClaim
	}
	if _, outstanding := p.claims[c]; !outstanding {
		return nil, fmt.Errorf("%w: claim is no longer outstanding", claim.ErrInvalidResourceClaim)
	}
	return c, nil
}

func (p *poolClaimPlugin) Release(resourceClaim claim.ResourceClaim) error {
	c, err := p.outstandingClaim(resourceClaim)
	if err != nil {
		return err
	}
	if c.Quantity() == 0 {
		delete(p.claims, c)
		return nil
	}

	if err := p.item.FreeUp(*resource.NewQuantity(c.Quantity(), resource.DecimalSI)); err != nil {
		return err
	}
	delete(p.claims, c)

	p.log.V(2).Info("Released units", "quantity", c.Quantity(), "available", p.item.Available())
	p.eventf(EventTypeNormal, ReasonReleased, "Released %d units", c.Quantity())
	return nil
}

func (p *poolClaimPlugin) Retire(resourceClaim claim.ResourceClaim) error {
	c, err := p.outstandingClaim(resourceClaim)
	if err != nil {
		return err
	}
	if c.Quantity() == 0 {
		delete(p.claims, c)
		return nil
	}

	if err := p.item.Retire(*resource.NewQuantity(c.Quantity(), resource.DecimalSI)); err != nil {
		return err
	}
	delete(p.claims, c)

	p.log.V(1).Info("Retired units", "quantity", c.Quantity(), "total", p.item.Total())
	p.eventf(EventTypeWarning, ReasonRetired, "Retired %d units", c.Quantity())
	return nil
}

func (p *poolClaimPlugin) Purchase(quantity resource.Quantity) error {
	if err := p.item.Purchase(quantity); err != nil {
		return err
	}

	p.log.V(1).Info("Purchased units", "quantity", quantity.String(), "total", p.item.Total())
	p.eventf(EventTypeNormal, ReasonPurchased, "Purchased %s units", quantity.String())
	return nil
}

func (p *poolClaimPlugin) Init() error {
	if p.item == nil {
		return errors.New("no inventory item provided")
	}

	if p.reader == nil {
		return nil
	}

	devices, err := p.reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read pci devices: %w", err)
	}

	for _, device := range devices {
		p.log.V(3).Info("Found device", "pciAddress", device)
	}

	missing := int64(len(devices)) - p.item.Total()
	if missing <= 0 {
		return nil
	}

	if err := p.item.Purchase(*resource.NewQuantity(missing, resource.DecimalSI)); err != nil {
		return err
	}

	p.log.V(1).Info("Added discovered devices to pool", "discovered", len(devices), "total", p.item.Total())
	p.eventf(EventTypeNormal, ReasonDiscovered, "Discovered %d devices, added %d units", len(devices), missing)
	return nil
}

func (p *poolClaimPlugin) Name() string {
	return p.name
}
