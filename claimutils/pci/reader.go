// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package pci

import (
	"fmt"
)

type Class uint32
type Vendor uint32

const (
	ClassSASController  Class = 0x010700
	ClassSATAController Class = 0x010601
	ClassNVMeController Class = 0x010802
	Class3DController   Class = 0x030200

	VendorSamsung Vendor = 0x144d
	VendorAMD     Vendor = 0x1002
	VendorNvidia  Vendor = 0x10de
	VendorIntel   Vendor = 0x8086
)

// Filter selects devices by vendor and class. A zero field matches any value.
type Filter struct {
	Vendor Vendor
	Class  Class
}

func (f Filter) Matches(vendor, class uint32) bool {
	if f.Vendor != 0 && Vendor(vendor) != f.Vendor {
		return false
	}
	if f.Class != 0 && Class(class) != f.Class {
		return false
	}
	return true
}

type Address struct {
	Domain   uint
	Bus      uint
	Slot     uint
	Function uint
}

func (p Address) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%1x", p.Domain, p.Bus, p.Slot, p.Function)
}

// Reader lists the installed devices of one kind.
type Reader interface {
	Read() ([]Address, error)
}
