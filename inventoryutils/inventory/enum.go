// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidEnumeration = errors.New("invalid enumeration value")

// EnumError is returned when a categorical argument is not one of its allowed values.
type EnumError struct {
	Name    string
	Value   string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q, must be one of [%s]", e.Name, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *EnumError) Is(target error) bool {
	return target == ErrInvalidEnumeration
}

type Category string

const (
	CategoryResource Category = "resource"
	CategoryCPU      Category = "cpu"
	CategoryStorage  Category = "storage"
	CategoryHDD      Category = "hdd"
	CategorySSD      Category = "ssd"
)

var categories = []Category{CategoryResource, CategoryCPU, CategoryStorage, CategoryHDD, CategorySSD}

func ParseCategory(s string) (Category, error) {
	return parseEnum("category", s, categories)
}

// HDDSize is the form factor of a hard disk drive in inches.
type HDDSize string

const (
	HDDSize25 HDDSize = `2.5"`
	HDDSize35 HDDSize = `3.5"`
)

var hddSizes = []HDDSize{HDDSize25, HDDSize35}

func ParseHDDSize(s string) (HDDSize, error) {
	return parseEnum("HDD size", s, hddSizes)
}

type SSDInterface string

const (
	SSDInterfaceSATA SSDInterface = "SATA"
	SSDInterfaceSAS  SSDInterface = "SAS"
	SSDInterfaceNVMe SSDInterface = "NVMe"
)

var ssdInterfaces = []SSDInterface{SSDInterfaceSATA, SSDInterfaceSAS, SSDInterfaceNVMe}

func ParseSSDInterface(s string) (SSDInterface, error) {
	return parseEnum("SSD interface", s, ssdInterfaces)
}

func parseEnum[E ~string](name, s string, allowed []E) (E, error) {
	for _, value := range allowed {
		if string(value) == s {
			return value, nil
		}
	}

	names := make([]string, 0, len(allowed))
	for _, value := range allowed {
		names = append(names, string(value))
	}
	return "", &EnumError{Name: name, Value: s, Allowed: names}
}
