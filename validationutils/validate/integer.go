// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package validate checks untyped integer arguments against optional bounds
// and reports failures as typed, distinguishable errors.
package validate

import (
	"fmt"
	"math"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Bounds configures an Integer check. A nil bound is not checked and an empty
// message falls back to a generated one naming the argument and the bound.
type Bounds struct {
	Min *int64
	Max *int64

	MinMessage string
	MaxMessage string
}

// Integer validates that value is an integer within bounds and returns it as
// int64. The type is checked first, then the minimum, then the maximum.
//
// Accepted are the built-in integer types and integral resource.Quantity
// values. Anything not representable as int64 is a type mismatch, including
// a uint64 above math.MaxInt64 and a Quantity such as 1e30.
func Integer(name string, value any, bounds Bounds) (int64, error) {
	v, ok := asInt64(value)
	if !ok {
		return 0, &TypeMismatchError{Name: name, Value: value}
	}

	if bounds.Min != nil && v < *bounds.Min {
		msg := bounds.MinMessage
		if msg == "" {
			msg = fmt.Sprintf("%s must be greater than %d", name, *bounds.Min)
		}
		return 0, &RangeError{Name: name, Value: v, Bound: *bounds.Min, Limit: LimitMinimum, Message: msg}
	}

	if bounds.Max != nil && v > *bounds.Max {
		msg := bounds.MaxMessage
		if msg == "" {
			msg = fmt.Sprintf("%s must be less than %d", name, *bounds.Max)
		}
		return 0, &RangeError{Name: name, Value: v, Bound: *bounds.Max, Limit: LimitMaximum, Message: msg}
	}

	return v, nil
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return unsignedAsInt64(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return unsignedAsInt64(v)
	case resource.Quantity:
		return v.AsInt64()
	case *resource.Quantity:
		if v == nil {
			return 0, false
		}
		return v.AsInt64()
	default:
		return 0, false
	}
}

func unsignedAsInt64(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}
