// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"fmt"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrOutOfRange   = errors.New("value out of range")
	ErrBelowMinimum = errors.New("value below minimum")
	ErrAboveMaximum = errors.New("value above maximum")
)

// TypeMismatchError is returned when a value expected to be an integer has
// any other type, including floating point values that are numerically whole.
type TypeMismatchError struct {
	Name  string
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s must be an integer", e.Name)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

type Limit string

const (
	LimitMinimum Limit = "minimum"
	LimitMaximum Limit = "maximum"
)

// RangeError is returned when an integer falls outside of its bounds. Its
// message is either the one configured at the call site or a generated one.
type RangeError struct {
	Name    string
	Value   int64
	Bound   int64
	Limit   Limit
	Message string
}

func (e *RangeError) Error() string {
	return e.Message
}

func (e *RangeError) Is(target error) bool {
	switch target {
	case ErrOutOfRange:
		return true
	case ErrBelowMinimum:
		return e.Limit == LimitMinimum
	case ErrAboveMaximum:
		return e.Limit == LimitMaximum
	}
	return false
}

// IsTypeMismatch reports whether err or any error it wraps is a type mismatch.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsOutOfRange reports whether err or any error it wraps is a range violation.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// AsRangeError extracts the RangeError from the error chain.
func AsRangeError(err error) (*RangeError, bool) {
	var rangeErr *RangeError
	if errors.As(err, &rangeErr) {
		return rangeErr, true
	}
	return nil, false
}
