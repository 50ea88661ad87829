// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package inventory models pools of hardware resources.
//
// Every pool records the units it owns (total) and the units currently in
// use (allocated); available units are always derived from the two. The
// variants are:
//
//   - Resource: a generic pool
//   - CPU: processors with core count, socket and power draw
//   - Storage: storage devices of one capacity
//   - HDD: hard disk drives with form factor and spindle speed
//   - SSD: solid state drives with their host interface
//
// Constructors and the Claim, FreeUp, Retire and Purchase operations
// validate all of their arguments before touching any field, so a failed
// call never leaves a pool partially updated and 0 <= allocated <= total
// holds after every call.
//
// Pools are not safe for concurrent use. Callers sharing a pool across
// goroutines serialize access themselves, for example through a claim.Claimer.
package inventory
