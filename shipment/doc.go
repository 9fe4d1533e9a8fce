// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package shipment - moves ordered units between tiers
//
// for each (buyer, drug name):
//
//   no order -> order placed -> in-transit -> delivered
//
// there is no cancellation and nothing follows delivery
package shipment
