// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package drug - the drug asset ledger
//
// A unit is minted by its manufacturer, moves through the order and
// shipment workflow, and ends when a retailer sells it to a consumer.
package drug
