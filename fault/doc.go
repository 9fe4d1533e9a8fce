// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of each ledger error so callers can
// compare against a value, and classifies errors into the kinds
// returned to clients in a transaction result
package fault
