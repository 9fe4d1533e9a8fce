// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincode - run the ledger contract as Hyperledger Fabric chaincode
//
// the Fabric world state takes the place of the LevelDB database and the
// caller's role is derived from the MSP id of the submitting client.  A
// failed function returns an error so the peer discards its writes.
package chaincode
