// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the versioned ledger state
//
// A LevelDB database split into two pools by a single prefix byte:
//
// Notes:
// 1. ++      = concatenation of byte data
// 2. key     = composite key in its stored form (see compositekey)
// 3. version = big endian uint64 (8 bytes), first write is 1
// 4. ts      = commit time as big endian unix nanoseconds (8 bytes)
//
// State:
//
//   S ++ key                         - current value
//                                      data: version ++ value
//
// History:
//
//   H ++ len(key) ++ key ++ version  - every committed write of key, oldest first
//                                      len: big endian uint16
//                                      data: len(txId)(varint) ++ txId ++ ts ++ delete(1 byte) ++ value
//
// Writes are collected by a Transaction reading from a snapshot and
// applied in a single batch at commit, if nothing it read has changed.
package storage
