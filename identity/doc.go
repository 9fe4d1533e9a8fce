// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - caller roles and the guards that check them
//
// The caller of a transaction is always passed explicitly; nothing in
// this package reads ambient state.
package identity
