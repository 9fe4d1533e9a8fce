// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - broadcast committed transactions on ZeroMQ PUB sockets
//
// every message is multipart:
//
//   function name
//   transaction id
//   commit time (RFC 3339, nanoseconds)
//   JSON of the transaction result
//
// subscribers filter on the function name prefix
package publish
