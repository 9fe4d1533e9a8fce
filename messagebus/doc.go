// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - queues carrying committed transaction events from
// the RPC handlers to the publisher and any other background listeners
package messagebus
