// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus collectors for transaction outcomes,
// latency, client connections and event publishing, together with a
// background process serving them over HTTP
package metrics
