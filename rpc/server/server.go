// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/messagebus"
	"github.com/bitmark-inc/pharmanetd/metrics"
	"github.com/bitmark-inc/pharmanetd/rpc/ledger"
	"github.com/bitmark-inc/pharmanetd/rpc/node"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// Create - an RPC server with the Ledger and Node services registered
func Create(log *logger.L, version string, db *storage.Database, resolver identity.Resolver, queue *messagebus.Queue, m *metrics.Metrics, connections node.Connections) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(ledger.New(log, db, resolver, queue, m))
	_ = server.Register(node.New(log, start, version, connections))

	return server
}
