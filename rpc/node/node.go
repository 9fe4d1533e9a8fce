// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/pharmanetd/rpc/ratelimit"
)

//go:generate mockgen -destination=../mocks/connections.go -package=mocks github.com/bitmark-inc/pharmanetd/rpc/node Connections

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Connections - source of the open client connection count
type Connections interface {
	Connections() uint64
}

// Node - type for RPC calls
type Node struct {
	Log         *logger.L
	Limiter     *rate.Limiter
	Start       time.Time
	Version     string
	connections Connections
}

// New - create the node RPC service
func New(log *logger.L, start time.Time, version string, connections Connections) *Node {
	return &Node{
		Log:         log,
		Limiter:     rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:       start,
		Version:     version,
		connections: connections,
	}
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	RPCs    uint64 `json:"rpcs"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).Round(time.Second).String()
	if nil != node.connections {
		reply.RPCs = node.connections.Connections()
	}
	return nil
}
