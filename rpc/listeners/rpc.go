// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/metrics"
	"github.com/bitmark-inc/pharmanetd/util"
)

const (
	minConnectionCount = 1
)

// RPCConfiguration - client_rpc section of the configuration file
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

// RPCListener - JSON-RPC over TLS on every listen address
type RPCListener struct {
	log            *logger.L
	server         *rpc.Server
	tlsConfig      *tls.Config
	addresses      []*util.Address
	maxConnections uint64
	count          uint64
	metrics        *metrics.Metrics

	listeners []net.Listener
	wg        sync.WaitGroup
}

// NewRPC - validate the configuration, nothing is opened until Serve
func NewRPC(log *logger.L, configuration *RPCConfiguration, tlsConfig *tls.Config, m *metrics.Metrics) (*RPCListener, error) {

	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid maximum connection limit: %d", configuration.MaximumConnections)
		return nil, fault.ErrMissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Error("missing listen")
		return nil, fault.ErrMissingParameters
	}

	addresses, err := util.ParseAddresses(configuration.Listen)
	if nil != err {
		log.Errorf("listen address error: %s", err)
		return nil, err
	}

	return &RPCListener{
		log:            log,
		tlsConfig:      tlsConfig,
		addresses:      addresses,
		maxConnections: configuration.MaximumConnections,
		metrics:        m,
	}, nil
}

// Serve - open every listen address and start accepting for server
func (r *RPCListener) Serve(server *rpc.Server) error {
	r.server = server
	for _, address := range r.addresses {
		r.log.Infof("starting RPC server: %s", address)
		listener, err := tls.Listen(address.Network(), address.String(), r.tlsConfig)
		if nil != err {
			r.log.Errorf("rpc server listen error: %s", err)
			r.close()
			return err
		}
		r.listeners = append(r.listeners, listener)

		r.wg.Add(1)
		go r.accept(listener)
	}
	return nil
}

// Addresses - bound addresses
func (r *RPCListener) Addresses() []net.Addr {
	a := make([]net.Addr, 0, len(r.listeners))
	for _, l := range r.listeners {
		a = append(a, l.Addr())
	}
	return a
}

// Connections - currently open client connections
func (r *RPCListener) Connections() uint64 {
	return atomic.LoadUint64(&r.count)
}

// Run - serve until shutdown
func (r *RPCListener) Run(args interface{}, shutdown <-chan struct{}) {
	<-shutdown
	r.close()
	r.wg.Wait()
	r.log.Info("stopped")
}

func (r *RPCListener) close() {
	for _, l := range r.listeners {
		_ = l.Close()
	}
}

func (r *RPCListener) accept(listener net.Listener) {
	defer r.wg.Done()

	for {
		conn, err := listener.Accept()
		if nil != err {
			r.log.Infof("accept terminated: %s", err)
			return
		}

		if atomic.AddUint64(&r.count, 1) > r.maxConnections {
			atomic.AddUint64(&r.count, ^uint64(0))
			r.log.Warnf("connection limit reached, rejecting: %s", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}

		if nil != r.metrics {
			r.metrics.Connected()
		}
		go func() {
			r.server.ServeCodec(jsonrpc.NewServerCodec(conn))
			_ = conn.Close()
			atomic.AddUint64(&r.count, ^uint64(0))
			if nil != r.metrics {
				r.metrics.Disconnected()
			}
		}()
	}
}
