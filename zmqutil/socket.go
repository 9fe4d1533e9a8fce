// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/pharmanetd/util"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
	lingerTime        = 250 * time.Millisecond
)

// NewBind - bind a list of addresses
//
// creates up to two sockets for separate IPv4 and IPv6 traffic, the
// wildcard address goes on the IPv6 socket which also accepts IPv4. With
// an empty private key the sockets are unencrypted.
func NewBind(log *logger.L, socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, listen []*util.Address) (*zmq.Socket, *zmq.Socket, error) {

	socket4 := (*zmq.Socket)(nil)
	socket6 := (*zmq.Socket)(nil)

	fail := func(err error) (*zmq.Socket, *zmq.Socket, error) {
		if nil != socket4 {
			socket4.Close()
		}
		if nil != socket6 {
			socket6.Close()
		}
		return nil, nil, err
	}

	for i, address := range listen {
		v6 := nil == address.IP || address.IsV6()

		socket := socket4
		if v6 {
			socket = socket6
		}
		if nil == socket {
			s, err := NewServerSocket(socketType, zapDomain, privateKey, publicKey, v6)
			if nil != err {
				return fail(err)
			}
			socket = s
			if v6 {
				socket6 = s
			} else {
				socket4 = s
			}
		}

		bindTo := address.URL("tcp://")
		if err := socket.Bind(bindTo); nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			return fail(err)
		}
		log.Infof("bind[%d]: %q  IPv6: %t", i, bindTo, v6)
	}
	return socket4, socket6, nil
}

// NewServerSocket - a socket for the binding side of a connection
func NewServerSocket(socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, v6 bool) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	if 0 != len(privateKey) {
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)
		_ = socket.SetCurveServer(1)
		_ = socket.SetCurveSecretkey(string(privateKey))
		_ = socket.SetZapDomain(zapDomain)
		_ = socket.SetIdentity(string(publicKey))
	}

	_ = socket.SetIpv6(v6)
	_ = socket.SetLinger(lingerTime)

	_ = socket.SetHeartbeatIvl(heartbeatInterval)
	_ = socket.SetHeartbeatTimeout(heartbeatTimeout)
	_ = socket.SetHeartbeatTtl(heartbeatTTL)

	return socket, nil
}

// NewSubscriber - a SUB socket connected to a publisher and subscribed to
// the given command prefix, "" for everything
//
// a non-empty server key enables curve using a throwaway client keypair
func NewSubscriber(address *util.Address, serverPublicKey []byte, prefix string) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		return nil, err
	}

	if 0 != len(serverPublicKey) {
		public, private, err := zmq.NewCurveKeypair()
		if nil != err {
			socket.Close()
			return nil, err
		}
		_ = socket.SetCurveServerkey(string(serverPublicKey))
		_ = socket.SetCurvePublickey(public)
		_ = socket.SetCurveSecretkey(private)
	}

	_ = socket.SetIpv6(address.IsV6())
	_ = socket.SetLinger(0)

	if err := socket.SetSubscribe(prefix); nil != err {
		socket.Close()
		return nil, err
	}
	if err := socket.Connect(address.URL("tcp://")); nil != err {
		socket.Close()
		return nil, err
	}
	return socket, nil
}
