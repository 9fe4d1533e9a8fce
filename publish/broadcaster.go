// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/messagebus"
	"github.com/bitmark-inc/pharmanetd/util"
	"github.com/bitmark-inc/pharmanetd/zmqutil"
)

const (
	broadcasterZapDomain = "broadcaster"
)

// Configuration - publishing section of the configuration file
//
// key files are optional, without them the sockets are unencrypted
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// Broadcaster - background process forwarding queued events to subscribers
type Broadcaster struct {
	log     *logger.L
	queue   *messagebus.Queue
	socket4 *zmq.Socket
	socket6 *zmq.Socket
}

// New - bind the broadcast sockets, nil if nothing is configured
func New(log *logger.L, configuration *Configuration, queue *messagebus.Queue) (*Broadcaster, error) {
	if nil == configuration || 0 == len(configuration.Broadcast) {
		return nil, nil
	}
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	log.Info("initialising…")

	addresses, err := util.ParseAddresses(configuration.Broadcast)
	if nil != err {
		log.Errorf("broadcast address error: %s", err)
		return nil, err
	}

	privateKey := []byte(nil)
	publicKey := []byte(nil)
	if "" != configuration.PrivateKey {
		privateKey, err = zmqutil.ReadPrivateKeyFile(configuration.PrivateKey)
		if nil != err {
			log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
			return nil, err
		}
		publicKey, err = zmqutil.ReadPublicKeyFile(configuration.PublicKey)
		if nil != err {
			log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
			return nil, err
		}
		if err := zmqutil.StartAuthentication(); nil != err {
			return nil, err
		}
	}

	brdc := &Broadcaster{
		log:   log,
		queue: queue,
	}
	brdc.socket4, brdc.socket6, err = zmqutil.NewBind(log, zmq.PUB, broadcasterZapDomain, privateKey, publicKey, addresses)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return nil, err
	}
	return brdc, nil
}

// Run - forward events until shutdown
func (brdc *Broadcaster) Run(args interface{}, shutdown <-chan struct{}) {

	log := brdc.log
	log.Info("starting…")

	queue := brdc.queue.Chan()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-queue:
			log.Debugf("sending: %s  parameters: %d", item.Command, len(item.Parameters))
			brdc.process(brdc.socket4, &item)
			brdc.process(brdc.socket6, &item)
		}
	}

	if nil != brdc.socket4 {
		brdc.socket4.Close()
	}
	if nil != brdc.socket6 {
		brdc.socket6.Close()
	}
	log.Info("stopped")
}

// PUB sockets drop rather than block so a send error is only logged
func (brdc *Broadcaster) process(socket *zmq.Socket, item *messagebus.Message) {
	if nil == socket {
		return
	}

	flags := zmq.SNDMORE | zmq.DONTWAIT
	if 0 == len(item.Parameters) {
		flags = zmq.DONTWAIT
	}
	if _, err := socket.Send(item.Command, flags); nil != err {
		brdc.log.Warnf("send: %s  error: %s", item.Command, err)
		return
	}

	last := len(item.Parameters) - 1
	for i, p := range item.Parameters {
		flags := zmq.SNDMORE | zmq.DONTWAIT
		if i == last {
			flags = zmq.DONTWAIT
		}
		if _, err := socket.SendBytes(p, flags); nil != err {
			brdc.log.Warnf("send: %s  part: %d  error: %s", item.Command, i, err)
			return
		}
	}
}
