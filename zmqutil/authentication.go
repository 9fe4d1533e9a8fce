// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"

	zmq "github.com/pebbe/zmq4"
)

// the ZAP handler is process wide
var zap struct {
	sync.Mutex
	running bool
}

// StartAuthentication - start the ZAP handler curve sockets depend on
//
// calling it again while running does nothing
func StartAuthentication() error {
	zap.Lock()
	defer zap.Unlock()

	if zap.running {
		return nil
	}
	zmq.AuthSetVerbose(false)
	if err := zmq.AuthStart(); nil != err {
		return err
	}
	zap.running = true
	return nil
}

// StopAuthentication - stop the ZAP handler if it was started
func StopAuthentication() {
	zap.Lock()
	defer zap.Unlock()

	if zap.running {
		zmq.AuthStop()
		zap.running = false
	}
}
