// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"time"

	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/messagebus"
)

const parameterCount = 3

// Event - a committed transaction
type Event struct {
	Function  string
	TxId      string
	Timestamp time.Time
	Data      []byte
}

// Queue - put an event on a message queue, false if it was dropped
func (e *Event) Queue(queue *messagebus.Queue) bool {
	return queue.Send(
		e.Function,
		[]byte(e.TxId),
		[]byte(e.Timestamp.UTC().Format(time.RFC3339Nano)),
		e.Data,
	)
}

// Unpack - event from the frames of a received message
func Unpack(frames [][]byte) (*Event, error) {
	if 1+parameterCount != len(frames) {
		return nil, fault.ErrWrongArgumentCount
	}
	ts, err := time.Parse(time.RFC3339Nano, string(frames[2]))
	if nil != err {
		return nil, err
	}
	return &Event{
		Function:  string(frames[0]),
		TxId:      string(frames[1]),
		Timestamp: ts,
		Data:      frames[3],
	}, nil
}
