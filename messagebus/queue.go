// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

const (
	queueSize = 1000
)

// Message - a command followed by any number of binary parameters
type Message struct {
	Command    string
	Parameters [][]byte
}

// Queue - a bounded queue of messages
type Queue struct {
	c chan Message
}

// the queues
type busses struct {
	Publish   *Queue
	TestQueue *Queue
}

// Bus - all available queues
var Bus = busses{
	Publish:   New(queueSize),
	TestQueue: New(queueSize),
}

// New - create a queue holding up to size messages
func New(size int) *Queue {
	return &Queue{
		c: make(chan Message, size),
	}
}

// Send - queue a message, false if the queue was full and it was dropped
//
// never blocks so a slow listener cannot stall a transaction
func (queue *Queue) Send(command string, parameters ...[]byte) bool {
	select {
	case queue.c <- Message{
		Command:    command,
		Parameters: parameters,
	}:
		return true
	default:
		return false
	}
}

// Chan - channel to read from
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Len - number of queued messages
func (queue *Queue) Len() int {
	return len(queue.c)
}
