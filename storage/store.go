// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	"github.com/bitmark-inc/pharmanetd/compositekey"
)

//go:generate mockgen -destination=mocks/store.go -package=mocks github.com/bitmark-inc/pharmanetd/storage Store,Iterator

// Store - the key-value state seen by one transaction
//
// Get returns fault.ErrKeyNotFound for an absent key.  Writes made
// through Put are visible to later Get and ByPartialKey calls on the
// same Store.
type Store interface {
	Get(key compositekey.Key) ([]byte, error)
	Put(key compositekey.Key, value []byte) error
	ByPartialKey(namespace string, parts ...string) (Iterator, error)
	History(key compositekey.Key) (HistoryIterator, error)
}

// Iterator - ordered (key, value) pairs
type Iterator interface {
	Next() bool
	Key() compositekey.Key
	Value() []byte
	Error() error
	Release()
}

// HistoryIterator - committed modifications of one key, oldest first
type HistoryIterator interface {
	Next() bool
	Modification() Modification
	Error() error
	Release()
}

// Modification - one committed write
type Modification struct {
	TxId      string
	Timestamp time.Time
	IsDelete  bool
	Value     []byte
}
