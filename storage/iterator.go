// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	ldb_iterator "github.com/syndtr/goleveldb/leveldb/iterator"

	"github.com/bitmark-inc/pharmanetd/compositekey"
)

type pendingItem struct {
	key   string
	value []byte
}

// merge of snapshot state and pending writes, a pending write hides the
// snapshot value of the same key
type mergedIterator struct {
	tx      *Transaction
	iter    ldb_iterator.Iterator
	valid   bool
	pending []pendingItem
	index   int

	key   compositekey.Key
	value []byte
	err   error
}

func newMergedIterator(tx *Transaction, iter ldb_iterator.Iterator, pending []pendingItem) *mergedIterator {
	return &mergedIterator{
		tx:      tx,
		iter:    iter,
		valid:   iter.Next(),
		pending: pending,
	}
}

func (m *mergedIterator) Next() bool {
	if nil != m.err {
		return false
	}

	stored := ""
	if m.valid {
		stored = string(m.iter.Key()[1:]) // strip the prefix
	}
	havePending := m.index < len(m.pending)

	var k string
	switch {
	case !m.valid && !havePending:
		if err := m.iter.Error(); nil != err {
			m.err = err
		}
		return false

	case havePending && (!m.valid || m.pending[m.index].key <= stored):
		item := m.pending[m.index]
		m.index += 1
		if m.valid && item.key == stored {
			m.valid = m.iter.Next()
		}
		k = item.key
		m.value = clone(item.value)

	default:
		version, value, err := unpackState(m.iter.Value())
		if nil != err {
			m.err = err
			return false
		}
		m.tx.markRead(stored, version)
		m.valid = m.iter.Next()
		k = stored
		m.value = value
	}

	key, err := compositekey.Parse(k)
	if nil != err {
		m.err = err
		return false
	}
	m.key = key
	return true
}

func (m *mergedIterator) Key() compositekey.Key { return m.key }
func (m *mergedIterator) Value() []byte         { return m.value }
func (m *mergedIterator) Error() error          { return m.err }
func (m *mergedIterator) Release()              { m.iter.Release() }

type historyIterator struct {
	iter ldb_iterator.Iterator
	m    Modification
	err  error
}

func (h *historyIterator) Next() bool {
	if nil != h.err || !h.iter.Next() {
		if nil == h.err {
			h.err = h.iter.Error()
		}
		return false
	}

	m, err := unpackModification(h.iter.Value())
	if nil != err {
		h.err = err
		return false
	}
	h.m = m
	return true
}

func (h *historyIterator) Modification() Modification { return h.m }
func (h *historyIterator) Error() error               { return h.err }
func (h *historyIterator) Release()                   { h.iter.Release() }
