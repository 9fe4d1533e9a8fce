// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sort"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/fault"
)

// upper bound of the stored key length, see historyPrefixKey
const maximumKeyLength = 0xffff

// Transaction - a unit of work over a snapshot of the database
//
// Reads see the snapshot plus this transaction's own writes.  Commit
// applies every write atomically, or nothing if any key read has been
// changed by another commit since the snapshot was taken.
type Transaction struct {
	db       *Database
	txId     string
	snapshot *leveldb.Snapshot

	// pending writes: stored key -> []byte
	pending *cache.Cache

	// version of each key read from the snapshot, zero if absent
	reads map[string]uint64

	finished bool
}

func newTransaction(d *Database, txId string, snapshot *leveldb.Snapshot) *Transaction {
	return &Transaction{
		db:       d,
		txId:     txId,
		snapshot: snapshot,
		pending:  cache.New(cache.NoExpiration, 0),
		reads:    make(map[string]uint64),
	}
}

// TxId - identifier recorded in history for every write
func (t *Transaction) TxId() string {
	return t.txId
}

// Get - current value of a key
func (t *Transaction) Get(key compositekey.Key) ([]byte, error) {
	if t.finished {
		return nil, fault.ErrTransactionAborted
	}

	k := key.String()
	if v, found := t.pending.Get(k); found {
		return clone(v.([]byte)), nil
	}

	packed, err := t.snapshot.Get(stateKey(k), nil)
	if leveldb.ErrNotFound == err {
		t.markRead(k, 0)
		return nil, fault.ErrKeyNotFound
	} else if nil != err {
		return nil, err
	}

	version, value, err := unpackState(packed)
	if nil != err {
		return nil, err
	}
	t.markRead(k, version)
	return value, nil
}

// Put - buffer a write until commit
func (t *Transaction) Put(key compositekey.Key, value []byte) error {
	if t.finished {
		return fault.ErrTransactionAborted
	}

	k := key.String()
	if len(k) > maximumKeyLength {
		return fault.ErrInvalidKey
	}
	t.pending.Set(k, clone(value), cache.NoExpiration)
	return nil
}

// ByPartialKey - keys of namespace whose leading parts match, in key order
func (t *Transaction) ByPartialKey(namespace string, parts ...string) (Iterator, error) {
	if t.finished {
		return nil, fault.ErrTransactionAborted
	}

	prefix := compositekey.PartialPrefix(namespace, parts...)

	writes := make([]pendingItem, 0)
	for k, item := range t.pending.Items() {
		if strings.HasPrefix(k, prefix) {
			writes = append(writes, pendingItem{key: k, value: item.Object.([]byte)})
		}
	}
	sort.Slice(writes, func(i, j int) bool { return writes[i].key < writes[j].key })

	iter := t.snapshot.NewIterator(util.BytesPrefix(stateKey(prefix)), nil)
	return newMergedIterator(t, iter, writes), nil
}

// History - committed writes of a key, oldest first
func (t *Transaction) History(key compositekey.Key) (HistoryIterator, error) {
	if t.finished {
		return nil, fault.ErrTransactionAborted
	}

	iter := t.snapshot.NewIterator(util.BytesPrefix(historyPrefixKey(key.String())), nil)
	return &historyIterator{iter: iter}, nil
}

// Commit - apply all writes, returns the commit time
func (t *Transaction) Commit() (time.Time, error) {
	d := t.db

	d.Lock()
	defer d.Unlock()

	if t.finished {
		return time.Time{}, fault.ErrTransactionAborted
	}
	defer t.finish()

	if nil == d.db {
		return time.Time{}, fault.ErrDatabaseIsNotSet
	}

	for k, seen := range t.reads {
		current, err := currentVersion(d.db, k)
		if nil != err {
			return time.Time{}, err
		}
		if current != seen {
			d.log.Debugf("tx: %s  conflict on: %q  read: %d  now: %d", t.txId, k, seen, current)
			return time.Time{}, fault.ErrVersionConflict
		}
	}

	timestamp := time.Now().UTC()
	if timestamp.Before(d.last) {
		timestamp = d.last
	}

	batch := new(leveldb.Batch)
	for k, item := range t.pending.Items() {
		value := item.Object.([]byte)

		current, err := currentVersion(d.db, k)
		if nil != err {
			return time.Time{}, err
		}
		next := current + 1

		m := Modification{
			TxId:      t.txId,
			Timestamp: timestamp,
			IsDelete:  false,
			Value:     value,
		}
		batch.Put(stateKey(k), packState(next, value))
		batch.Put(historyKey(k, next), packModification(&m))
	}

	if 0 == batch.Len() {
		return timestamp, nil
	}

	if err := d.db.Write(batch, nil); nil != err {
		fault.Criticalf("tx: %s  write error: %s", t.txId, err)
		return time.Time{}, err
	}
	d.last = timestamp

	d.log.Debugf("tx: %s  committed: %d writes", t.txId, batch.Len()/2)
	return timestamp, nil
}

// Abort - discard all writes
func (t *Transaction) Abort() {
	t.db.Lock()
	defer t.db.Unlock()

	if !t.finished {
		t.finish()
	}
}

func (t *Transaction) finish() {
	t.finished = true
	t.snapshot.Release()
	t.pending.Flush()
}

// first read of a key determines the version checked at commit
func (t *Transaction) markRead(k string, version uint64) {
	if _, ok := t.reads[k]; !ok {
		t.reads[k] = version
	}
}

func currentVersion(db *leveldb.DB, k string) (uint64, error) {
	packed, err := db.Get(stateKey(k), nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	version, _, err := unpackState(packed)
	return version, err
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
