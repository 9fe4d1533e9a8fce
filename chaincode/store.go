// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincode

import (
	"sort"
	"strings"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// Store - storage.Store over a chaincode stub
//
// Fabric does not show a transaction its own writes so they are kept in
// an overlay and consulted first
type Store struct {
	stub    shim.ChaincodeStubInterface
	pending map[string][]byte
}

// NewStore - a store for one invocation
func NewStore(stub shim.ChaincodeStubInterface) *Store {
	return &Store{
		stub:    stub,
		pending: make(map[string][]byte),
	}
}

// Get - value of a key, fault.ErrKeyNotFound if absent
func (s *Store) Get(key compositekey.Key) ([]byte, error) {
	k := key.String()
	if value, ok := s.pending[k]; ok {
		return clone(value), nil
	}

	value, err := s.stub.GetState(k)
	if nil != err {
		return nil, err
	}
	if nil == value {
		return nil, fault.ErrKeyNotFound
	}
	return value, nil
}

// Put - write a key
func (s *Store) Put(key compositekey.Key, value []byte) error {
	k := key.String()
	if err := s.stub.PutState(k, value); nil != err {
		return err
	}
	s.pending[k] = clone(value)
	return nil
}

// ByPartialKey - committed and pending entries under a key prefix, in key order
func (s *Store) ByPartialKey(namespace string, parts ...string) (storage.Iterator, error) {
	iter, err := s.stub.GetStateByPartialCompositeKey(namespace, parts)
	if nil != err {
		return nil, err
	}
	defer iter.Close()

	found := make(map[string][]byte)
	for iter.HasNext() {
		kv, err := iter.Next()
		if nil != err {
			return nil, err
		}
		found[kv.Key] = kv.Value
	}

	prefix := compositekey.PartialPrefix(namespace, parts...)
	for k, v := range s.pending {
		if strings.HasPrefix(k, prefix) {
			found[k] = v
		}
	}

	keys := make([]string, 0, len(found))
	for k := range found {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]item, 0, len(keys))
	for _, k := range keys {
		key, err := compositekey.Parse(k)
		if nil != err {
			return nil, err
		}
		items = append(items, item{key: key, value: clone(found[k])})
	}
	return &sliceIterator{items: items, index: -1}, nil
}

// History - committed modifications of a key, oldest first
func (s *Store) History(key compositekey.Key) (storage.HistoryIterator, error) {
	iter, err := s.stub.GetHistoryForKey(key.String())
	if nil != err {
		return nil, err
	}
	return newHistoryIterator(iter)
}

type item struct {
	key   compositekey.Key
	value []byte
}

type sliceIterator struct {
	items []item
	index int
}

func (i *sliceIterator) Next() bool {
	if i.index+1 >= len(i.items) {
		i.index = len(i.items)
		return false
	}
	i.index += 1
	return true
}

func (i *sliceIterator) Key() compositekey.Key { return i.items[i.index].key }
func (i *sliceIterator) Value() []byte         { return i.items[i.index].value }
func (i *sliceIterator) Error() error          { return nil }
func (i *sliceIterator) Release()              { i.items = nil }

type historyIterator struct {
	modifications []storage.Modification
	index         int
}

// peers return the newest modification first
func newHistoryIterator(iter shim.HistoryQueryIteratorInterface) (*historyIterator, error) {
	defer iter.Close()

	modifications := []storage.Modification{}
	for iter.HasNext() {
		km, err := iter.Next()
		if nil != err {
			return nil, err
		}
		m := storage.Modification{
			TxId:     km.GetTxId(),
			IsDelete: km.GetIsDelete(),
			Value:    km.GetValue(),
		}
		if ts := km.GetTimestamp(); nil != ts {
			m.Timestamp = ts.AsTime()
		}
		modifications = append(modifications, m)
	}

	sort.SliceStable(modifications, func(i, j int) bool {
		return modifications[i].Timestamp.Before(modifications[j].Timestamp)
	})
	return &historyIterator{modifications: modifications, index: -1}, nil
}

func (h *historyIterator) Next() bool {
	if h.index+1 >= len(h.modifications) {
		h.index = len(h.modifications)
		return false
	}
	h.index += 1
	return true
}

func (h *historyIterator) Modification() storage.Modification { return h.modifications[h.index] }
func (h *historyIterator) Error() error                       { return nil }
func (h *historyIterator) Release()                           { h.modifications = nil }

func clone(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
