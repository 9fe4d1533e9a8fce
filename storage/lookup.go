// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/fault"
)

// Sequence - lazy partial key lookup
//
// nothing is read until Each or First is called, and every call
// starts again from the first matching key
type Sequence struct {
	store     Store
	namespace string
	parts     []string
}

// Lookup - all records of namespace whose leading key parts match
func Lookup(store Store, namespace string, parts ...string) *Sequence {
	return &Sequence{
		store:     store,
		namespace: namespace,
		parts:     parts,
	}
}

// Each - call f for each match in key order until it returns false
func (s *Sequence) Each(f func(key compositekey.Key, value []byte) bool) error {
	iter, err := s.store.ByPartialKey(s.namespace, s.parts...)
	if nil != err {
		return err
	}
	defer iter.Release()

	for iter.Next() {
		if !f(iter.Key(), iter.Value()) {
			break
		}
	}
	return iter.Error()
}

// First - the first match, fault.ErrKeyNotFound if there is none
func (s *Sequence) First() (compositekey.Key, []byte, error) {
	var (
		key   compositekey.Key
		value []byte
		found bool
	)
	err := s.Each(func(k compositekey.Key, v []byte) bool {
		key, value, found = k, v, true
		return false
	})
	if nil != err {
		return compositekey.Key{}, nil, err
	}
	if !found {
		return compositekey.Key{}, nil, fault.ErrKeyNotFound
	}
	return key, value, nil
}

// First - shorthand for Lookup(...).First()
func First(store Store, namespace string, parts ...string) (compositekey.Key, []byte, error) {
	return Lookup(store, namespace, parts...).First()
}
