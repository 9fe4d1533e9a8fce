// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package provenance - the custody history and current state of a unit
package provenance

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/drug"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// Entry - one committed version of a unit
//
// Value is a *drug.Drug, or the raw stored text if it could not be decoded
type Entry struct {
	TxId      string      `json:"TxId"`
	Timestamp time.Time   `json:"Timestamp"`
	IsDelete  bool        `json:"IsDelete"`
	Value     interface{} `json:"Value"`
}

// Query - read only access to units
type Query struct {
	log   *logger.L
	drugs *drug.Ledger
}

// New - create a query
func New(log *logger.L, drugs *drug.Ledger) *Query {
	return &Query{
		log:   log,
		drugs: drugs,
	}
}

// History - every committed version of a unit, oldest first
func (q *Query) History(store storage.Store, name string, serialNumber string) (*Sequence, error) {
	key, err := compositekey.Drug(serialNumber, name)
	if nil != err {
		return nil, err
	}
	return &Sequence{
		log:   q.log,
		store: store,
		key:   key,
	}, nil
}

// State - latest version of a unit
func (q *Query) State(store storage.Store, name string, serialNumber string) (*drug.Drug, error) {
	return q.drugs.CurrentState(store, name, serialNumber)
}

// Sequence - lazy history of one key
//
// nothing is read until Each is called and each call starts from the
// oldest version
type Sequence struct {
	log   *logger.L
	store storage.Store
	key   compositekey.Key
}

// Each - call f for each version, oldest first, until it returns false
func (s *Sequence) Each(f func(Entry) bool) error {
	iter, err := s.store.History(s.key)
	if nil != err {
		return err
	}
	defer iter.Release()

	for iter.Next() {
		m := iter.Modification()
		if !f(entry(s.log, &m)) {
			break
		}
	}
	return iter.Error()
}

// All - the whole history
func (s *Sequence) All() ([]Entry, error) {
	entries := make([]Entry, 0)
	err := s.Each(func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	if nil != err {
		return nil, err
	}
	return entries, nil
}

func entry(log *logger.L, m *storage.Modification) Entry {
	e := Entry{
		TxId:      m.TxId,
		Timestamp: m.Timestamp,
		IsDelete:  m.IsDelete,
	}
	if d, err := drug.Decode(m.Value); nil == err {
		e.Value = d
	} else {
		log.Debugf("tx: %s  value is not a drug: %s", m.TxId, err)
		e.Value = string(m.Value)
	}
	return e
}
