// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package provenance_test

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/drug"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/fixtures"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/provenance"
	"github.com/bitmark-inc/pharmanetd/storage"
	"github.com/bitmark-inc/pharmanetd/storage/mocks"
)

func commit(t *testing.T, db *storage.Database, txId string, f func(tx *storage.Transaction)) {
	tx := fixtures.Begin(t, db, txId)
	f(tx)
	if _, err := tx.Commit(); nil != err {
		t.Fatalf("commit: %s  error: %s", txId, err)
	}
}

func TestHistory(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	drugs := drug.New(log, company.New(log))
	q := provenance.New(log, drugs)

	db := fixtures.NewDatabase(t)
	var r1 *company.Company
	commit(t, db, "tx-1", func(tx *storage.Transaction) {
		fixtures.RegisterCompany(t, tx, "M1", "Sun Pharma", identity.Manufacturer)
		r1 = fixtures.RegisterCompany(t, tx, "R1", "Apollo", identity.Retailer)
		_, err := drugs.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1")
		assert.Nil(t, err, "mint error")
	})
	commit(t, db, "tx-2", func(tx *storage.Transaction) {
		d, _ := drugs.CurrentState(tx, "Paracetamol", "S1")
		d.Owner = r1.CompanyID
		assert.Nil(t, drugs.Put(tx, d), "put error")
	})
	commit(t, db, "tx-3", func(tx *storage.Transaction) {
		_, err := drugs.Sell(tx, fixtures.Retailer, "Paracetamol", "S1", "R1", "AADHAR-1")
		assert.Nil(t, err, "sell error")
	})

	tx := fixtures.Begin(t, db, "query")
	seq, err := q.History(tx, "Paracetamol", "S1")
	assert.Nil(t, err, "history error")

	entries, err := seq.All()
	assert.Nil(t, err, "all error")
	assert.Equal(t, 3, len(entries), "wrong history length")

	for i, e := range entries {
		if i > 0 {
			assert.False(t, e.Timestamp.Before(entries[i-1].Timestamp), "timestamps go backwards")
		}
	}
	assert.Equal(t, "tx-1", entries[0].TxId, "wrong first tx")
	assert.Equal(t, "tx-3", entries[2].TxId, "wrong last tx")

	state, err := q.State(tx, "Paracetamol", "S1")
	assert.Nil(t, err, "state error")
	assert.Equal(t, state, entries[2].Value, "last entry differs from state")

	// restartable: a second pass sees the same history
	count := 0
	assert.Nil(t, seq.Each(func(provenance.Entry) bool { count += 1; return true }), "each error")
	assert.Equal(t, 3, count, "second pass")
}

func TestHistoryRawFallback(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	q := provenance.New(log, drug.New(log, company.New(log)))

	db := fixtures.NewDatabase(t)
	k, _ := compositekey.Drug("S1", "Paracetamol")
	commit(t, db, "tx-1", func(tx *storage.Transaction) {
		assert.Nil(t, tx.Put(k, []byte("not json")), "put error")
	})
	commit(t, db, "tx-2", func(tx *storage.Transaction) {
		assert.Nil(t, tx.Put(k, []byte(`{"productID":"p","name":"Paracetamol"}`)), "put error")
	})

	tx := fixtures.Begin(t, db, "query")
	seq, _ := q.History(tx, "Paracetamol", "S1")
	entries, err := seq.All()
	assert.Nil(t, err, "history must not fail on undecodable value")
	assert.Equal(t, 2, len(entries), "wrong length")
	assert.Equal(t, "not json", entries[0].Value, "raw value")

	d, ok := entries[1].Value.(*drug.Drug)
	assert.True(t, ok, "decoded value")
	assert.Equal(t, "Paracetamol", d.Name, "wrong name")
}

func TestHistoryOfUnknownUnit(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	q := provenance.New(log, drug.New(log, company.New(log)))

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "query")

	seq, _ := q.History(tx, "Paracetamol", "S404")
	entries, err := seq.All()
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, 0, len(entries), "unexpected history")

	_, err = q.State(tx, "Paracetamol", "S404")
	assert.Equal(t, fault.ErrDrugNotFound, err, "wrong error")
}

func TestHistoryIsLazy(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	// no store calls until the sequence is consumed
	store := mocks.NewMockStore(ctl)

	log := logger.New(fixtures.LogCategory)
	q := provenance.New(log, drug.New(log, company.New(log)))
	_, err := q.History(store, "Paracetamol", "S1")
	assert.Nil(t, err, "wrong error")
}
