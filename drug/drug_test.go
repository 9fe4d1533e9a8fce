// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package drug_test

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/drug"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/fixtures"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/storage/mocks"
)

func newLedger() *drug.Ledger {
	log := logger.New(fixtures.LogCategory)
	return drug.New(log, company.New(log))
}

func TestMint(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	m1 := fixtures.RegisterCompany(t, tx, "M1", "Sun Pharma", identity.Manufacturer)

	l := newLedger()
	d, err := l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1")
	assert.Nil(t, err, "mint error")
	assert.Equal(t, m1.CompanyID, d.Owner, "owner must be the manufacturer")
	assert.Equal(t, m1.CompanyID, d.Manufacturer, "wrong manufacturer")
	assert.Equal(t, "", d.Shipment, "unexpected shipment")

	state, err := l.CurrentState(tx, "Paracetamol", "S1")
	assert.Nil(t, err, "state error")
	assert.Equal(t, d, state, "state differs from minted")
}

func TestMintDenied(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockStore(ctl)

	l := newLedger()
	for _, caller := range []identity.Caller{fixtures.Distributor, fixtures.Retailer, fixtures.Transporter, fixtures.Consumer} {
		_, err := l.Mint(store, caller, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1")
		assert.Equal(t, fault.ErrPermissionDenied, err, "%s minted", caller.Role)
	}
}

func TestMintInvalidDates(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	fixtures.RegisterCompany(t, tx, "M1", "Sun Pharma", identity.Manufacturer)

	l := newLedger()
	dates := [][2]string{
		{"2022-01-01", "2020-01-01"},
		{"2020-01-01", "2020-01-01"},
		{"yesterday", "2020-01-01"},
		{"2020-01-01", ""},
	}
	for _, d := range dates {
		_, err := l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", d[0], d[1], "M1")
		assert.Equal(t, fault.ErrInvalidDates, err, "accepted: %v", d)
	}

	_, err := l.CurrentState(tx, "Paracetamol", "S1")
	assert.Equal(t, fault.ErrDrugNotFound, err, "unit written")

	_, err = l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01T08:00:00Z", "2020-01-01T09:00:00Z", "M1")
	assert.Nil(t, err, "RFC3339 dates rejected")
}

func TestMintTwice(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	fixtures.RegisterCompany(t, tx, "M1", "Sun Pharma", identity.Manufacturer)

	l := newLedger()
	first, err := l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1")
	assert.Nil(t, err, "first mint")

	_, err = l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2021-01-01", "2023-01-01", "M1")
	assert.Equal(t, fault.ErrDrugAlreadyExists, err, "second mint")

	state, _ := l.CurrentState(tx, "Paracetamol", "S1")
	assert.Equal(t, first, state, "unit overwritten")
}

func TestMintByNonManufacturerCompany(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	fixtures.RegisterCompany(t, tx, "D1", "Medplus", identity.Distributor)

	l := newLedger()
	_, err := l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "D1")
	assert.Equal(t, fault.ErrPermissionDenied, err, "distributor company minted")

	_, err = l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M404")
	assert.Equal(t, fault.ErrCompanyNotFound, err, "unknown company minted")
}

func TestSell(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	fixtures.RegisterCompany(t, tx, "M1", "Sun Pharma", identity.Manufacturer)
	r1 := fixtures.RegisterCompany(t, tx, "R1", "Apollo", identity.Retailer)
	fixtures.RegisterCompany(t, tx, "R2", "Wellness", identity.Retailer)

	l := newLedger()
	d, err := l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1")
	assert.Nil(t, err, "mint error")

	// hand custody to R1 as a delivery would
	d.Owner = r1.CompanyID
	assert.Nil(t, l.Put(tx, d), "put error")

	_, err = l.Sell(tx, fixtures.Transporter, "Paracetamol", "S1", "R1", "AADHAR-1")
	assert.Equal(t, fault.ErrPermissionDenied, err, "transporter sold")

	_, err = l.Sell(tx, fixtures.Retailer, "Paracetamol", "S1", "R2", "AADHAR-1")
	assert.Equal(t, fault.ErrOwnerMismatch, err, "non owner sold")

	unchanged, _ := l.CurrentState(tx, "Paracetamol", "S1")
	assert.Equal(t, r1.CompanyID, unchanged.Owner, "state changed by failed sale")

	_, err = l.Sell(tx, fixtures.Retailer, "Aspirin", "S1", "R1", "AADHAR-1")
	assert.Equal(t, fault.ErrDrugNotFound, err, "missing unit sold")

	sold, err := l.Sell(tx, fixtures.Retailer, "Paracetamol", "S1", "R1", "AADHAR-1")
	assert.Nil(t, err, "sell error")
	assert.Equal(t, "AADHAR-1", sold.Owner, "wrong owner")

	_, err = l.Sell(tx, fixtures.Retailer, "Paracetamol", "S1", "R1", "AADHAR-2")
	assert.Equal(t, fault.ErrOwnerMismatch, err, "sold twice")
}

func TestSellWithoutConsumer(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	fixtures.RegisterCompany(t, tx, "M1", "Sun Pharma", identity.Manufacturer)
	r1 := fixtures.RegisterCompany(t, tx, "R1", "Apollo", identity.Retailer)

	l := newLedger()
	d, err := l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1")
	assert.Nil(t, err, "mint error")

	d.Owner = r1.CompanyID
	assert.Nil(t, l.Put(tx, d), "put error")

	for _, consumerId := range []string{"", "   "} {
		_, err = l.Sell(tx, fixtures.Retailer, "Paracetamol", "S1", "R1", consumerId)
		assert.Equal(t, fault.ErrMissingParameters, err, "consumer: %q", consumerId)
		assert.Equal(t, fault.KindInvalidArguments, fault.Kind(err), "kind")
	}

	unchanged, err := l.CurrentState(tx, "Paracetamol", "S1")
	assert.Nil(t, err, "current state error")
	assert.Equal(t, r1.CompanyID, unchanged.Owner, "sold to nobody")
}

func TestResolve(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	fixtures.RegisterCompany(t, tx, "M1", "Sun Pharma", identity.Manufacturer)

	l := newLedger()
	_, err := l.Mint(tx, fixtures.Manufacturer, "Aspirin", "S1", "2020-01-01", "2022-01-01", "M1")
	assert.Nil(t, err, "mint error")
	_, err = l.Mint(tx, fixtures.Manufacturer, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1")
	assert.Nil(t, err, "mint error")

	d, err := l.Resolve(tx, "S1", "Paracetamol")
	assert.Nil(t, err, "resolve error")
	assert.Equal(t, "Paracetamol", d.Name, "wrong unit")

	_, err = l.Resolve(tx, "S1", "Ibuprofen")
	assert.Equal(t, fault.ErrAssetNotFound, err, "wrong error")

	_, err = l.Resolve(tx, "S9", "Paracetamol")
	assert.Equal(t, fault.ErrAssetNotFound, err, "wrong error")
}
