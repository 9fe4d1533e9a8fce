// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shipment_test

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/drug"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/fixtures"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/purchaseorder"
	"github.com/bitmark-inc/pharmanetd/shipment"
	"github.com/bitmark-inc/pharmanetd/storage"
)

type ledger struct {
	drugs    *drug.Ledger
	orders   *purchaseorder.Book
	workflow *shipment.Workflow

	m1 *company.Company
	d1 *company.Company
	t1 *company.Company
}

// M1 holds units S1..Sn of Paracetamol, D1 has ordered quantity of them
func setupLedger(t *testing.T, store storage.Store, serials []string, quantity int) *ledger {
	log := logger.New(fixtures.LogCategory)
	companies := company.New(log)
	l := &ledger{
		drugs:  drug.New(log, companies),
		orders: purchaseorder.New(log, companies),
	}
	l.workflow = shipment.New(log, companies, l.drugs, l.orders)

	l.m1 = fixtures.RegisterCompany(t, store, "M1", "Sun Pharma", identity.Manufacturer)
	l.d1 = fixtures.RegisterCompany(t, store, "D1", "Medplus", identity.Distributor)
	l.t1 = fixtures.RegisterCompany(t, store, "T1", "Blue Dart", identity.Transporter)

	for _, s := range serials {
		if _, err := l.drugs.Mint(store, fixtures.Manufacturer, "Paracetamol", s, "2020-01-01", "2022-01-01", "M1"); nil != err {
			t.Fatalf("mint: %q  error: %s", s, err)
		}
	}
	if _, err := l.orders.Create(store, "D1", "M1", "Paracetamol", quantity); nil != err {
		t.Fatalf("order error: %s", err)
	}
	return l
}

func TestShipAndDeliver(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	l := setupLedger(t, tx, []string{"S1", "S2"}, 2)

	s, err := l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S2"}, "T1")
	assert.Nil(t, err, "create error")
	assert.Equal(t, shipment.InTransit, s.Status, "wrong status")
	assert.Equal(t, l.m1.CompanyID, s.Creator, "creator must be the seller")
	assert.Equal(t, l.t1.CompanyID, s.Transporter, "wrong transporter")
	assert.Equal(t, 2, len(s.Assets), "wrong asset count")

	for _, serial := range []string{"S1", "S2"} {
		d, _ := l.drugs.CurrentState(tx, "Paracetamol", serial)
		assert.Equal(t, l.t1.CompanyID, d.Owner, "%s not held by transporter", serial)
	}

	units, err := l.workflow.Deliver(tx, fixtures.Transporter, "D1", "Paracetamol", "T1")
	assert.Nil(t, err, "deliver error")
	assert.Equal(t, 2, len(units), "wrong delivered count")

	for _, serial := range []string{"S1", "S2"} {
		d, _ := l.drugs.CurrentState(tx, "Paracetamol", serial)
		assert.Equal(t, l.d1.CompanyID, d.Owner, "%s not owned by buyer", serial)
		assert.Equal(t, s.ShipmentID, d.Shipment, "%s wrong shipment reference", serial)
	}

	stored, err := l.workflow.Get(tx, "D1", "Paracetamol")
	assert.Nil(t, err, "get error")
	assert.Equal(t, shipment.Delivered, stored.Status, "wrong status")

	_, err = l.workflow.Deliver(tx, fixtures.Transporter, "D1", "Paracetamol", "T1")
	assert.Equal(t, fault.ErrAlreadyDelivered, err, "delivered twice")
}

func TestQuantityMismatch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	l := setupLedger(t, tx, []string{"S1", "S2"}, 2)

	_, err := l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1"}, "T1")
	assert.Equal(t, fault.ErrQuantityMismatch, err, "short shipment")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S2", "S3"}, "T1")
	assert.Equal(t, fault.ErrQuantityMismatch, err, "long shipment")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S1"}, "T1")
	assert.Equal(t, fault.ErrDuplicateAsset, err, "repeated unit")

	_, err = l.workflow.Get(tx, "D1", "Paracetamol")
	assert.Equal(t, fault.ErrShipmentNotFound, err, "shipment written")

	d, _ := l.drugs.CurrentState(tx, "Paracetamol", "S1")
	assert.Equal(t, l.m1.CompanyID, d.Owner, "unit moved by failed shipment")
}

func TestCreateFailures(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	l := setupLedger(t, tx, []string{"S1", "S2"}, 2)

	_, err := l.workflow.Create(tx, "D1", "Aspirin", []string{"S1", "S2"}, "T1")
	assert.Equal(t, fault.ErrPurchaseOrderNotFound, err, "no order")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S9"}, "T1")
	assert.Equal(t, fault.ErrAssetNotFound, err, "unknown unit")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S2"}, "D1")
	assert.Equal(t, fault.ErrNotTransporter, err, "distributor as transporter")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S2"}, "T404")
	assert.Equal(t, fault.ErrCompanyNotFound, err, "unknown transporter")

	// S2 held by someone other than the seller
	d, _ := l.drugs.CurrentState(tx, "Paracetamol", "S2")
	d.Owner = l.d1.CompanyID
	assert.Nil(t, l.drugs.Put(tx, d), "put error")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S2"}, "T1")
	assert.Equal(t, fault.ErrOwnerMismatch, err, "unit not held by seller")

	s1, _ := l.drugs.CurrentState(tx, "Paracetamol", "S1")
	assert.Equal(t, l.m1.CompanyID, s1.Owner, "partial write on failure")

	_, err = l.workflow.Get(tx, "D1", "Paracetamol")
	assert.Equal(t, fault.ErrShipmentNotFound, err, "shipment written")
}

func TestCreateTwice(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	l := setupLedger(t, tx, []string{"S1"}, 1)

	_, err := l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1"}, "T1")
	assert.Nil(t, err, "create error")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1"}, "T1")
	assert.Equal(t, fault.ErrShipmentAlreadyExists, err, "second shipment")
}

func TestDeliverDenied(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	l := setupLedger(t, tx, []string{"S1"}, 1)
	fixtures.RegisterCompany(t, tx, "T2", "DHL", identity.Transporter)

	_, err := l.workflow.Deliver(tx, fixtures.Transporter, "D1", "Paracetamol", "T1")
	assert.Equal(t, fault.ErrShipmentNotFound, err, "no shipment")

	_, err = l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1"}, "T1")
	assert.Nil(t, err, "create error")

	for _, caller := range []identity.Caller{fixtures.Manufacturer, fixtures.Distributor, fixtures.Retailer, fixtures.Consumer} {
		_, err = l.workflow.Deliver(tx, caller, "D1", "Paracetamol", "T1")
		assert.Equal(t, fault.ErrPermissionDenied, err, "%s delivered", caller.Role)
	}

	_, err = l.workflow.Deliver(tx, fixtures.Transporter, "D1", "Paracetamol", "T2")
	assert.Equal(t, fault.ErrPermissionDenied, err, "another transporter delivered")

	s, _ := l.workflow.Get(tx, "D1", "Paracetamol")
	assert.Equal(t, shipment.InTransit, s.Status, "status changed by denied delivery")
}

func TestDeliverSkipsUnreadableUnit(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	db := fixtures.NewDatabase(t)
	tx := fixtures.Begin(t, db, "tx-1")
	l := setupLedger(t, tx, []string{"S1", "S2"}, 2)

	_, err := l.workflow.Create(tx, "D1", "Paracetamol", []string{"S1", "S2"}, "T1")
	assert.Nil(t, err, "create error")

	k, _ := compositekey.Drug("S2", "Paracetamol")
	assert.Nil(t, tx.Put(k, []byte("{not json")), "corrupt error")

	units, err := l.workflow.Deliver(tx, fixtures.Transporter, "D1", "Paracetamol", "T1")
	assert.Nil(t, err, "deliver error")
	assert.Equal(t, 1, len(units), "wrong delivered count")
	assert.Equal(t, "Paracetamol", units[0].Name, "wrong unit")

	s1, _ := l.drugs.CurrentState(tx, "Paracetamol", "S1")
	assert.Equal(t, l.d1.CompanyID, s1.Owner, "readable unit not delivered")

	s, _ := l.workflow.Get(tx, "D1", "Paracetamol")
	assert.Equal(t, shipment.Delivered, s.Status, "wrong status")
}
