// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/contract"
	"github.com/bitmark-inc/pharmanetd/drug"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/fixtures"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/provenance"
	"github.com/bitmark-inc/pharmanetd/shipment"
	"github.com/bitmark-inc/pharmanetd/storage"
)

type host struct {
	t        *testing.T
	db       *storage.Database
	contract *contract.Contract
	count    int
}

func newHost(t *testing.T) *host {
	return &host{
		t:        t,
		db:       fixtures.NewDatabase(t),
		contract: contract.New(logger.New(fixtures.LogCategory)),
	}
}

// run one function in its own transaction, committed only on success
func (h *host) run(caller identity.Caller, function string, args ...string) *contract.Response {
	h.count += 1
	txId := fmt.Sprintf("tx-%d", h.count)

	tx := fixtures.Begin(h.t, h.db, txId)
	inv := &contract.Invocation{
		Store:  tx,
		Caller: caller,
		TxId:   txId,
	}
	value, err := h.contract.Execute(inv, function, args)
	if nil == err {
		_, err = tx.Commit()
	} else {
		tx.Abort()
	}
	return contract.Respond(txId, function, args, value, err)
}

func (h *host) mustRun(caller identity.Caller, function string, args ...string) *contract.Response {
	r := h.run(caller, function, args...)
	if r.Failed() {
		h.t.Fatalf("%s error: %s", function, r.ErrorTrace)
	}
	return r
}

func TestHierarchyScenario(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := newHost(t)
	h.mustRun(fixtures.Manufacturer, contract.RegisterCompany, "M1", "Sun Pharma", "Mumbai", "Manufacturer")
	h.mustRun(fixtures.Distributor, contract.RegisterCompany, "D1", "Medplus", "Delhi", "Distributor")
	h.mustRun(fixtures.Retailer, contract.RegisterCompany, "R1", "Apollo", "Chennai", "Retailer")
	h.mustRun(fixtures.Manufacturer, contract.AddDrug, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1", "Manufacturer")

	r := h.run(fixtures.Distributor, contract.CreatePO, "D1", "M1", "Paracetamol", "1")
	assert.False(t, r.Failed(), "distributor from manufacturer: %s", r.ErrorTrace)

	r = h.run(fixtures.Retailer, contract.CreatePO, "R1", "M1", "Paracetamol", "1")
	assert.True(t, r.Failed(), "retailer from manufacturer")
	assert.Equal(t, fault.KindHierarchyViolation, r.Kind, "wrong kind")
	assert.Equal(t, contract.StatusFailure, r.Status, "wrong status")
}

func TestCustodyScenario(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := newHost(t)
	m1 := h.mustRun(fixtures.Manufacturer, contract.RegisterCompany, "M1", "Sun Pharma", "Mumbai", "Manufacturer")
	d1 := h.mustRun(fixtures.Distributor, contract.RegisterCompany, "D1", "Medplus", "Delhi", "Distributor")
	r1 := h.mustRun(fixtures.Retailer, contract.RegisterCompany, "R1", "Apollo", "Chennai", "Retailer")
	t1 := h.mustRun(fixtures.Transporter, contract.RegisterCompany, "T1", "Blue Dart", "Pune", "Transporter")

	h.mustRun(fixtures.Manufacturer, contract.AddDrug, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1", "Manufacturer")

	// manufacturer to distributor
	h.mustRun(fixtures.Distributor, contract.CreatePO, "D1", "M1", "Paracetamol", "1")
	s := h.mustRun(fixtures.Manufacturer, contract.CreateShipment, "D1", "Paracetamol", " S1 ", "T1")
	assert.Equal(t, shipment.InTransit, s.Data.(*shipment.Shipment).Status, "wrong status")

	h.mustRun(fixtures.Transporter, contract.UpdateShipment, "D1", "Paracetamol", "T1")

	state := h.mustRun(fixtures.Consumer, contract.ViewDrugCurrentState, "Paracetamol", "S1")
	assert.Equal(t, companyID(d1), state.Data.(*drug.Drug).Owner, "distributor must own the unit")

	// distributor to retailer
	h.mustRun(fixtures.Retailer, contract.CreatePO, "R1", "D1", "Paracetamol", "1")
	h.mustRun(fixtures.Distributor, contract.CreateShipment, "R1", "Paracetamol", "S1", "T1")
	h.mustRun(fixtures.Transporter, contract.UpdateShipment, "R1", "Paracetamol", "T1")

	// retail sale
	r := h.run(fixtures.Retailer, contract.RetailDrug, "Paracetamol", "S1", "D1", "AADHAR-1")
	assert.Equal(t, fault.KindOwnerMismatch, r.Kind, "sold by non owner")

	h.mustRun(fixtures.Retailer, contract.RetailDrug, "Paracetamol", "S1", "R1", "AADHAR-1")

	history := h.mustRun(fixtures.Consumer, contract.ViewHistory, "Paracetamol", "S1")
	entries := history.Data.([]provenance.Entry)

	owners := make([]string, 0, len(entries))
	for _, e := range entries {
		owners = append(owners, e.Value.(*drug.Drug).Owner)
	}
	expected := []string{
		companyID(m1), // mint
		companyID(t1), // shipped
		companyID(d1), // delivered
		companyID(t1), // shipped
		companyID(r1), // delivered
		"AADHAR-1",    // sold
	}
	assert.Equal(t, expected, owners, "wrong custody chain")
}

func TestArgumentChecks(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := newHost(t)

	r := h.run(fixtures.Manufacturer, "deleteEverything")
	assert.Equal(t, fault.ErrUnknownTransaction.Error(), r.Error, "unknown function")

	for _, name := range contract.Functions() {
		r = h.run(fixtures.Manufacturer, name, "too", "few")
		if contract.IsReadOnly(name) {
			continue
		}
		assert.Equal(t, fault.KindInvalidArguments, r.Kind, "%s with two arguments", name)
	}

	h.mustRun(fixtures.Manufacturer, contract.RegisterCompany, "M1", "Sun Pharma", "Mumbai", "Manufacturer")
	h.mustRun(fixtures.Distributor, contract.RegisterCompany, "D1", "Medplus", "Delhi", "Distributor")

	for _, q := range []string{"abc", "", "1.5", "0"} {
		r = h.run(fixtures.Distributor, contract.CreatePO, "D1", "M1", "Paracetamol", q)
		assert.Equal(t, fault.KindInvalidQuantity, r.Kind, "quantity %q", q)
	}

	r = h.run(fixtures.Manufacturer, contract.AddDrug, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1", "Distributor")
	assert.Equal(t, fault.KindPermissionDenied, r.Kind, "role argument differs from caller")

	r = h.run(fixtures.Distributor, contract.AddDrug, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1", "Distributor")
	assert.Equal(t, fault.KindPermissionDenied, r.Kind, "distributor minted")

	r = h.run(fixtures.Manufacturer, contract.AddDrug, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1", "Pharaoh")
	assert.Equal(t, fault.KindInvalidRole, r.Kind, "unknown role argument")
}

func TestFailedTransactionWritesNothing(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := newHost(t)
	h.mustRun(fixtures.Manufacturer, contract.RegisterCompany, "M1", "Sun Pharma", "Mumbai", "Manufacturer")
	h.mustRun(fixtures.Distributor, contract.RegisterCompany, "D1", "Medplus", "Delhi", "Distributor")
	h.mustRun(fixtures.Transporter, contract.RegisterCompany, "T1", "Blue Dart", "Pune", "Transporter")
	h.mustRun(fixtures.Manufacturer, contract.AddDrug, "Paracetamol", "S1", "2020-01-01", "2022-01-01", "M1", "Manufacturer")
	h.mustRun(fixtures.Distributor, contract.CreatePO, "D1", "M1", "Paracetamol", "2")

	r := h.run(fixtures.Manufacturer, contract.CreateShipment, "D1", "Paracetamol", "S1", "T1")
	assert.Equal(t, fault.KindQuantityMismatch, r.Kind, "wrong kind")

	r = h.run(fixtures.Manufacturer, contract.CreateShipment, "D1", "Paracetamol", "S1,S2", "T1")
	assert.Equal(t, fault.KindAssetNotFound, r.Kind, "wrong kind")

	r = h.run(fixtures.Transporter, contract.UpdateShipment, "D1", "Paracetamol", "T1")
	assert.Equal(t, fault.KindNotFound, r.Kind, "shipment exists after failures")

	history := h.mustRun(fixtures.Consumer, contract.ViewHistory, "Paracetamol", "S1")
	assert.Equal(t, 1, len(history.Data.([]provenance.Entry)), "unit written by failed shipment")
}

func TestResponseJSON(t *testing.T) {
	r := contract.Respond("tx-1", contract.CreatePO, []string{"R1", "M1", "x", "1"}, nil, fault.ErrHierarchyViolation)

	data, err := json.Marshal(r)
	assert.Nil(t, err, "marshal error")

	var fields map[string]interface{}
	assert.Nil(t, json.Unmarshal(data, &fields), "unmarshal error")
	assert.Equal(t, "failure", fields["status"], "status")
	assert.Equal(t, fault.ErrHierarchyViolation.Error(), fields["error"], "error")
	assert.Equal(t, "HierarchyViolation", fields["kind"], "kind")
	assert.Contains(t, fields["errorTrace"], "createPO(R1, M1, x, 1)", "trace")

	ok := contract.Respond("tx-2", contract.ViewHistory, nil, []int{1}, nil)
	assert.False(t, ok.Failed(), "success marked failed")
	assert.Equal(t, "", ok.ErrorTrace, "trace on success")
}

func TestSplitAssets(t *testing.T) {
	assert.Equal(t, []string{"S1", "S2", "S3"}, contract.SplitAssets("S1, S2 ,S3"), "split")
	assert.Equal(t, []string{}, contract.SplitAssets(""), "empty list")
	assert.Equal(t, []string{"S1"}, contract.SplitAssets("S1,,"), "trailing commas")
}

func companyID(r *contract.Response) string {
	return r.Data.(*company.Company).CompanyID
}
