// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for package tests
package fixtures

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/storage"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - log to a scratch directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

// NewDatabase - an empty in-memory ledger closed at the end of the test
func NewDatabase(t *testing.T) *storage.Database {
	db, err := storage.OpenMemory(logger.New(LogCategory))
	if nil != err {
		t.Fatalf("open memory database error: %s", err)
	}
	t.Cleanup(db.Close)
	return db
}

// Begin - a transaction aborted at the end of the test unless committed
func Begin(t *testing.T, db *storage.Database, txId string) *storage.Transaction {
	tx, err := db.Begin(txId)
	if nil != err {
		t.Fatalf("begin transaction error: %s", err)
	}
	t.Cleanup(tx.Abort)
	return tx
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// callers of each role
var (
	Manufacturer = identity.Caller{MSPID: "manufacturerMSP", Role: identity.Manufacturer}
	Distributor  = identity.Caller{MSPID: "distributorMSP", Role: identity.Distributor}
	Retailer     = identity.Caller{MSPID: "retailerMSP", Role: identity.Retailer}
	Transporter  = identity.Caller{MSPID: "transporterMSP", Role: identity.Transporter}
	Consumer     = identity.Caller{MSPID: "consumerMSP", Role: identity.Consumer}
)

// RegisterCompany - register a company or fail the test
func RegisterCompany(t *testing.T, store storage.Store, registrationNumber string, name string, role identity.Role) *company.Company {
	r := company.New(logger.New(LogCategory))
	c, err := r.Register(store, Manufacturer, registrationNumber, name, "Bengaluru", string(role))
	if nil != err {
		t.Fatalf("register company: %q  error: %s", registrationNumber, err)
	}
	return c
}
