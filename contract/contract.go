// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/drug"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/provenance"
	"github.com/bitmark-inc/pharmanetd/purchaseorder"
	"github.com/bitmark-inc/pharmanetd/shipment"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// transaction function names
const (
	RegisterCompany      = "registerCompany"
	AddDrug              = "addDrug"
	CreatePO             = "createPO"
	CreateShipment       = "createShipment"
	UpdateShipment       = "updateShipment"
	RetailDrug           = "retailDrug"
	ViewDrugCurrentState = "viewDrugCurrentState"
	ViewHistory          = "viewHistory"
)

// Invocation - everything a transaction may depend on
type Invocation struct {
	Store  storage.Store
	Caller identity.Caller
	TxId   string
}

// Contract - the ledger's transaction functions
type Contract struct {
	log       *logger.L
	Companies *company.Registry
	Drugs     *drug.Ledger
	Orders    *purchaseorder.Book
	Shipments *shipment.Workflow
	Query     *provenance.Query
}

type handler struct {
	arguments int
	readOnly  bool
	run       func(c *Contract, inv *Invocation, args []string) (interface{}, error)
}

var handlers = map[string]handler{
	RegisterCompany: {4, false, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		return c.Companies.Register(inv.Store, inv.Caller, args[0], args[1], args[2], args[3])
	}},
	AddDrug: {6, false, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		role, err := identity.ParseRole(args[5])
		if nil != err {
			return nil, err
		}
		if role != inv.Caller.Role {
			return nil, fault.ErrPermissionDenied
		}
		return c.Drugs.Mint(inv.Store, inv.Caller, args[0], args[1], args[2], args[3], args[4])
	}},
	CreatePO: {4, false, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		quantity, err := strconv.Atoi(strings.TrimSpace(args[3]))
		if nil != err {
			return nil, fault.ErrInvalidQuantity
		}
		return c.Orders.Create(inv.Store, args[0], args[1], args[2], quantity)
	}},
	CreateShipment: {4, false, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		return c.Shipments.Create(inv.Store, args[0], args[1], SplitAssets(args[2]), args[3])
	}},
	UpdateShipment: {3, false, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		return c.Shipments.Deliver(inv.Store, inv.Caller, args[0], args[1], args[2])
	}},
	RetailDrug: {4, false, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		return c.Drugs.Sell(inv.Store, inv.Caller, args[0], args[1], args[2], args[3])
	}},
	ViewDrugCurrentState: {2, true, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		return c.Query.State(inv.Store, args[0], args[1])
	}},
	ViewHistory: {2, true, func(c *Contract, inv *Invocation, args []string) (interface{}, error) {
		seq, err := c.Query.History(inv.Store, args[0], args[1])
		if nil != err {
			return nil, err
		}
		return seq.All()
	}},
}

// New - wire the components together
func New(log *logger.L) *Contract {
	companies := company.New(log)
	drugs := drug.New(log, companies)
	orders := purchaseorder.New(log, companies)
	return &Contract{
		log:       log,
		Companies: companies,
		Drugs:     drugs,
		Orders:    orders,
		Shipments: shipment.New(log, companies, drugs, orders),
		Query:     provenance.New(log, drugs),
	}
}

// Execute - run one transaction function with positional arguments
func (c *Contract) Execute(inv *Invocation, function string, args []string) (interface{}, error) {
	h, ok := handlers[function]
	if !ok {
		c.log.Infof("tx: %s  unknown function: %q", inv.TxId, function)
		return nil, fault.ErrUnknownTransaction
	}
	if len(args) != h.arguments {
		c.log.Infof("tx: %s  %s: %d arguments, expected: %d", inv.TxId, function, len(args), h.arguments)
		return nil, fault.ErrWrongArgumentCount
	}

	c.log.Debugf("tx: %s  %s%q  caller: %s", inv.TxId, function, args, inv.Caller.MSPID)
	return h.run(c, inv, args)
}

// IsReadOnly - true for the query functions
func IsReadOnly(function string) bool {
	h, ok := handlers[function]
	return ok && h.readOnly
}

// Functions - names of all transaction functions
func Functions() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SplitAssets - serial numbers from a comma separated list
func SplitAssets(list string) []string {
	assets := make([]string, 0)
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); "" != s {
			assets = append(assets, s)
		}
	}
	return assets
}
