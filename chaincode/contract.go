// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincode

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"

	"github.com/bitmark-inc/pharmanetd/contract"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
)

const contractName = "org.pharma-network.pharmanet"

// PharmaContract - the ledger functions as Fabric transactions
//
// each function is available under its exported method name and under
// its original name, e.g. "RegisterCompany" and "registerCompany"
type PharmaContract struct {
	contractapi.Contract

	log      *logger.L
	ledger   *contract.Contract
	resolver identity.Resolver
}

// New - contract resolving callers through resolver
func New(log *logger.L, resolver identity.Resolver) *PharmaContract {
	c := &PharmaContract{
		log:      log,
		ledger:   contract.New(log),
		resolver: resolver,
	}
	c.Name = contractName
	c.UnknownTransaction = c.dispatch
	return c
}

// RegisterCompany - add a company to the registry
func (c *PharmaContract) RegisterCompany(ctx contractapi.TransactionContextInterface, registrationNumber string, name string, location string, role string) (string, error) {
	return c.run(ctx, contract.RegisterCompany, []string{registrationNumber, name, location, role})
}

// AddDrug - mint a drug unit
func (c *PharmaContract) AddDrug(ctx contractapi.TransactionContextInterface, name string, serialNumber string, manufacturingDate string, expiryDate string, registrationNumber string, role string) (string, error) {
	return c.run(ctx, contract.AddDrug, []string{name, serialNumber, manufacturingDate, expiryDate, registrationNumber, role})
}

// CreatePO - order a quantity of a drug from the tier above
func (c *PharmaContract) CreatePO(ctx contractapi.TransactionContextInterface, buyerRegistrationNumber string, sellerRegistrationNumber string, drugName string, quantity string) (string, error) {
	return c.run(ctx, contract.CreatePO, []string{buyerRegistrationNumber, sellerRegistrationNumber, drugName, quantity})
}

// CreateShipment - hand ordered units to a transporter
func (c *PharmaContract) CreateShipment(ctx contractapi.TransactionContextInterface, buyerRegistrationNumber string, drugName string, assets string, transporterRegistrationNumber string) (string, error) {
	return c.run(ctx, contract.CreateShipment, []string{buyerRegistrationNumber, drugName, assets, transporterRegistrationNumber})
}

// UpdateShipment - deliver a shipment to its buyer
func (c *PharmaContract) UpdateShipment(ctx contractapi.TransactionContextInterface, buyerRegistrationNumber string, drugName string, transporterRegistrationNumber string) (string, error) {
	return c.run(ctx, contract.UpdateShipment, []string{buyerRegistrationNumber, drugName, transporterRegistrationNumber})
}

// RetailDrug - sell a unit to a consumer
func (c *PharmaContract) RetailDrug(ctx contractapi.TransactionContextInterface, name string, serialNumber string, retailerRegistrationNumber string, consumerId string) (string, error) {
	return c.run(ctx, contract.RetailDrug, []string{name, serialNumber, retailerRegistrationNumber, consumerId})
}

// ViewDrugCurrentState - latest record of a unit
func (c *PharmaContract) ViewDrugCurrentState(ctx contractapi.TransactionContextInterface, name string, serialNumber string) (string, error) {
	return c.run(ctx, contract.ViewDrugCurrentState, []string{name, serialNumber})
}

// ViewHistory - every committed record of a unit
func (c *PharmaContract) ViewHistory(ctx contractapi.TransactionContextInterface, name string, serialNumber string) (string, error) {
	return c.run(ctx, contract.ViewHistory, []string{name, serialNumber})
}

// original function names arrive here as unknown transactions
func (c *PharmaContract) dispatch(ctx contractapi.TransactionContextInterface) (string, error) {
	function, args := ctx.GetStub().GetFunctionAndParameters()
	return c.run(ctx, function, args)
}

func (c *PharmaContract) run(ctx contractapi.TransactionContextInterface, function string, args []string) (string, error) {
	stub := ctx.GetStub()
	txId := stub.GetTxID()

	value, err := c.execute(ctx, txId, function, args)
	r := contract.Respond(txId, function, args, value, err)
	if r.Failed() {
		c.log.Infof("tx: %s  %s", txId, r.ErrorTrace)
		return "", fmt.Errorf("%s: %s", r.Kind, r.ErrorTrace)
	}

	data, err := json.Marshal(r)
	if nil != err {
		return "", err
	}
	if !contract.IsReadOnly(function) {
		if err := stub.SetEvent(function, data); nil != err {
			return "", err
		}
	}
	return string(data), nil
}

func (c *PharmaContract) execute(ctx contractapi.TransactionContextInterface, txId string, function string, args []string) (interface{}, error) {
	mspId, err := ctx.GetClientIdentity().GetMSPID()
	if nil != err {
		c.log.Errorf("tx: %s  client identity error: %s", txId, err)
		return nil, fault.ErrUnknownIdentity
	}
	caller, err := c.resolver.Resolve(mspId)
	if nil != err {
		return nil, err
	}

	inv := &contract.Invocation{
		Store:  NewStore(ctx.GetStub()),
		Caller: caller,
		TxId:   txId,
	}
	return c.ledger.Execute(inv, function, args)
}
