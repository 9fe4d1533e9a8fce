// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package drug

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// accepted date formats
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// Drug - one serialised unit
//
// Owner is the stored key of the current custodian company, or an
// opaque consumer id once the unit has been sold
type Drug struct {
	ProductID         string `json:"productID"`
	Name              string `json:"name"`
	Manufacturer      string `json:"manufacturer"`
	ManufacturingDate string `json:"manufacturingDate"`
	ExpiryDate        string `json:"expiryDate"`
	Owner             string `json:"owner"`
	Shipment          string `json:"shipment,omitempty"`
	PurchaseOrder     string `json:"purchaseOrder,omitempty"`
}

// Key - composite key of the unit
func (d *Drug) Key() (compositekey.Key, error) {
	return compositekey.Parse(d.ProductID)
}

// Ledger - minting, sale and state of drug units
type Ledger struct {
	log       *logger.L
	companies *company.Registry
}

// New - create a ledger
func New(log *logger.L, companies *company.Registry) *Ledger {
	return &Ledger{
		log:       log,
		companies: companies,
	}
}

// Mint - record a new unit owned by its manufacturer
func (l *Ledger) Mint(store storage.Store, caller identity.Caller, name string, serialNumber string, manufacturingDate string, expiryDate string, registrationNumber string) (*Drug, error) {

	if err := identity.Require(caller, identity.Manufacturer); nil != err {
		l.log.Infof("mint: %q %q  denied for: %s", serialNumber, name, caller.MSPID)
		return nil, err
	}

	if err := checkDates(manufacturingDate, expiryDate); nil != err {
		return nil, err
	}

	key, err := compositekey.Drug(serialNumber, name)
	if nil != err {
		return nil, err
	}

	_, err = store.Get(key)
	if nil == err {
		return nil, fault.ErrDrugAlreadyExists
	} else if !fault.IsErrNotFound(err) {
		return nil, err
	}

	manufacturer, err := l.companies.LookupByRegistrationNumber(store, registrationNumber)
	if nil != err {
		return nil, err
	}
	if identity.Manufacturer != manufacturer.OrganisationRole {
		l.log.Infof("mint: %q is a: %s", registrationNumber, manufacturer.OrganisationRole)
		return nil, fault.ErrPermissionDenied
	}

	d := &Drug{
		ProductID:         key.String(),
		Name:              name,
		Manufacturer:      manufacturer.CompanyID,
		ManufacturingDate: manufacturingDate,
		ExpiryDate:        expiryDate,
		Owner:             manufacturer.CompanyID,
	}
	if err := l.Put(store, d); nil != err {
		return nil, err
	}

	l.log.Infof("minted: %q %q", serialNumber, name)
	return d, nil
}

// CurrentState - latest record of a unit
func (l *Ledger) CurrentState(store storage.Store, name string, serialNumber string) (*Drug, error) {
	key, err := compositekey.Drug(serialNumber, name)
	if nil != err {
		return nil, err
	}
	return l.Get(store, key)
}

// Sell - transfer a unit from the retailer holding it to a consumer
func (l *Ledger) Sell(store storage.Store, caller identity.Caller, name string, serialNumber string, retailerRegistrationNumber string, consumerId string) (*Drug, error) {

	if err := identity.Require(caller, identity.Retailer); nil != err {
		l.log.Infof("sell: %q %q  denied for: %s", serialNumber, name, caller.MSPID)
		return nil, err
	}

	if "" == strings.TrimSpace(consumerId) {
		return nil, fault.ErrMissingParameters
	}

	d, err := l.CurrentState(store, name, serialNumber)
	if nil != err {
		return nil, err
	}

	retailer, err := l.companies.LookupByRegistrationNumber(store, retailerRegistrationNumber)
	if nil != err {
		return nil, err
	}

	if d.Owner != retailer.CompanyID {
		l.log.Infof("sell: %q %q  held by: %q not: %q", serialNumber, name, d.Owner, retailer.CompanyID)
		return nil, fault.ErrOwnerMismatch
	}

	d.Owner = consumerId
	if err := l.Put(store, d); nil != err {
		return nil, err
	}

	l.log.Infof("sold: %q %q", serialNumber, name)
	return d, nil
}

// Get - unit by its full key
func (l *Ledger) Get(store storage.Store, key compositekey.Key) (*Drug, error) {
	data, err := store.Get(key)
	if fault.IsErrNotFound(err) {
		return nil, fault.ErrDrugNotFound
	} else if nil != err {
		return nil, err
	}
	return Decode(data)
}

// Resolve - the unit with a serial number, restricted to a drug name
func (l *Ledger) Resolve(store storage.Store, serialNumber string, name string) (*Drug, error) {
	var (
		d   *Drug
		err error
	)
	lookupErr := storage.Lookup(store, compositekey.DrugNamespace, serialNumber).Each(func(k compositekey.Key, v []byte) bool {
		if len(k.Parts) != 2 || k.Parts[1] != name {
			return true
		}
		d, err = Decode(v)
		return false
	})
	if nil != lookupErr {
		return nil, lookupErr
	}
	if nil != err {
		return nil, err
	}
	if nil == d {
		return nil, fault.ErrAssetNotFound
	}
	return d, nil
}

// Put - write a unit record
func (l *Ledger) Put(store storage.Store, d *Drug) error {
	key, err := d.Key()
	if nil != err {
		return err
	}
	data, err := json.Marshal(d)
	if nil != err {
		return err
	}
	return store.Put(key, data)
}

// Decode - unit from its stored form
func Decode(data []byte) (*Drug, error) {
	d := &Drug{}
	if err := json.Unmarshal(data, d); nil != err {
		return nil, err
	}
	return d, nil
}

func checkDates(manufacturingDate string, expiryDate string) error {
	mfg, err := parseDate(manufacturingDate)
	if nil != err {
		return err
	}
	exp, err := parseDate(expiryDate)
	if nil != err {
		return err
	}
	if !mfg.Before(exp) {
		return fault.ErrInvalidDates
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); nil == err {
			return t, nil
		}
	}
	return time.Time{}, fault.ErrInvalidDates
}
