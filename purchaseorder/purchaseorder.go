// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package purchaseorder - orders placed by a buyer on the tier above
package purchaseorder

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// PurchaseOrder - at most one per (buyer, drug name)
type PurchaseOrder struct {
	POID     string `json:"poID"`
	DrugName string `json:"drugName"`
	Quantity int    `json:"quantity"`
	Buyer    string `json:"buyer"`
	Seller   string `json:"seller"`
}

// Book - the purchase orders
type Book struct {
	log       *logger.L
	companies *company.Registry
}

// New - create an order book
func New(log *logger.L, companies *company.Registry) *Book {
	return &Book{
		log:       log,
		companies: companies,
	}
}

// Create - place an order
func (b *Book) Create(store storage.Store, buyerRegistrationNumber string, sellerRegistrationNumber string, drugName string, quantity int) (*PurchaseOrder, error) {

	if quantity <= 0 {
		return nil, fault.ErrInvalidQuantity
	}

	buyer, err := b.companies.LookupByRegistrationNumber(store, buyerRegistrationNumber)
	if nil != err {
		return nil, err
	}
	seller, err := b.companies.LookupByRegistrationNumber(store, sellerRegistrationNumber)
	if nil != err {
		return nil, err
	}

	if !Allowed(buyer.OrganisationRole, seller.OrganisationRole) {
		b.log.Infof("order: %s %q from: %s %q  not allowed", buyer.OrganisationRole, buyerRegistrationNumber, seller.OrganisationRole, sellerRegistrationNumber)
		return nil, fault.ErrHierarchyViolation
	}

	key, err := compositekey.PurchaseOrder(buyerRegistrationNumber, drugName)
	if nil != err {
		return nil, err
	}

	_, err = store.Get(key)
	if nil == err {
		return nil, fault.ErrPurchaseOrderAlreadyExists
	} else if !fault.IsErrNotFound(err) {
		return nil, err
	}

	po := &PurchaseOrder{
		POID:     key.String(),
		DrugName: drugName,
		Quantity: quantity,
		Buyer:    buyer.CompanyID,
		Seller:   seller.CompanyID,
	}

	data, err := json.Marshal(po)
	if nil != err {
		return nil, err
	}
	if err := store.Put(key, data); nil != err {
		return nil, err
	}

	b.log.Infof("ordered: %d of: %q  buyer: %q  seller: %q", quantity, drugName, buyerRegistrationNumber, sellerRegistrationNumber)
	return po, nil
}

// Get - the order of a buyer for a drug
func (b *Book) Get(store storage.Store, buyerRegistrationNumber string, drugName string) (*PurchaseOrder, error) {
	key, err := compositekey.PurchaseOrder(buyerRegistrationNumber, drugName)
	if nil != err {
		return nil, err
	}

	data, err := store.Get(key)
	if fault.IsErrNotFound(err) {
		return nil, fault.ErrPurchaseOrderNotFound
	} else if nil != err {
		return nil, err
	}

	po := &PurchaseOrder{}
	if err := json.Unmarshal(data, po); nil != err {
		return nil, err
	}
	return po, nil
}

// Allowed - a buyer may only purchase from the tier directly above it
func Allowed(buyer identity.Role, seller identity.Role) bool {
	b := buyer.HierarchyLevel()
	s := seller.HierarchyLevel()
	if identity.NoLevel == b || identity.NoLevel == s {
		return false
	}
	return b == s+1
}
