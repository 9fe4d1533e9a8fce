// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shipment

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/company"
	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/drug"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/purchaseorder"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// Status - shipment lifecycle
type Status string

// lifecycle states, Delivered is terminal
const (
	InTransit Status = "in-transit"
	Delivered Status = "delivered"
)

// Shipment - units moving from the seller of an order to its buyer
type Shipment struct {
	ShipmentID  string   `json:"shipmentID"`
	Creator     string   `json:"creator"`
	Assets      []string `json:"assets"`
	Transporter string   `json:"transporter"`
	Status      Status   `json:"status"`
}

// Workflow - creates and delivers shipments against purchase orders
type Workflow struct {
	log       *logger.L
	companies *company.Registry
	drugs     *drug.Ledger
	orders    *purchaseorder.Book
}

// New - create a workflow
func New(log *logger.L, companies *company.Registry, drugs *drug.Ledger, orders *purchaseorder.Book) *Workflow {
	return &Workflow{
		log:       log,
		companies: companies,
		drugs:     drugs,
		orders:    orders,
	}
}

// Create - dispatch the units of an order, serialNumbers must name
// exactly the ordered quantity of units of the ordered drug, all held
// by the seller
//
// on success custody of every unit passes to the transporter
func (w *Workflow) Create(store storage.Store, buyerRegistrationNumber string, drugName string, serialNumbers []string, transporterRegistrationNumber string) (*Shipment, error) {

	po, err := w.orders.Get(store, buyerRegistrationNumber, drugName)
	if nil != err {
		return nil, err
	}

	if len(serialNumbers) != po.Quantity {
		w.log.Infof("shipment: %q %q  has: %d units  ordered: %d", buyerRegistrationNumber, drugName, len(serialNumbers), po.Quantity)
		return nil, fault.ErrQuantityMismatch
	}
	seen := make(map[string]struct{}, len(serialNumbers))
	for _, serialNumber := range serialNumbers {
		if _, ok := seen[serialNumber]; ok {
			return nil, fault.ErrDuplicateAsset
		}
		seen[serialNumber] = struct{}{}
	}

	key, err := compositekey.Shipment(buyerRegistrationNumber, drugName)
	if nil != err {
		return nil, err
	}
	_, err = store.Get(key)
	if nil == err {
		return nil, fault.ErrShipmentAlreadyExists
	} else if !fault.IsErrNotFound(err) {
		return nil, err
	}

	transporter, err := w.companies.LookupByRegistrationNumber(store, transporterRegistrationNumber)
	if nil != err {
		return nil, err
	}
	if identity.Transporter != transporter.OrganisationRole {
		return nil, fault.ErrNotTransporter
	}

	units := make([]*drug.Drug, 0, len(serialNumbers))
	for _, serialNumber := range serialNumbers {
		d, err := w.drugs.Resolve(store, serialNumber, drugName)
		if nil != err {
			w.log.Infof("shipment: %q %q  unit: %q  error: %s", buyerRegistrationNumber, drugName, serialNumber, err)
			return nil, err
		}
		if d.Owner != po.Seller {
			w.log.Infof("shipment: %q %q  unit: %q  held by: %q", buyerRegistrationNumber, drugName, serialNumber, d.Owner)
			return nil, fault.ErrOwnerMismatch
		}
		units = append(units, d)
	}

	// every check passed, nothing has been written before this point
	assets := make([]string, 0, len(units))
	for _, d := range units {
		d.Owner = transporter.CompanyID
		d.PurchaseOrder = po.POID
		if err := w.drugs.Put(store, d); nil != err {
			return nil, err
		}
		assets = append(assets, d.ProductID)
	}

	s := &Shipment{
		ShipmentID:  key.String(),
		Creator:     po.Seller,
		Assets:      assets,
		Transporter: transporter.CompanyID,
		Status:      InTransit,
	}
	if err := put(store, key, s); nil != err {
		return nil, err
	}

	w.log.Infof("shipped: %d of: %q to: %q", len(assets), drugName, buyerRegistrationNumber)
	return s, nil
}

// Deliver - complete a shipment, custody of each unit passes to the buyer
//
// a unit that cannot be read or written is logged and left out of the
// result, the remaining units are still delivered
func (w *Workflow) Deliver(store storage.Store, caller identity.Caller, buyerRegistrationNumber string, drugName string, transporterRegistrationNumber string) ([]*drug.Drug, error) {

	if err := identity.Require(caller, identity.Transporter); nil != err {
		w.log.Infof("deliver: %q %q  denied for: %s", buyerRegistrationNumber, drugName, caller.MSPID)
		return nil, err
	}

	s, err := w.Get(store, buyerRegistrationNumber, drugName)
	if nil != err {
		return nil, err
	}
	if Delivered == s.Status {
		return nil, fault.ErrAlreadyDelivered
	}

	transporter, err := w.companies.LookupByRegistrationNumber(store, transporterRegistrationNumber)
	if nil != err {
		return nil, err
	}
	if transporter.CompanyID != s.Transporter {
		w.log.Infof("deliver: %q %q  carried by: %q not: %q", buyerRegistrationNumber, drugName, s.Transporter, transporter.CompanyID)
		return nil, fault.ErrPermissionDenied
	}

	po, err := w.orders.Get(store, buyerRegistrationNumber, drugName)
	if nil != err {
		return nil, err
	}

	s.Status = Delivered
	key, err := compositekey.Parse(s.ShipmentID)
	if nil != err {
		return nil, err
	}
	if err := put(store, key, s); nil != err {
		return nil, err
	}

	delivered := make([]*drug.Drug, 0, len(s.Assets))
	for _, asset := range s.Assets {
		d, err := w.deliverUnit(store, asset, s.ShipmentID, po.Buyer)
		if nil != err {
			w.log.Warnf("deliver: %q  skipped unit: %q  error: %s", s.ShipmentID, asset, err)
			continue
		}
		delivered = append(delivered, d)
	}

	w.log.Infof("delivered: %d of: %d units of: %q to: %q", len(delivered), len(s.Assets), drugName, buyerRegistrationNumber)
	return delivered, nil
}

func (w *Workflow) deliverUnit(store storage.Store, asset string, shipmentID string, buyer string) (*drug.Drug, error) {
	key, err := compositekey.Parse(asset)
	if nil != err {
		return nil, err
	}
	d, err := w.drugs.Get(store, key)
	if nil != err {
		return nil, err
	}
	d.Shipment = shipmentID
	d.Owner = buyer
	if err := w.drugs.Put(store, d); nil != err {
		return nil, err
	}
	return d, nil
}

// Get - shipment of a buyer for a drug
func (w *Workflow) Get(store storage.Store, buyerRegistrationNumber string, drugName string) (*Shipment, error) {
	key, err := compositekey.Shipment(buyerRegistrationNumber, drugName)
	if nil != err {
		return nil, err
	}

	data, err := store.Get(key)
	if fault.IsErrNotFound(err) {
		return nil, fault.ErrShipmentNotFound
	} else if nil != err {
		return nil, err
	}

	s := &Shipment{}
	if err := json.Unmarshal(data, s); nil != err {
		return nil, err
	}
	return s, nil
}

func put(store storage.Store, key compositekey.Key, s *Shipment) error {
	data, err := json.Marshal(s)
	if nil != err {
		return err
	}
	return store.Put(key, data)
}
