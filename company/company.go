// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package company

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/storage"
)

// Company - a registered participant
//
// CompanyID holds the stored form of the company's composite key and is
// the value used wherever another record refers to this company
type Company struct {
	CompanyID        string        `json:"companyID"`
	Name             string        `json:"name"`
	Location         string        `json:"location"`
	OrganisationRole identity.Role `json:"organisationRole"`
	HierarchyKey     int           `json:"hierarchyKey,omitempty"`
}

// Key - composite key of the company
func (c *Company) Key() (compositekey.Key, error) {
	return compositekey.Parse(c.CompanyID)
}

// Registry - the only writer of company records
type Registry struct {
	log *logger.L
}

// New - create a registry
func New(log *logger.L) *Registry {
	return &Registry{
		log: log,
	}
}

// Register - add a new company
func (r *Registry) Register(store storage.Store, caller identity.Caller, registrationNumber string, name string, location string, role string) (*Company, error) {

	if err := identity.Forbid(caller, identity.Consumer); nil != err {
		r.log.Infof("register: %q  denied for: %s", registrationNumber, caller.MSPID)
		return nil, err
	}

	key, err := compositekey.Company(registrationNumber, name)
	if nil != err {
		return nil, err
	}

	_, err = store.Get(key)
	if nil == err {
		return nil, fault.ErrCompanyAlreadyExists
	} else if !fault.IsErrNotFound(err) {
		return nil, err
	}

	organisationRole := identity.Role(role)
	if !registrable(organisationRole) {
		return nil, fault.ErrInvalidRole
	}

	c := &Company{
		CompanyID:        key.String(),
		Name:             name,
		Location:         location,
		OrganisationRole: organisationRole,
		HierarchyKey:     organisationRole.HierarchyLevel(),
	}

	data, err := json.Marshal(c)
	if nil != err {
		return nil, err
	}
	if err := store.Put(key, data); nil != err {
		return nil, err
	}

	r.log.Infof("registered: %q  %q  role: %s", registrationNumber, name, organisationRole)
	return c, nil
}

// LookupByRegistrationNumber - first company registered with the number
func (r *Registry) LookupByRegistrationNumber(store storage.Store, registrationNumber string) (*Company, error) {
	_, data, err := storage.First(store, compositekey.CompanyNamespace, registrationNumber)
	if fault.IsErrNotFound(err) {
		return nil, fault.ErrCompanyNotFound
	} else if nil != err {
		return nil, err
	}
	return decode(data)
}

// Get - company by its full key
func (r *Registry) Get(store storage.Store, key compositekey.Key) (*Company, error) {
	data, err := store.Get(key)
	if fault.IsErrNotFound(err) {
		return nil, fault.ErrCompanyNotFound
	} else if nil != err {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*Company, error) {
	c := &Company{}
	if err := json.Unmarshal(data, c); nil != err {
		return nil, err
	}
	return c, nil
}

// exact names only, consumers never register
func registrable(role identity.Role) bool {
	switch role {
	case identity.Manufacturer, identity.Distributor, identity.Retailer, identity.Transporter:
		return true
	default:
		return false
	}
}
