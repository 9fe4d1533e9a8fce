// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"strings"

	"github.com/bitmark-inc/pharmanetd/fault"
)

// Role - organisation role of a company or caller
type Role string

// the roles
const (
	Manufacturer Role = "Manufacturer"
	Distributor  Role = "Distributor"
	Retailer     Role = "Retailer"
	Transporter  Role = "Transporter"
	Consumer     Role = "Consumer"
)

// supply tiers, buyers purchase from the tier directly above
const (
	NoLevel           = 0
	ManufacturerLevel = 1
	DistributorLevel  = 2
	RetailerLevel     = 3
)

// ParseRole - accepts any letter case, e.g. "manufacturer"
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{Manufacturer, Distributor, Retailer, Transporter, Consumer} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fault.ErrInvalidRole
}

// HierarchyLevel - supply tier, NoLevel for roles outside the supply chain
func (r Role) HierarchyLevel() int {
	switch r {
	case Manufacturer:
		return ManufacturerLevel
	case Distributor:
		return DistributorLevel
	case Retailer:
		return RetailerLevel
	default:
		return NoLevel
	}
}

func (r Role) String() string {
	return string(r)
}
