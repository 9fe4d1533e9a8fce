// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"github.com/bitmark-inc/pharmanetd/fault"
)

// Caller - the authenticated submitter of a transaction
type Caller struct {
	MSPID string `json:"mspId"`
	Role  Role   `json:"role"`
}

// CurrentRole - role of the caller
func (c Caller) CurrentRole() Role {
	return c.Role
}

// Require - permission denied unless the caller holds role
func Require(c Caller, role Role) error {
	if role != c.Role {
		return fault.ErrPermissionDenied
	}
	return nil
}

// Forbid - permission denied if the caller holds role
func Forbid(c Caller, role Role) error {
	if role == c.Role {
		return fault.ErrPermissionDenied
	}
	return nil
}
