// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/pharmanetd/fault"
)

// common errors - keep in alphabetic order
var (
	ErrRequiredConnect   = fault.InvalidError("connect is required")
	ErrRequiredFunction  = fault.InvalidError("function is required")
	ErrRequiredIdentity  = fault.InvalidError("identity is required")
	ErrRequiredPublisher = fault.InvalidError("publisher is required")
	ErrTransactionFailed = fault.ProcessError("transaction failed")
)

// option is required
type requiredError string

func (e requiredError) Error() string { return string(e) + " is required" }
