// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - the Lua configuration file of the ledger daemon
//
// the file is a Lua chunk returning a table, "arg[0]" holds the name of
// the file and any extra variables are set as globals before it runs
package configuration
