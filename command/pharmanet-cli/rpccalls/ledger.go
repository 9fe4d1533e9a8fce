// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"fmt"

	"github.com/bitmark-inc/pharmanetd/contract"
	"github.com/bitmark-inc/pharmanetd/rpc/ledger"
)

// Invoke - run a transaction function as the client's identity
func (client *Client) Invoke(function string, args ...string) (*contract.Response, error) {

	arguments := ledger.InvokeArguments{
		Identity: client.identity,
		Function: function,
		Args:     args,
	}
	if client.verbose {
		fmt.Fprintf(client.handle, "Ledger.Invoke: %s %q as: %q\n", function, args, client.identity)
	}

	var reply contract.Response
	if err := client.client.Call("Ledger.Invoke", arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Functions - transaction function names served by the daemon
func (client *Client) Functions() ([]string, error) {
	var reply ledger.FunctionsReply
	if err := client.client.Call("Ledger.Functions", ledger.FunctionsArguments{}, &reply); nil != err {
		return nil, err
	}
	return reply.Functions, nil
}
