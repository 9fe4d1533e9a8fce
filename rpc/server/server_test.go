// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"net"
	"net/rpc/jsonrpc"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/contract"
	"github.com/bitmark-inc/pharmanetd/fixtures"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/rpc/ledger"
	"github.com/bitmark-inc/pharmanetd/rpc/node"
	"github.com/bitmark-inc/pharmanetd/rpc/server"
)

func TestCreate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	directory, err := identity.NewDirectory(log, identity.DefaultMemberships)
	assert.Nil(t, err, "directory")

	s := server.Create(log, "1.0", fixtures.NewDatabase(t), directory, nil, nil, nil)

	c1, c2 := net.Pipe()
	go s.ServeCodec(jsonrpc.NewServerCodec(c1))

	client := jsonrpc.NewClient(c2)
	defer client.Close()

	var info node.InfoReply
	err = client.Call("Node.Info", node.InfoArguments{}, &info)
	assert.Nil(t, err, "info")
	assert.Equal(t, "1.0", info.Version, "version")

	var reply contract.Response
	err = client.Call("Ledger.Invoke", ledger.InvokeArguments{
		Identity: "distributorMSP",
		Function: contract.RegisterCompany,
		Args:     []string{"D1", "Medplus", "Delhi", "Distributor"},
	}, &reply)
	assert.Nil(t, err, "invoke")
	assert.Equal(t, contract.StatusSuccess, reply.Status, "status: %s", reply.ErrorTrace)

	data, ok := reply.Data.(map[string]interface{})
	assert.True(t, ok, "data decoded as object")
	assert.Equal(t, "Distributor", data["organisationRole"], "role")
}
