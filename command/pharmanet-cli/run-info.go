// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/pharmanetd/command/pharmanet-cli/rpccalls"
)

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.fingerprint, m.identity, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetInfo()
	if nil != err {
		return err
	}

	printJson(m.w, struct {
		Connection string      `json:"_connection"`
		Info       interface{} `json:"info"`
	}{
		Connection: m.connect,
		Info:       response,
	})

	return nil
}

func runFunctions(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.fingerprint, m.identity, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	functions, err := client.Functions()
	if nil != err {
		return err
	}

	printJson(m.w, functions)
	return nil
}
