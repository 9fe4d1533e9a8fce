// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/pharmanetd/command/pharmanet-cli/rpccalls"
)

func runTransaction(c *cli.Context, function string, args []string) error {

	m := c.App.Metadata["config"].(*metadata)

	if "" == m.identity {
		return ErrRequiredIdentity
	}

	client, err := rpccalls.NewClient(m.connect, m.fingerprint, m.identity, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Invoke(function, args...)
	if nil != err {
		return err
	}

	if err := printJson(m.w, reply); nil != err {
		return err
	}
	if reply.Failed() {
		return ErrTransactionFailed
	}
	return nil
}

func runInvoke(c *cli.Context) error {
	if 0 == c.NArg() {
		return ErrRequiredFunction
	}
	return runTransaction(c, c.Args().First(), c.Args().Tail())
}
