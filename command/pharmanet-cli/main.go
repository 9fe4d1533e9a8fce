// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect     string
	fingerprint string
	identity    string
	verbose     bool
	e           io.Writer
	w           io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "pharmanet-cli"
	app.Usage = "issue pharma network ledger transactions to a pharmanetd"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2130",
			Usage:  " pharmanetd host/IP and port, `HOST:PORT`",
			EnvVar: "PHARMANET_CONNECT",
		},
		cli.StringFlag{
			Name:   "fingerprint, f",
			Value:  "",
			Usage:  " expected server certificate `SHA3` fingerprint in hex",
			EnvVar: "PHARMANET_FINGERPRINT",
		},
		cli.StringFlag{
			Name:   "identity, i",
			Value:  "",
			Usage:  " membership `MSPID` to transact as, e.g. manufacturerMSP",
			EnvVar: "PHARMANET_IDENTITY",
		},
	}

	app.Commands = append(transactionCommands(),
		cli.Command{
			Name:      "invoke",
			Usage:     "run any transaction function with positional arguments",
			ArgsUsage: "FUNCTION [ARGS...]",
			Action:    runInvoke,
		},
		cli.Command{
			Name:   "functions",
			Usage:  "list the transaction functions of the daemon",
			Action: runFunctions,
		},
		cli.Command{
			Name:   "info",
			Usage:  "display pharmanetd info",
			Action: runInfo,
		},
		cli.Command{
			Name:      "events",
			Usage:     "print committed transactions as they are published",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "publisher, p",
					Value: "",
					Usage: "*publishing socket `HOST:PORT`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " publisher public key `FILE` when curve is enabled",
				},
				cli.StringFlag{
					Name:  "function, F",
					Value: "",
					Usage: " only events of transaction `FUNCTION`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 0,
					Usage: " stop after `COUNT` events, 0 for no limit",
				},
			},
			Action: runEvents,
		},
		cli.Command{
			Name:  "version",
			Usage: "display pharmanet-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	)

	app.Before = func(c *cli.Context) error {

		connect := c.GlobalString("connect")
		if "" == connect {
			return ErrRequiredConnect
		}

		c.App.Metadata["config"] = &metadata{
			connect:     connect,
			fingerprint: c.GlobalString("fingerprint"),
			identity:    c.GlobalString("identity"),
			verbose:     c.GlobalBool("verbose"),
			e:           c.App.ErrWriter,
			w:           c.App.Writer,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
