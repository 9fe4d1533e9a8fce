// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pharmanetd/contract"
)

// a positional argument of a transaction function taken from a flag
type option struct {
	name  string // "long, s" as urfave/cli expects
	usage string
}

// a transaction function exposed as a subcommand
type transaction struct {
	command  string
	function string
	usage    string
	options  []option
}

// flag order is the function's argument order
var transactions = []transaction{
	{
		command:  "register-company",
		function: contract.RegisterCompany,
		usage:    "register a company in the network",
		options: []option{
			{"crn, c", "*company registration number `CRN`"},
			{"name, n", "*company name `STRING`"},
			{"location, l", "*company location `STRING`"},
			{"role, r", "*organisation role `ROLE` [Manufacturer|Distributor|Retailer|Transporter]"},
		},
	},
	{
		command:  "add-drug",
		function: contract.AddDrug,
		usage:    "add a manufactured drug unit",
		options: []option{
			{"name, n", "*drug name `STRING`"},
			{"serial, s", "*unit serial number `SERIAL`"},
			{"mfg, m", "*manufacturing date `DATE`"},
			{"exp, e", "*expiry date `DATE`"},
			{"crn, c", "*manufacturer registration number `CRN`"},
			{"role, r", "*caller role `ROLE`"},
		},
	},
	{
		command:  "create-po",
		function: contract.CreatePO,
		usage:    "create a purchase order with the tier above",
		options: []option{
			{"buyer, b", "*buyer registration number `CRN`"},
			{"seller, s", "*seller registration number `CRN`"},
			{"drug, d", "*drug name `STRING`"},
			{"quantity, q", "*number of units `COUNT`"},
		},
	},
	{
		command:  "create-shipment",
		function: contract.CreateShipment,
		usage:    "ship the units of a purchase order",
		options: []option{
			{"buyer, b", "*buyer registration number `CRN`"},
			{"drug, d", "*drug name `STRING`"},
			{"assets, a", "*comma separated serial numbers `LIST`"},
			{"transporter, t", "*transporter registration number `CRN`"},
		},
	},
	{
		command:  "update-shipment",
		function: contract.UpdateShipment,
		usage:    "confirm delivery of a shipment",
		options: []option{
			{"buyer, b", "*buyer registration number `CRN`"},
			{"drug, d", "*drug name `STRING`"},
			{"transporter, t", "*transporter registration number `CRN`"},
		},
	},
	{
		command:  "retail-drug",
		function: contract.RetailDrug,
		usage:    "sell a drug unit to a consumer",
		options: []option{
			{"name, n", "*drug name `STRING`"},
			{"serial, s", "*unit serial number `SERIAL`"},
			{"retailer, r", "*retailer registration number `CRN`"},
			{"consumer, c", "*consumer identifier `ID`"},
		},
	},
	{
		command:  "state",
		function: contract.ViewDrugCurrentState,
		usage:    "show the current state of a drug unit",
		options: []option{
			{"name, n", "*drug name `STRING`"},
			{"serial, s", "*unit serial number `SERIAL`"},
		},
	},
	{
		command:  "history",
		function: contract.ViewHistory,
		usage:    "show every recorded state of a drug unit",
		options: []option{
			{"name, n", "*drug name `STRING`"},
			{"serial, s", "*unit serial number `SERIAL`"},
		},
	},
}

// long name of an option
func (o option) long() string {
	return strings.TrimSpace(strings.Split(o.name, ",")[0])
}

// function arguments in order, every option is required
func (t transaction) arguments(lookup func(name string) string) ([]string, error) {
	args := make([]string, 0, len(t.options))
	for _, o := range t.options {
		v := lookup(o.long())
		if "" == v {
			return nil, requiredError(o.long())
		}
		args = append(args, v)
	}
	return args, nil
}

func (t transaction) cliCommand() cli.Command {
	flags := make([]cli.Flag, 0, len(t.options))
	for _, o := range t.options {
		flags = append(flags, cli.StringFlag{
			Name:  o.name,
			Value: "",
			Usage: o.usage,
		})
	}
	return cli.Command{
		Name:      t.command,
		Usage:     t.usage,
		ArgsUsage: "\n   (* = required)",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			args, err := t.arguments(c.String)
			if nil != err {
				return err
			}
			return runTransaction(c, t.function, args)
		},
	}
}

func transactionCommands() []cli.Command {
	commands := make([]cli.Command, 0, len(transactions))
	for _, t := range transactions {
		commands = append(commands, t.cliCommand())
	}
	return commands
}
