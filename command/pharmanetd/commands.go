// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/pharmanetd/configuration"
	"github.com/bitmark-inc/pharmanetd/contract"
	"github.com/bitmark-inc/pharmanetd/rpc/certificate"
	"github.com/bitmark-inc/pharmanetd/zmqutil"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"

	publishPublicKeyFilename  = "publish.public"
	publishPrivateKeyFilename = "publish.private"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access the database or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.MakeSelfSigned("rpc", certificateFilename, privateKeyFilename, addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-publish-keys", "publish":
		publicKeyFilename := getFilenameWithDirectory(arguments, publishPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, publishPrivateKeyFilename)
		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "functions", "f":
		for _, f := range contract.Functions() {
			fmt.Printf("%s\n", f)
		}

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)       - display this message\n\n")
		fmt.Printf("  version                    (v)       - display version string\n\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...] (rpc)    - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                         and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-publish-keys [DIR]     (publish) - create private key in: %q\n", "DIR/"+publishPrivateKeyFilename)
		fmt.Printf("                                         and the public key in: %q\n", "DIR/"+publishPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  functions                  (f)       - list the ledger transaction functions\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)     - just run the program, same as no arguments\n")
		fmt.Printf("                                         useful when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)     - just check the configuration file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and program should terminate
	return true
}

// configuration command handler
//
// these run after the configuration file is read
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := arguments[0]

	switch command {
	case "config-test", "cfg":
		s, err := json.MarshalIndent(options, "", "  ")
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		fmt.Printf("configuration: %s\n", s)

	case "start", "run":
		return false

	default:
		exitwithstatus.Message("error: no such command: %q", command)
	}

	return true
}

// standard file name, placed in DIR when the first argument gives one
func getFilenameWithDirectory(arguments []string, name string) string {
	directory := "."
	if len(arguments) >= 1 && "" != arguments[0] {
		directory = arguments[0]
	}
	if err := os.MkdirAll(directory, 0700); nil != err {
		exitwithstatus.Message("error: directory: %q  error: %s", directory, err)
	}
	return filepath.Join(directory, name)
}
