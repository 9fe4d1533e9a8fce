// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"

	"github.com/bitmark-inc/pharmanetd/chaincode"
	"github.com/bitmark-inc/pharmanetd/identity"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// environment, the peer launches the chaincode without arguments
const (
	logDirectoryVariable = "PHARMANET_LOG_DIRECTORY"
	logLevelVariable     = "PHARMANET_LOG_LEVEL"
	identityFileVariable = "PHARMANET_IDENTITY_FILE"
)

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	logDirectory := os.Getenv(logDirectoryVariable)
	if "" == logDirectory {
		logDirectory = filepath.Join(os.TempDir(), "pharmanet-chaincode")
	}
	if err := os.MkdirAll(logDirectory, 0700); nil != err {
		exitwithstatus.Message("log directory: %q  error: %s", logDirectory, err)
	}

	level := os.Getenv(logLevelVariable)
	if "" == level {
		level = "info"
	}

	logging := logger.Configuration{
		Directory: logDirectory,
		File:      "chaincode.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	}
	if err := logger.Initialise(logging); nil != err {
		exitwithstatus.Message("logger setup failed with error: %s", err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Infof("version: %s", version)

	directory, err := identity.NewDirectory(logger.New("identity"), identity.DefaultMemberships)
	if nil != err {
		exitwithstatus.Message("identity initialise error: %s", err)
	}
	if fileName := os.Getenv(identityFileVariable); "" != fileName {
		if err := directory.Load(fileName); nil != err {
			exitwithstatus.Message("identity file: %q  error: %s", fileName, err)
		}
	}

	cc, err := contractapi.NewChaincode(chaincode.New(logger.New("chaincode"), directory))
	if nil != err {
		log.Criticalf("create chaincode error: %s", err)
		exitwithstatus.Message("create chaincode error: %s", err)
	}
	cc.Info.Version = version

	if err := cc.Start(); nil != err {
		log.Criticalf("start chaincode error: %s", err)
		exitwithstatus.Message("start chaincode error: %s", err)
	}
}
