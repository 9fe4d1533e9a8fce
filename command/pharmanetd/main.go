// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/background"
	"github.com/bitmark-inc/pharmanetd/configuration"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/messagebus"
	"github.com/bitmark-inc/pharmanetd/metrics"
	"github.com/bitmark-inc/pharmanetd/publish"
	"github.com/bitmark-inc/pharmanetd/rpc/certificate"
	"github.com/bitmark-inc/pharmanetd/rpc/listeners"
	"github.com/bitmark-inc/pharmanetd/rpc/server"
	"github.com/bitmark-inc/pharmanetd/storage"
	"github.com/bitmark-inc/pharmanetd/zmqutil"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// key and certificate generation needs no configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.Get(configurationFile, nil)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)
	log.Debugf("%s = %#v", "Metrics", theConfiguration.Metrics)

	log.Info("initialise storage")
	db, err := storage.Open(logger.New("storage"), theConfiguration.Database.Name, false)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer db.Close()

	log.Info("initialise identities")
	directory, err := identity.NewDirectory(logger.New("identity"), theConfiguration.Memberships())
	if nil != err {
		log.Criticalf("identity initialise error: %s", err)
		exitwithstatus.Message("identity initialise error: %s", err)
	}
	if "" != theConfiguration.IdentityFile {
		if err := directory.Watch(theConfiguration.IdentityFile); nil != err {
			log.Criticalf("identity file: %q  error: %s", theConfiguration.IdentityFile, err)
			exitwithstatus.Message("identity file: %q  error: %s", theConfiguration.IdentityFile, err)
		}
	}

	m := metrics.New()

	if err := zmqutil.StartAuthentication(); nil != err {
		log.Criticalf("zmq.AuthStart: error: %s", err)
		exitwithstatus.Message("zmq.AuthStart: error: %s", err)
	}
	defer zmqutil.StopAuthentication()

	log.Info("initialise publish")
	broadcaster, err := publish.New(logger.New("publish"), &theConfiguration.Publishing, messagebus.Bus.Publish)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}

	tlsConfig, fingerprint, err := certificate.Load(logger.New("certificate"), "client_rpc", theConfiguration.ClientRPC.Certificate, theConfiguration.ClientRPC.PrivateKey)
	if nil != err {
		log.Criticalf("rpc certificate error: %s", err)
		exitwithstatus.Message("rpc certificate error: %s", err)
	}
	log.Infof("rpc certificate fingerprint: %x", fingerprint)

	log.Info("initialise rpc")
	rpcListener, err := listeners.NewRPC(logger.New("rpc-listener"), &theConfiguration.ClientRPC, tlsConfig, m)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	rpcServer := server.Create(logger.New("rpc-server"), version, db, directory, eventQueue(broadcaster), m, rpcListener)
	if err := rpcListener.Serve(rpcServer); nil != err {
		log.Criticalf("rpc listen error: %s", err)
		exitwithstatus.Message("rpc listen error: %s", err)
	}

	processes := background.Processes{
		directory,
		rpcListener,
	}
	if nil != broadcaster {
		processes = append(processes, broadcaster)
	}

	metricsServer, err := metrics.NewServer(logger.New("metrics"), &theConfiguration.Metrics, m)
	if nil != err {
		log.Criticalf("metrics initialise error: %s", err)
		exitwithstatus.Message("metrics initialise error: %s", err)
	}
	if nil != metricsServer {
		processes = append(processes, metricsServer)
	}

	started := background.Start(processes, nil)
	log.Infof("started: %d background processes at: %s", len(processes), time.Now().UTC().Format(time.RFC3339))

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	started.Stop()
}

// events are only queued when a broadcaster drains them
func eventQueue(broadcaster *publish.Broadcaster) *messagebus.Queue {
	if nil == broadcaster {
		return nil
	}
	return messagebus.Bus.Publish
}
