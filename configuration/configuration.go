// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/metrics"
	"github.com/bitmark-inc/pharmanetd/publish"
	"github.com/bitmark-inc/pharmanetd/rpc/listeners"
	"github.com/bitmark-inc/pharmanetd/util"
)

// basic defaults, files are relative to the data directory
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultKeyFile         = "rpc.key"
	defaultCertificateFile = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "pharmanet.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "pharmanetd.log"
	defaultLogCount     = 10
	defaultLogSize      = 1024 * 1024

	defaultRPCClients = 10
)

var defaultLogLevels = map[string]string{
	logger.DefaultTag: "critical",
}

// DatabaseType - location of the state database
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	// membership id -> role, merged over the built-in memberships
	Identities   map[string]string `gluamapper:"identities" json:"identities"`
	IdentityFile string            `gluamapper:"identity_file" json:"identity_file"`

	ClientRPC  listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	Publishing publish.Configuration      `gluamapper:"publishing" json:"publishing"`
	Metrics    metrics.Configuration      `gluamapper:"metrics" json:"metrics"`
	Logging    logger.Configuration       `gluamapper:"logging" json:"logging"`
}

// Get - read, decode and verify the configuration
func Get(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options, variables); nil != err {
		return nil, err
	}

	switch options.DataDirectory {
	case "", "~":
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	case ".":
		options.DataDirectory = dataDirectory
	default:
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// blank stays blank, i.e. optional
	for _, f := range []*string{
		&options.PidFile,
		&options.Database.Directory,
		&options.IdentityFile,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.Publishing.PublicKey,
		&options.Publishing.PrivateKey,
		&options.Logging.Directory,
	} {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// plain names placed in their directory
	switch filepath.Dir(options.Database.Name) {
	case "", ".":
		options.Database.Name = util.EnsureAbsolute(options.Database.Directory, options.Database.Name)
	default:
		return nil, fmt.Errorf("files: %q is not plain name", options.Database.Name)
	}
	if "." != filepath.Dir(options.Logging.File) {
		return nil, fmt.Errorf("files: %q is not plain name", options.Logging.File)
	}

	for _, role := range options.Identities {
		if _, err := identity.ParseRole(role); nil != err {
			return nil, fmt.Errorf("identities: %q: %s", role, err)
		}
	}

	if err := util.EnsureDirectories(options.Database.Directory, options.Logging.Directory); nil != err {
		return nil, err
	}

	return options, nil
}

// Memberships - built-in memberships overlaid with configured ones
func (c *Configuration) Memberships() map[string]string {
	m := make(map[string]string, len(identity.DefaultMemberships)+len(c.Identities))
	for k, v := range identity.DefaultMemberships {
		m[k] = v
	}
	for k, v := range c.Identities {
		m[k] = v
	}
	return m
}
