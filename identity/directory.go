// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/pharmanetd/fault"
)

// DefaultMemberships - MSP ids of the pharma network organisations
var DefaultMemberships = map[string]string{
	"manufacturerMSP": string(Manufacturer),
	"distributorMSP":  string(Distributor),
	"retailerMSP":     string(Retailer),
	"transporterMSP":  string(Transporter),
	"consumerMSP":     string(Consumer),
}

//go:generate mockgen -destination=mocks/resolver.go -package=mocks github.com/bitmark-inc/pharmanetd/identity Resolver

// Resolver - maps a membership id to the caller it represents
type Resolver interface {
	Resolve(mspId string) (Caller, error)
}

// Directory - maps membership ids to roles
//
// entries come from the configuration and optionally from a JSON file
// of the form {"MSP id": "Role"} which is reloaded whenever it changes
type Directory struct {
	sync.RWMutex

	log     *logger.L
	base    map[string]Role
	roles   map[string]Role
	file    string
	watcher *fsnotify.Watcher
}

// NewDirectory - directory from a membership -> role table
func NewDirectory(log *logger.L, memberships map[string]string) (*Directory, error) {
	base, err := parseMemberships(memberships)
	if nil != err {
		log.Errorf("memberships error: %s", err)
		return nil, err
	}
	return &Directory{
		log:   log,
		base:  base,
		roles: base,
	}, nil
}

// Resolve - caller for a membership id
func (d *Directory) Resolve(mspId string) (Caller, error) {
	d.RLock()
	defer d.RUnlock()

	role, ok := d.roles[mspId]
	if !ok {
		return Caller{}, fault.ErrUnknownIdentity
	}
	return Caller{
		MSPID: mspId,
		Role:  role,
	}, nil
}

// Load - add the entries of a JSON file over the configured ones
func (d *Directory) Load(fileName string) error {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return err
	}

	memberships := make(map[string]string)
	if err := json.Unmarshal(data, &memberships); nil != err {
		return err
	}
	extra, err := parseMemberships(memberships)
	if nil != err {
		return err
	}

	d.Lock()
	defer d.Unlock()

	roles := make(map[string]Role, len(d.base)+len(extra))
	for k, v := range d.base {
		roles[k] = v
	}
	for k, v := range extra {
		roles[k] = v
	}
	d.roles = roles
	d.file = fileName

	d.log.Infof("loaded: %d memberships from: %q", len(extra), fileName)
	return nil
}

// Watch - load a file then reload it on every change while Run is active
func (d *Directory) Watch(fileName string) error {
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return err
	}
	if err := d.Load(filePath); nil != err {
		d.log.Errorf("load: %q  error: %s", filePath, err)
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return err
	}
	if err := watcher.Add(filePath); nil != err {
		watcher.Close()
		return err
	}

	d.Lock()
	d.watcher = watcher
	d.Unlock()
	return nil
}

// Run - background process reloading the watched file
func (d *Directory) Run(args interface{}, shutdown <-chan struct{}) {
	d.RLock()
	watcher := d.watcher
	file := d.file
	d.RUnlock()

	if nil == watcher {
		<-shutdown
		return
	}
	defer watcher.Close()

	log := d.log
	log.Infof("watching: %q", file)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event := <-watcher.Events:
			log.Debugf("file event: %v", event)
			if !changed(event) {
				continue loop
			}
			if err := d.Load(file); nil != err {
				log.Errorf("reload: %q  error: %s", file, err)
			}

		case err := <-watcher.Errors:
			log.Errorf("watcher error: %s", err)
		}
	}
	log.Info("stopped")
}

func changed(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}

func parseMemberships(memberships map[string]string) (map[string]Role, error) {
	roles := make(map[string]Role, len(memberships))
	for mspId, name := range memberships {
		role, err := ParseRole(name)
		if nil != err {
			return nil, err
		}
		roles[mspId] = role
	}
	return roles, nil
}
