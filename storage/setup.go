// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pharmanetd/fault"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentDBVersion = 0x100
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Database - handle to an open ledger database
type Database struct {
	sync.Mutex // serialises commits

	log      *logger.L
	db       *leveldb.DB
	readOnly bool

	// latest commit time, history timestamps never go backwards
	last time.Time
}

// Open - open or create the ledger database in a directory
func Open(log *logger.L, name string, readOnly bool) (*Database, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		log.Errorf("open database: %q  error: %s", name, err)
		return nil, err
	}
	return setup(log, db, readOnly)
}

// OpenMemory - a database that lives only as long as the process
func OpenMemory(log *logger.L) (*Database, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return setup(log, db, ReadWrite)
}

func setup(log *logger.L, db *leveldb.DB, readOnly bool) (*Database, error) {
	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	switch {
	case version > currentDBVersion:
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		db.Close()
		return nil, fault.ErrIncompatibleDatabase

	case 0 == version && !readOnly:
		// empty database so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			db.Close()
			return nil, err
		}

	case version < currentDBVersion && readOnly:
		log.Criticalf("database version: %d  current: %d", version, currentDBVersion)
		db.Close()
		return nil, fault.ErrIncompatibleDatabase
	}

	return &Database{
		log:      log,
		db:       db,
		readOnly: readOnly,
	}, nil
}

// Close - close the database
func (d *Database) Close() {
	d.Lock()
	defer d.Unlock()

	if nil != d.db {
		d.db.Close()
		d.db = nil
	}
}

// Begin - start a transaction against the current state
func (d *Database) Begin(txId string) (*Transaction, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return nil, fault.ErrDatabaseIsNotSet
	}

	snapshot, err := d.db.GetSnapshot()
	if nil != err {
		return nil, err
	}
	return newTransaction(d, txId, snapshot), nil
}

// return the version number, zero for an empty database
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
