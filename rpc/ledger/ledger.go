// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/pharmanetd/contract"
	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/identity"
	"github.com/bitmark-inc/pharmanetd/messagebus"
	"github.com/bitmark-inc/pharmanetd/metrics"
	"github.com/bitmark-inc/pharmanetd/publish"
	"github.com/bitmark-inc/pharmanetd/rpc/ratelimit"
	"github.com/bitmark-inc/pharmanetd/storage"
)

const (
	rateLimitLedger = 200
	rateBurstLedger = 100
)

// Ledger - type for RPC calls
type Ledger struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	db       *storage.Database
	contract *contract.Contract
	resolver identity.Resolver
	queue    *messagebus.Queue
	metrics  *metrics.Metrics
}

// New - create the ledger RPC service, queue and metrics may be nil
func New(log *logger.L, db *storage.Database, resolver identity.Resolver, queue *messagebus.Queue, m *metrics.Metrics) *Ledger {
	return &Ledger{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitLedger, rateBurstLedger),
		db:       db,
		contract: contract.New(log),
		resolver: resolver,
		queue:    queue,
		metrics:  m,
	}
}

// InvokeArguments - a transaction function call
//
// Identity is the membership id the call is made as
type InvokeArguments struct {
	Identity string   `json:"identity"`
	Function string   `json:"function"`
	Args     []string `json:"args"`
}

// Invoke - run one transaction function atomically
//
// business failures are reported in the reply, the returned error is
// only set when the request could not be processed at all
func (ledger *Ledger) Invoke(arguments *InvokeArguments, reply *contract.Response) error {

	if err := ratelimit.Limit(ledger.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.ErrMissingParameters
	}
	if nil == ledger.db {
		return fault.ErrDatabaseIsNotSet
	}

	start := time.Now()
	txId := newTxId(arguments.Identity, arguments.Function)
	function := arguments.Function

	value, timestamp, err := ledger.execute(txId, arguments)

	if nil != ledger.metrics {
		ledger.metrics.Transaction(function, err, time.Since(start))
	}

	*reply = *contract.Respond(txId, function, arguments.Args, value, err)

	if nil != err {
		ledger.Log.Infof("tx: %s  %s", txId, reply.ErrorTrace)
		return nil
	}
	if !timestamp.IsZero() {
		ledger.publish(txId, function, timestamp, reply)
	}
	return nil
}

// run the function in its own transaction
// a zero time is returned when nothing was committed
func (ledger *Ledger) execute(txId string, arguments *InvokeArguments) (interface{}, time.Time, error) {

	caller, err := ledger.resolver.Resolve(arguments.Identity)
	if nil != err {
		return nil, time.Time{}, err
	}

	tx, err := ledger.db.Begin(txId)
	if nil != err {
		return nil, time.Time{}, err
	}

	inv := &contract.Invocation{
		Store:  tx,
		Caller: caller,
		TxId:   txId,
	}
	value, err := ledger.contract.Execute(inv, arguments.Function, arguments.Args)
	if nil != err || contract.IsReadOnly(arguments.Function) {
		tx.Abort()
		return value, time.Time{}, err
	}

	timestamp, err := tx.Commit()
	if nil != err {
		return nil, time.Time{}, err
	}
	return value, timestamp, nil
}

func (ledger *Ledger) publish(txId string, function string, timestamp time.Time, reply *contract.Response) {
	if nil == ledger.queue {
		return
	}

	data, err := json.Marshal(reply)
	if nil != err {
		ledger.Log.Errorf("tx: %s  event encode error: %s", txId, err)
		return
	}

	e := &publish.Event{
		Function:  function,
		TxId:      txId,
		Timestamp: timestamp,
		Data:      data,
	}
	queued := e.Queue(ledger.queue)
	if !queued {
		ledger.Log.Warnf("tx: %s  event dropped, queue full", txId)
	}
	if nil != ledger.metrics {
		ledger.metrics.Published(queued)
	}
}

// FunctionsArguments - empty arguments
type FunctionsArguments struct{}

// FunctionsReply - available transaction functions
type FunctionsReply struct {
	Functions []string `json:"functions"`
}

// Functions - list the transaction functions
func (ledger *Ledger) Functions(_ *FunctionsArguments, reply *FunctionsReply) error {
	if err := ratelimit.Limit(ledger.Limiter); nil != err {
		return err
	}
	reply.Functions = contract.Functions()
	return nil
}

// transaction ids are unique and do not reveal the caller
func newTxId(identity string, function string) string {
	nonce := uuid.New()

	h := sha3.New256()
	_, _ = h.Write(nonce[:])
	_, _ = h.Write([]byte(identity))
	_, _ = h.Write([]byte(function))
	return hex.EncodeToString(h.Sum(nil))
}
