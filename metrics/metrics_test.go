// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/metrics"
)

func TestTransactionCounters(t *testing.T) {
	m := metrics.New()

	m.Transaction("createPO", nil, time.Millisecond)
	m.Transaction("createPO", fault.ErrHierarchyViolation, time.Millisecond)
	m.Transaction("createPO", fault.ErrHierarchyViolation, 2*time.Millisecond)

	expected := `
# HELP pharmanet_transactions_total transactions executed by function and result kind
# TYPE pharmanet_transactions_total counter
pharmanet_transactions_total{function="createPO",kind="HierarchyViolation"} 2
pharmanet_transactions_total{function="createPO",kind="OK"} 1
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "pharmanet_transactions_total")
	assert.Nil(t, err, "counter mismatch")
}

func TestConnectionGauge(t *testing.T) {
	m := metrics.New()

	m.Connected()
	m.Connected()
	m.Disconnected()

	m.Published(true)
	m.Published(false)
	m.Published(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "pharmanet_rpc_connections 1", "gauge")
	assert.Contains(t, body, `pharmanet_events_total{result="dropped"} 2`, "dropped events")
	assert.Contains(t, body, `pharmanet_events_total{result="queued"} 1`, "queued events")
}

func TestNoServerWithoutListen(t *testing.T) {
	s, err := metrics.NewServer(nil, &metrics.Configuration{}, metrics.New())
	assert.Nil(t, err, "error")
	assert.Nil(t, s, "server created without listen address")
}
