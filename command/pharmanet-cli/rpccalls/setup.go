// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"crypto/tls"
	"encoding/hex"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"

	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/rpc/certificate"
)

// ErrFingerprintMismatch - server certificate is not the expected one
var ErrFingerprintMismatch = fault.PermissionError("server certificate fingerprint mismatch")

// Client - to hold RPC connections streams
type Client struct {
	conn     net.Conn
	client   *rpc.Client
	identity string
	verbose  bool
	handle   io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to a pharmanetd
//
// daemons use self-signed certificates so the chain is not verified,
// a non-blank fingerprint (hex SHA3-256 of the DER certificate) pins it
func NewClient(connect string, fingerprint string, identity string, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	if "" != fingerprint {
		state := conn.ConnectionState()
		if 0 == len(state.PeerCertificates) {
			conn.Close()
			return nil, ErrFingerprintMismatch
		}
		fin := certificate.Fingerprint(state.PeerCertificates[0].Raw)
		if !strings.EqualFold(fingerprint, hex.EncodeToString(fin[:])) {
			conn.Close()
			return nil, ErrFingerprintMismatch
		}
	}

	return newClient(conn, identity, verbose, handle), nil
}

func newClient(conn net.Conn, identity string, verbose bool, handle io.Writer) *Client {
	return &Client{
		conn:     conn,
		client:   jsonrpc.NewClient(conn),
		identity: identity,
		verbose:  verbose,
		handle:   handle,
	}
}

// Close - shutdown the pharmanetd connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}
