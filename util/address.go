// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/pharmanetd/fault"
)

// Address - a canonical IP and port
//
// a nil IP is the wildcard "*" and binds all interfaces
type Address struct {
	IP   net.IP
	Port int
}

// ParseAddress - accepts "IPv4:port", "[IPv6]:port" or "*:port"
func ParseAddress(hostPort string) (*Address, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return nil, fault.ErrInvalidIpAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err || numericPort < 1 || numericPort > 65535 {
		return nil, fault.ErrInvalidPortNumber
	}

	host = strings.TrimSpace(host)
	if "*" == host {
		return &Address{Port: numericPort}, nil
	}

	ip := net.ParseIP(host)
	if nil == ip {
		return nil, fault.ErrInvalidIpAddress
	}
	return &Address{IP: ip, Port: numericPort}, nil
}

// ParseAddresses - parse a list, failing on the first bad entry
func ParseAddresses(list []string) ([]*Address, error) {
	addresses := make([]*Address, 0, len(list))
	for _, s := range list {
		if "" == strings.TrimSpace(s) {
			continue
		}
		a, err := ParseAddress(s)
		if nil != err {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, nil
}

// IsV6 - true for an IPv6 address, false for IPv4 and the wildcard
func (a *Address) IsV6() bool {
	return nil != a.IP && nil == a.IP.To4()
}

// Network - name for net.Listen
func (a *Address) Network() string {
	switch {
	case nil == a.IP:
		return "tcp"
	case a.IsV6():
		return "tcp6"
	default:
		return "tcp4"
	}
}

// String - canonical form, suitable for net.Listen and net.Dial
//
//   IPv4:     127.0.0.1:1234
//   IPv6:     [::1]:1234
//   wildcard: :1234
func (a *Address) String() string {
	port := strconv.Itoa(a.Port)
	if nil == a.IP {
		return ":" + port
	}
	return net.JoinHostPort(a.IP.String(), port)
}

// URL - address for a zmq bind or connect, e.g. "tcp://*:2135"
func (a *Address) URL(prefix string) string {
	if nil == a.IP {
		return prefix + "*:" + strconv.Itoa(a.Port)
	}
	return prefix + a.String()
}
