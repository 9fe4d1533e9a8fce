// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package compositekey - typed record keys made of a namespace and an
// ordered list of parts
//
// Keys are encoded the same way a Fabric peer encodes composite keys
// so that records written through either store are interchangeable:
//
//   \x00 namespace \x00 part1 \x00 part2 \x00 ...
package compositekey

import (
	"strings"
	"unicode/utf8"

	"github.com/bitmark-inc/pharmanetd/fault"
)

// record namespaces
const (
	CompanyNamespace       = "org.pharma-network.companyId"
	DrugNamespace          = "org.pharma-network.productIDKey"
	PurchaseOrderNamespace = "org.pharma-network.poIDKey"
	ShipmentNamespace      = "org.pharma-network.shipmentKey"
)

const (
	separator = "\x00"

	// reserved by range queries on Fabric peers
	maxRune = "\U0010FFFF"
)

// Key - namespace plus ordered parts
type Key struct {
	Namespace string
	Parts     []string
}

// New - build a key, parts must be valid UTF-8 without NUL
func New(namespace string, parts ...string) (Key, error) {
	if err := validate(namespace); nil != err {
		return Key{}, err
	}
	if "" == namespace {
		return Key{}, fault.ErrInvalidKey
	}
	for _, p := range parts {
		if err := validate(p); nil != err {
			return Key{}, err
		}
	}
	return Key{
		Namespace: namespace,
		Parts:     append([]string(nil), parts...),
	}, nil
}

// Company - key for (registrationNumber, companyName)
func Company(registrationNumber string, name string) (Key, error) {
	return New(CompanyNamespace, registrationNumber, name)
}

// Drug - key for (serialNumber, drugName)
func Drug(serialNumber string, name string) (Key, error) {
	return New(DrugNamespace, serialNumber, name)
}

// PurchaseOrder - key for (buyerRegistrationNumber, drugName)
func PurchaseOrder(buyerRegistrationNumber string, drugName string) (Key, error) {
	return New(PurchaseOrderNamespace, buyerRegistrationNumber, drugName)
}

// Shipment - key for (buyerRegistrationNumber, drugName)
func Shipment(buyerRegistrationNumber string, drugName string) (Key, error) {
	return New(ShipmentNamespace, buyerRegistrationNumber, drugName)
}

// String - the stored form of the key
func (k Key) String() string {
	return PartialPrefix(k.Namespace, k.Parts...)
}

// Equal - structural equality
func (k Key) Equal(other Key) bool {
	if k.Namespace != other.Namespace || len(k.Parts) != len(other.Parts) {
		return false
	}
	for i, p := range k.Parts {
		if p != other.Parts[i] {
			return false
		}
	}
	return true
}

// Parse - decode the stored form of a key
func Parse(s string) (Key, error) {
	if !strings.HasPrefix(s, separator) || !strings.HasSuffix(s, separator) || len(s) < 3 {
		return Key{}, fault.ErrInvalidKey
	}
	fields := strings.Split(s[1:len(s)-1], separator)
	return New(fields[0], fields[1:]...)
}

// PartialPrefix - stored prefix of every key in namespace whose leading
// parts equal parts
func PartialPrefix(namespace string, parts ...string) string {
	var b strings.Builder
	b.WriteString(separator)
	b.WriteString(namespace)
	b.WriteString(separator)
	for _, p := range parts {
		b.WriteString(p)
		b.WriteString(separator)
	}
	return b.String()
}

func validate(s string) error {
	if !utf8.ValidString(s) || strings.Contains(s, separator) || strings.Contains(s, maxRune) {
		return fault.ErrInvalidKey
	}
	return nil
}
