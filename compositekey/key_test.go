// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package compositekey_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/compositekey"
	"github.com/bitmark-inc/pharmanetd/fault"
)

func TestKeyEncoding(t *testing.T) {
	k, err := compositekey.Company("CRN-1", "Sun Pharma")
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, "\x00org.pharma-network.companyId\x00CRN-1\x00Sun Pharma\x00", k.String(), "wrong encoding")

	parsed, err := compositekey.Parse(k.String())
	assert.Nil(t, err, "wrong parse error")
	assert.True(t, k.Equal(parsed), "parsed key differs")
}

func TestKeyIsDeterministic(t *testing.T) {
	k1, _ := compositekey.Drug("S1", "Paracetamol")
	k2, _ := compositekey.Drug("S1", "Paracetamol")
	assert.Equal(t, k1.String(), k2.String(), "same input produced different keys")
	assert.True(t, k1.Equal(k2), "same input not equal")
}

func TestKeyIsOrderSensitive(t *testing.T) {
	k1, _ := compositekey.New(compositekey.DrugNamespace, "a", "b")
	k2, _ := compositekey.New(compositekey.DrugNamespace, "b", "a")
	assert.NotEqual(t, k1.String(), k2.String(), "part order ignored")
	assert.False(t, k1.Equal(k2), "part order ignored")
}

func TestNamespacesDoNotCollide(t *testing.T) {
	po, _ := compositekey.PurchaseOrder("CRN-9", "Paracetamol")
	sh, _ := compositekey.Shipment("CRN-9", "Paracetamol")
	assert.NotEqual(t, po.String(), sh.String(), "namespaces collide")
	assert.False(t, po.Equal(sh), "namespaces collide")
}

func TestKeyRejectsSeparator(t *testing.T) {
	_, err := compositekey.Drug("S\x001", "Paracetamol")
	assert.Equal(t, fault.ErrInvalidKey, err, "wrong error")

	_, err = compositekey.Drug("S1", "bad\xff")
	assert.Equal(t, fault.ErrInvalidKey, err, "invalid UTF-8 accepted")

	_, err = compositekey.New("", "x")
	assert.Equal(t, fault.ErrInvalidKey, err, "empty namespace accepted")
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "abc", "\x00", "\x00ns"} {
		_, err := compositekey.Parse(s)
		assert.Equal(t, fault.ErrInvalidKey, err, "accepted: %q", s)
	}
}

func TestPartialPrefix(t *testing.T) {
	k, _ := compositekey.Drug("S1", "Paracetamol")
	other, _ := compositekey.Drug("S10", "Paracetamol")

	prefix := compositekey.PartialPrefix(compositekey.DrugNamespace, "S1")
	assert.True(t, strings.HasPrefix(k.String(), prefix), "prefix does not match key")
	assert.False(t, strings.HasPrefix(other.String(), prefix), "prefix matched a longer serial")

	all := compositekey.PartialPrefix(compositekey.DrugNamespace)
	assert.True(t, strings.HasPrefix(other.String(), all), "namespace prefix does not match")
}
