// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/zmqutil"
)

func TestMakeKeyPair(t *testing.T) {
	dir, err := ioutil.TempDir("", "zmqutil")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	public := filepath.Join(dir, "publisher.public")
	private := filepath.Join(dir, "publisher.private")

	err = zmqutil.MakeKeyPair(public, private)
	assert.Nil(t, err, "make")

	publicKey, err := zmqutil.ReadPublicKeyFile(public)
	assert.Nil(t, err, "read public")
	assert.Equal(t, 32, len(publicKey), "public length")

	privateKey, err := zmqutil.ReadPrivateKeyFile(private)
	assert.Nil(t, err, "read private")
	assert.Equal(t, 32, len(privateKey), "private length")

	_, err = zmqutil.ReadPublicKeyFile(private)
	assert.Equal(t, fault.ErrInvalidPublicKeyFile, err, "private read as public")
	_, err = zmqutil.ReadPrivateKeyFile(public)
	assert.Equal(t, fault.ErrInvalidPrivateKeyFile, err, "public read as private")

	err = zmqutil.MakeKeyPair(public, private)
	assert.Equal(t, fault.ErrKeyFileAlreadyExists, err, "overwrote existing keys")
}

func TestParseKey(t *testing.T) {
	hex := strings.Repeat("ab", 32)

	key, private, err := zmqutil.ParseKey("PRIVATE:" + hex + "\n")
	assert.Nil(t, err, "private")
	assert.True(t, private, "private flag")
	assert.Equal(t, byte(0xab), key[0], "decode")

	_, private, err = zmqutil.ParseKey("  PUBLIC:" + hex)
	assert.Nil(t, err, "public")
	assert.False(t, private, "public flag")

	_, _, err = zmqutil.ParseKey("PUBLIC:abcd")
	assert.Equal(t, fault.ErrInvalidPublicKeyFile, err, "short key")

	_, _, err = zmqutil.ParseKey("PRIVATE:" + strings.Repeat("zz", 32))
	assert.Equal(t, fault.ErrInvalidPrivateKeyFile, err, "bad hex")

	_, _, err = zmqutil.ParseKey(hex)
	assert.Equal(t, fault.ErrInvalidPublicKeyFile, err, "untagged")
}
