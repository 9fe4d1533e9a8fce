// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/pharmanetd/fault"
	"github.com/bitmark-inc/pharmanetd/util"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	keyLength     = 32
)

// MakeKeyPair - create a curve keypair and write each half to its own file
//
// files hold a tag followed by the hex of the raw 32 byte key
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.EnsureFileExists(publicKeyFileName) || util.EnsureFileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	public := taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	private := taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err := ioutil.WriteFile(publicKeyFileName, []byte(public), 0666); nil != err {
		return err
	}
	if err := ioutil.WriteFile(privateKeyFileName, []byte(private), 0600); nil != err {
		_ = os.Remove(publicKeyFileName)
		return err
	}
	return nil
}

// ReadPublicKeyFile - raw public key from a key file
func ReadPublicKeyFile(fileName string) ([]byte, error) {
	key, private, err := readKeyFile(fileName)
	if nil != err {
		return nil, err
	}
	if private {
		return nil, fault.ErrInvalidPublicKeyFile
	}
	return key, nil
}

// ReadPrivateKeyFile - raw private key from a key file
func ReadPrivateKeyFile(fileName string) ([]byte, error) {
	key, private, err := readKeyFile(fileName)
	if nil != err {
		return nil, err
	}
	if !private {
		return nil, fault.ErrInvalidPrivateKeyFile
	}
	return key, nil
}

func readKeyFile(fileName string) ([]byte, bool, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, false, err
	}
	return ParseKey(string(data))
}

// ParseKey - decode a tagged key, the flag is true for a private key
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)

	tag, private, bad := taggedPublic, false, fault.ErrInvalidPublicKeyFile
	if strings.HasPrefix(s, taggedPrivate) {
		tag, private, bad = taggedPrivate, true, fault.ErrInvalidPrivateKeyFile
	} else if !strings.HasPrefix(s, taggedPublic) {
		return nil, false, fault.ErrInvalidPublicKeyFile
	}

	key, err := hex.DecodeString(s[len(tag):])
	if nil != err || keyLength != len(key) {
		return nil, false, bad
	}
	return key, private, nil
}
