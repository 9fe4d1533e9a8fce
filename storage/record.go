// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"time"

	"github.com/bitmark-inc/pharmanetd/fault"
)

// pool prefixes
const (
	statePrefix   = 'S'
	historyPrefix = 'H'
)

func stateKey(key string) []byte {
	return append([]byte{statePrefix}, key...)
}

// prefix of all history records of a key
func historyPrefixKey(key string) []byte {
	buffer := make([]byte, 3, 3+len(key)+8)
	buffer[0] = historyPrefix
	binary.BigEndian.PutUint16(buffer[1:], uint16(len(key)))
	return append(buffer, key...)
}

func historyKey(key string, version uint64) []byte {
	buffer := historyPrefixKey(key)
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, version)
	return append(buffer, v...)
}

func packState(version uint64, value []byte) []byte {
	buffer := make([]byte, 8, 8+len(value))
	binary.BigEndian.PutUint64(buffer, version)
	return append(buffer, value...)
}

func unpackState(packed []byte) (uint64, []byte, error) {
	if len(packed) < 8 {
		return 0, nil, fault.ErrIncompatibleDatabase
	}
	value := make([]byte, len(packed)-8)
	copy(value, packed[8:])
	return binary.BigEndian.Uint64(packed[:8]), value, nil
}

func packModification(m *Modification) []byte {
	buffer := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buffer, uint64(len(m.TxId)))
	buffer = append(buffer[:n], m.TxId...)

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(m.Timestamp.UnixNano()))
	buffer = append(buffer, ts...)

	if m.IsDelete {
		buffer = append(buffer, 1)
	} else {
		buffer = append(buffer, 0)
	}
	return append(buffer, m.Value...)
}

func unpackModification(packed []byte) (Modification, error) {
	length, n := binary.Uvarint(packed)
	if n <= 0 || uint64(len(packed)-n) < length+9 {
		return Modification{}, fault.ErrIncompatibleDatabase
	}
	packed = packed[n:]

	txId := string(packed[:length])
	packed = packed[length:]

	ts := int64(binary.BigEndian.Uint64(packed[:8]))
	value := make([]byte, len(packed)-9)
	copy(value, packed[9:])

	return Modification{
		TxId:      txId,
		Timestamp: time.Unix(0, ts).UTC(),
		IsDelete:  0 != packed[8],
		Value:     value,
	}, nil
}
