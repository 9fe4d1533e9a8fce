// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pharmanetd/publish"
	"github.com/bitmark-inc/pharmanetd/util"
	"github.com/bitmark-inc/pharmanetd/zmqutil"
)

type eventItem struct {
	Function  string          `json:"function"`
	TxId      string          `json:"txId"`
	Timestamp string          `json:"timestamp"`
	Result    json.RawMessage `json:"result"`
}

func runEvents(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	publisher := c.String("publisher")
	if "" == publisher {
		return ErrRequiredPublisher
	}
	address, err := util.ParseAddress(publisher)
	if nil != err {
		return err
	}

	publicKey := []byte(nil)
	if keyFile := c.String("key"); "" != keyFile {
		publicKey, err = zmqutil.ReadPublicKeyFile(keyFile)
		if nil != err {
			return err
		}
	}

	socket, err := zmqutil.NewSubscriber(address, publicKey, c.String("function"))
	if nil != err {
		return err
	}
	defer socket.Close()

	if m.verbose {
		fmt.Fprintf(m.e, "subscribed to: %s\n", address)
	}

	limit := c.Int("count")
	for n := 0; 0 == limit || n < limit; n += 1 {
		frames, err := socket.RecvMessageBytes(0)
		if nil != err {
			return err
		}
		event, err := publish.Unpack(frames)
		if nil != err {
			fmt.Fprintf(m.e, "discarding message: %s\n", err)
			continue
		}
		printJson(m.w, eventItem{
			Function:  event.Function,
			TxId:      event.TxId,
			Timestamp: event.Timestamp.Format(time.RFC3339Nano),
			Result:    event.Data,
		})
	}
	return nil
}
