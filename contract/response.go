// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/pharmanetd/fault"
)

// result status
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Response - the result of a transaction as returned to clients
//
// a present Error is the failure discriminator
type Response struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Error      string      `json:"error,omitempty"`
	Kind       string      `json:"kind,omitempty"`
	ErrorTrace string      `json:"errorTrace,omitempty"`
	TxId       string      `json:"txId,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Respond - build the response to an executed function
func Respond(txId string, function string, args []string, value interface{}, err error) *Response {
	if nil != err {
		return &Response{
			Status:     StatusFailure,
			Message:    fmt.Sprintf("%s failed", function),
			Error:      err.Error(),
			Kind:       fault.Kind(err),
			ErrorTrace: fmt.Sprintf("%s(%s): %s", function, strings.Join(args, ", "), err),
			TxId:       txId,
		}
	}
	return &Response{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("%s succeeded", function),
		TxId:    txId,
		Data:    value,
	}
}

// Failed - true if the response carries an error
func (r *Response) Failed() bool {
	return "" != r.Error
}
