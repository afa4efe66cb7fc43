// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fidelio

import (
	"fmt"
	"slices"
)

// TxInput summarizes a transaction or an internally generated call to be
// processed by the engine.
type TxInput struct {
	From     Address
	To       Address
	Function string
	Args     [][]byte
	Payment  Payment
	Kind     CallKind

	// Code and CodeMetadata are only relevant for deploys and upgrades.
	Code         Code
	CodeMetadata []byte

	// Gas fields are bookkeeping only, they do not limit execution.
	GasLimit uint64
	GasPrice uint64
	TxHash   Hash
}

// TxLog is a log entry emitted as a side effect of an execution. Logs are
// append-only; they are never modified after being emitted.
type TxLog struct {
	Address    Address
	Identifier string
	Topics     [][]byte
	Data       [][]byte
}

func (l TxLog) Clone() TxLog {
	return TxLog{
		Address:    l.Address,
		Identifier: l.Identifier,
		Topics:     CloneBytes(l.Topics),
		Data:       CloneBytes(l.Data),
	}
}

func (l TxLog) String() string {
	return fmt.Sprintf("%s@%v%x", l.Identifier, l.Address, l.Topics)
}

// CallRecord describes a call generated by the engine while processing a
// transaction, e.g. an async call, its callback, or a builtin operation
// triggered by a system contract. Its logs are not part of the transaction's
// own log list.
type CallRecord struct {
	From     Address
	To       Address
	Function string
	Kind     CallKind
	Args     [][]byte
	Payment  Payment
	Status   ReturnCode
	Message  string
	Output   [][]byte
	Logs     []TxLog
}

// TxResult summarizes the outcome of a processed transaction.
type TxResult struct {
	Status     ReturnCode
	Message    string
	Output     [][]byte
	Logs       []TxLog
	Records    []CallRecord
	NewAddress *Address
}

// Failure creates the result of a failed transaction.
func Failure(status ReturnCode, format string, args ...any) TxResult {
	return TxResult{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// FailureFromError creates the result of a transaction failed due to a
// modeled error.
func FailureFromError(err error) TxResult {
	return TxResult{
		Status:  ReturnCodeOf(err),
		Message: err.Error(),
	}
}

func (r TxResult) Succeeded() bool {
	return r.Status == Ok
}

// AllLogs lists the transaction's own logs followed by the logs of all
// generated calls, in execution order.
func (r TxResult) AllLogs() []TxLog {
	res := slices.Clone(r.Logs)
	for _, record := range r.Records {
		res = append(res, record.Logs...)
	}
	return res
}

func (r TxResult) String() string {
	if r.Succeeded() {
		return fmt.Sprintf("ok(%x)", r.Output)
	}
	return fmt.Sprintf("%v(%s)", r.Status, r.Message)
}
