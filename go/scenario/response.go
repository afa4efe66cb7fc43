// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scenario

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxResponse is the observed outcome of a transaction step. Logs include
// the logs of all calls generated while processing the transaction.
type TxResponse struct {
	Status     fidelio.ReturnCode `json:"status"`
	Message    string             `json:"message,omitempty"`
	Out        []hexutil.Bytes    `json:"out"`
	NewAddress *fidelio.Address   `json:"newAddress,omitempty"`
	Logs       []Log              `json:"logs,omitempty"`
}

// Log is the serializable form of a transaction log.
type Log struct {
	Address    fidelio.Address `json:"address"`
	Identifier string          `json:"identifier"`
	Topics     []hexutil.Bytes `json:"topics"`
	Data       []hexutil.Bytes `json:"data,omitempty"`
}

func newResponse(result fidelio.TxResult) *TxResponse {
	res := &TxResponse{
		Status:     result.Status,
		Message:    result.Message,
		Out:        toHex(result.Output),
		NewAddress: result.NewAddress,
	}
	for _, log := range result.AllLogs() {
		res.Logs = append(res.Logs, newLog(log))
	}
	return res
}

// Result converts the response back into a transaction result, so typed
// outcomes can be extracted with the outcome package. The logs of generated
// calls are listed as logs of the transaction itself.
func (r *TxResponse) Result() fidelio.TxResult {
	res := fidelio.TxResult{
		Status:     r.Status,
		Message:    r.Message,
		Output:     fromHex(r.Out),
		NewAddress: r.NewAddress,
	}
	for _, log := range r.Logs {
		res.Logs = append(res.Logs, log.txLog())
	}
	return res
}

func newLog(log fidelio.TxLog) Log {
	res := Log{
		Address:    log.Address,
		Identifier: log.Identifier,
		Topics:     toHex(log.Topics),
	}
	if len(log.Data) > 0 {
		res.Data = toHex(log.Data)
	}
	return res
}

func (l Log) txLog() fidelio.TxLog {
	return fidelio.TxLog{
		Address:    l.Address,
		Identifier: l.Identifier,
		Topics:     fromHex(l.Topics),
		Data:       fromHex(l.Data),
	}
}

func (l Log) equal(other Log) bool {
	return l.Address == other.Address &&
		l.Identifier == other.Identifier &&
		equalBytes(l.Topics, other.Topics) &&
		equalBytes(l.Data, other.Data)
}

func (l Log) String() string {
	return fmt.Sprintf("%s@%v%v", l.Identifier, l.Address, l.Topics)
}

// TxExpect lists the expected outcome of a transaction step. Nil fields are
// not checked; an empty Out list expects no output.
type TxExpect struct {
	Status     fidelio.ReturnCode `json:"status"`
	Message    *string            `json:"message,omitempty"`
	Out        []hexutil.Bytes    `json:"out"`
	NewAddress *fidelio.Address   `json:"newAddress,omitempty"`
	Logs       []Log              `json:"logs,omitempty"`
}

// Expect is a convenience constructor for expectations of successful
// transactions producing the given output.
func Expect(out ...[]byte) *TxExpect {
	return &TxExpect{Status: fidelio.Ok, Out: toHex(out)}
}

// ExpectFailure creates an expectation of a failed transaction.
func ExpectFailure(status fidelio.ReturnCode, message string) *TxExpect {
	return &TxExpect{Status: status, Message: &message}
}

// diff lists the differences between the expectation and the given
// response.
func (e *TxExpect) diff(response *TxResponse) []string {
	if e == nil {
		return nil
	}
	var res []string
	if e.Status != response.Status {
		res = append(res, fmt.Sprintf("status: want %v, got %v (%s)", e.Status, response.Status, response.Message))
	}
	if e.Message != nil && *e.Message != response.Message {
		res = append(res, fmt.Sprintf("message: want %q, got %q", *e.Message, response.Message))
	}
	if e.Out != nil && !equalBytes(e.Out, response.Out) {
		res = append(res, fmt.Sprintf("out: want %v, got %v", e.Out, response.Out))
	}
	if e.NewAddress != nil && (response.NewAddress == nil || *e.NewAddress != *response.NewAddress) {
		res = append(res, fmt.Sprintf("new address: want %v, got %v", *e.NewAddress, response.NewAddress))
	}
	if e.Logs != nil {
		if len(e.Logs) != len(response.Logs) {
			res = append(res, fmt.Sprintf("logs: want %d, got %d", len(e.Logs), len(response.Logs)))
		} else {
			for i := range e.Logs {
				if !e.Logs[i].equal(response.Logs[i]) {
					res = append(res, fmt.Sprintf("log %d: want %v, got %v", i, e.Logs[i], response.Logs[i]))
				}
			}
		}
	}
	return res
}

// ExpectationError reports a mismatch between the expected and the observed
// outcome of a step. It is a test failure, not a failure of the runner.
type ExpectationError struct {
	Step  StepKind
	ID    string
	Diffs []string
}

func (e *ExpectationError) Error() string {
	name := string(e.Step)
	if e.ID != "" {
		name = fmt.Sprintf("%s %q", e.Step, e.ID)
	}
	return fmt.Sprintf("%v in %s:\n\t%s", ErrExpectationMismatch, name, strings.Join(e.Diffs, "\n\t"))
}

func (e *ExpectationError) Is(target error) bool {
	return target == ErrExpectationMismatch
}

// check produces an expectation error for the given step if there are
// differences.
func check(step Step, diffs []string) error {
	if len(diffs) == 0 {
		return nil
	}
	return &ExpectationError{Step: step.Kind(), ID: stepID(step), Diffs: diffs}
}

func equalBytes(a, b []hexutil.Bytes) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// txHash derives a transaction hash from a step identifier.
func txHash(id string) fidelio.Hash {
	if id == "" {
		return fidelio.Hash{}
	}
	return fidelio.Hash(crypto.Keccak256Hash([]byte(id)))
}
