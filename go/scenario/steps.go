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
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// StepKind names the type of a scenario step. It is the key under which a
// step is stored in a trace file.
type StepKind string

const (
	SetStateKind        StepKind = "setState"
	ScCallKind          StepKind = "scCall"
	ScDeployKind        StepKind = "scDeploy"
	ScQueryKind         StepKind = "scQuery"
	TransferKind        StepKind = "transfer"
	ValidatorRewardKind StepKind = "validatorReward"
	CheckStateKind      StepKind = "checkState"
	DumpStateKind       StepKind = "dumpState"
	ExternalStepsKind   StepKind = "externalSteps"
)

// Step is a single action of a scenario. Steps are implemented by pointers
// to the step structs of this package.
type Step interface {
	Kind() StepKind
}

// newStep creates an empty step of the given kind.
func newStep(kind StepKind) (Step, error) {
	switch kind {
	case SetStateKind:
		return &SetStateStep{}, nil
	case ScCallKind:
		return &ScCallStep{}, nil
	case ScDeployKind:
		return &ScDeployStep{}, nil
	case ScQueryKind:
		return &ScQueryStep{}, nil
	case TransferKind:
		return &TransferStep{}, nil
	case ValidatorRewardKind:
		return &ValidatorRewardStep{}, nil
	case CheckStateKind:
		return &CheckStateStep{}, nil
	case DumpStateKind:
		return &DumpStateStep{}, nil
	case ExternalStepsKind:
		return &ExternalStepsStep{}, nil
	}
	return nil, fmt.Errorf("unknown step kind %q", kind)
}

// SetStateStep seeds the ledger. Accounts are inserted or replaced as a
// whole.
type SetStateStep struct {
	Comment             string                    `json:"comment,omitempty"`
	Accounts            []AccountState            `json:"accounts,omitempty"`
	NewAddresses        []NewAddress              `json:"newAddresses,omitempty"`
	NewTokenIdentifiers []fidelio.TokenIdentifier `json:"newTokenIdentifiers,omitempty"`
	PreviousBlockInfo   *fidelio.BlockInfo        `json:"previousBlockInfo,omitempty"`
	CurrentBlockInfo    *fidelio.BlockInfo        `json:"currentBlockInfo,omitempty"`
}

// NewAddress fixes the address of the contract deployed by a creator with
// the given pre-increment nonce.
type NewAddress struct {
	Creator    fidelio.Address `json:"creator"`
	Nonce      uint64          `json:"nonce"`
	NewAddress fidelio.Address `json:"newAddress"`
}

// ScCallStep is a transaction invoking a contract function or a builtin
// operation.
type ScCallStep struct {
	ID        string          `json:"id,omitempty"`
	From      fidelio.Address `json:"from"`
	To        fidelio.Address `json:"to"`
	Function  string          `json:"function"`
	Arguments []hexutil.Bytes `json:"arguments,omitempty"`
	Payment   fidelio.Payment `json:"payment"`
	GasLimit  uint64          `json:"gasLimit,omitempty"`
	GasPrice  uint64          `json:"gasPrice,omitempty"`
	Expect    *TxExpect       `json:"expect,omitempty"`
	Response  *TxResponse     `json:"response,omitempty"`
}

// ScDeployStep is a transaction deploying a new contract.
type ScDeployStep struct {
	ID           string          `json:"id,omitempty"`
	From         fidelio.Address `json:"from"`
	Code         string          `json:"code"`
	CodeMetadata hexutil.Bytes   `json:"codeMetadata,omitempty"`
	Arguments    []hexutil.Bytes `json:"arguments,omitempty"`
	Payment      fidelio.Value   `json:"payment"`
	GasLimit     uint64          `json:"gasLimit,omitempty"`
	GasPrice     uint64          `json:"gasPrice,omitempty"`
	Expect       *TxExpect       `json:"expect,omitempty"`
	Response     *TxResponse     `json:"response,omitempty"`
}

// ScQueryStep is a read request. Its changes are never committed and the
// sender's nonce is not incremented. Without a sender, the queried contract
// is the caller.
type ScQueryStep struct {
	ID        string           `json:"id,omitempty"`
	From      *fidelio.Address `json:"from,omitempty"`
	To        fidelio.Address  `json:"to"`
	Function  string           `json:"function"`
	Arguments []hexutil.Bytes  `json:"arguments,omitempty"`
	Expect    *TxExpect        `json:"expect,omitempty"`
	Response  *TxResponse      `json:"response,omitempty"`
}

// TransferStep moves value between accounts without executing code. It
// fails unless the transfer succeeds.
type TransferStep struct {
	ID       string          `json:"id,omitempty"`
	From     fidelio.Address `json:"from"`
	To       fidelio.Address `json:"to"`
	Payment  fidelio.Payment `json:"payment"`
	Response *TxResponse     `json:"response,omitempty"`
}

// ValidatorRewardStep credits a validator reward to an account.
type ValidatorRewardStep struct {
	ID      string          `json:"id,omitempty"`
	Address fidelio.Address `json:"address"`
	Reward  fidelio.Value   `json:"reward"`
}

// CheckStateStep compares the ledger with the listed expectations. In
// complete mode, accounts and storage entries not listed are mismatches.
type CheckStateStep struct {
	Comment  string          `json:"comment,omitempty"`
	Accounts []AccountExpect `json:"accounts"`
	Complete bool            `json:"complete,omitempty"`
}

// DumpStateStep prints the ledger.
type DumpStateStep struct {
	Comment string `json:"comment,omitempty"`
}

// ExternalStepsStep runs the steps of another trace file.
type ExternalStepsStep struct {
	Path string `json:"path"`
}

func (*SetStateStep) Kind() StepKind        { return SetStateKind }
func (*ScCallStep) Kind() StepKind          { return ScCallKind }
func (*ScDeployStep) Kind() StepKind        { return ScDeployKind }
func (*ScQueryStep) Kind() StepKind         { return ScQueryKind }
func (*TransferStep) Kind() StepKind        { return TransferKind }
func (*ValidatorRewardStep) Kind() StepKind { return ValidatorRewardKind }
func (*CheckStateStep) Kind() StepKind      { return CheckStateKind }
func (*DumpStateStep) Kind() StepKind       { return DumpStateKind }
func (*ExternalStepsStep) Kind() StepKind   { return ExternalStepsKind }

func (s *ScCallStep) input() fidelio.TxInput {
	return fidelio.TxInput{
		From:     s.From,
		To:       s.To,
		Function: s.Function,
		Args:     toBytes(s.Arguments),
		Payment:  s.Payment,
		Kind:     fidelio.Direct,
		GasLimit: s.GasLimit,
		GasPrice: s.GasPrice,
		TxHash:   txHash(s.ID),
	}
}

func (s *ScDeployStep) input() fidelio.TxInput {
	return fidelio.TxInput{
		From:         s.From,
		Args:         toBytes(s.Arguments),
		Payment:      fidelio.Payment{EGLD: s.Payment},
		Kind:         fidelio.Deploy,
		Code:         fidelio.Code(s.Code),
		CodeMetadata: s.CodeMetadata,
		GasLimit:     s.GasLimit,
		GasPrice:     s.GasPrice,
		TxHash:       txHash(s.ID),
	}
}

func (s *ScQueryStep) input() fidelio.TxInput {
	from := s.To
	if s.From != nil {
		from = *s.From
	}
	return fidelio.TxInput{
		From:     from,
		To:       s.To,
		Function: s.Function,
		Args:     toBytes(s.Arguments),
		Kind:     fidelio.Direct,
		TxHash:   txHash(s.ID),
	}
}

func (s *TransferStep) input() fidelio.TxInput {
	return fidelio.TxInput{
		From:    s.From,
		To:      s.To,
		Payment: s.Payment,
		Kind:    fidelio.Direct,
		TxHash:  txHash(s.ID),
	}
}

// withoutResponse creates a shallow copy of the given step with its
// response cleared.
func withoutResponse(step Step) Step {
	switch s := step.(type) {
	case *ScCallStep:
		c := *s
		c.Response = nil
		return &c
	case *ScDeployStep:
		c := *s
		c.Response = nil
		return &c
	case *ScQueryStep:
		c := *s
		c.Response = nil
		return &c
	case *TransferStep:
		c := *s
		c.Response = nil
		return &c
	}
	return step
}

// responseOf obtains the response recorded in the given step, if any.
func responseOf(step Step) *TxResponse {
	switch s := step.(type) {
	case *ScCallStep:
		return s.Response
	case *ScDeployStep:
		return s.Response
	case *ScQueryStep:
		return s.Response
	case *TransferStep:
		return s.Response
	}
	return nil
}

// setResponse records the given response in the given step, if the step
// carries one.
func setResponse(step Step, response *TxResponse) {
	switch s := step.(type) {
	case *ScCallStep:
		s.Response = response
	case *ScDeployStep:
		s.Response = response
	case *ScQueryStep:
		s.Response = response
	case *TransferStep:
		s.Response = response
	}
}

func stepID(step Step) string {
	switch s := step.(type) {
	case *ScCallStep:
		return s.ID
	case *ScDeployStep:
		return s.ID
	case *ScQueryStep:
		return s.ID
	case *TransferStep:
		return s.ID
	case *ValidatorRewardStep:
		return s.ID
	}
	return ""
}

func toBytes(list []hexutil.Bytes) [][]byte {
	if list == nil {
		return nil
	}
	res := make([][]byte, len(list))
	for i, cur := range list {
		res[i] = append([]byte{}, cur...)
	}
	return res
}

func toHex(list [][]byte) []hexutil.Bytes {
	res := make([]hexutil.Bytes, len(list))
	for i, cur := range list {
		res[i] = append(hexutil.Bytes{}, cur...)
	}
	return res
}

func fromHex(list []hexutil.Bytes) [][]byte {
	if len(list) == 0 {
		return nil
	}
	res := make([][]byte, len(list))
	for i, cur := range list {
		res[i] = append([]byte{}, cur...)
	}
	return res
}

// Args converts the given strings into call arguments.
func Args(items ...string) []hexutil.Bytes {
	res := make([]hexutil.Bytes, len(items))
	for i, item := range items {
		res[i] = hexutil.Bytes(item)
	}
	return res
}
