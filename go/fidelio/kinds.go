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

import "fmt"

// CallKind is an enum enabling the differentiation of the different types
// of calls supported by the engine.
type CallKind int

const (
	Direct CallKind = iota
	AsyncCall
	AsyncCallback
	ExecuteOnDestContext
	ExecuteOnDestContextReadOnly
	ExecuteOnSameContext
	ExecuteOnSameContextByCaller
	TransferExecute
	Deploy
	Upgrade
	numCallKinds int = iota
)

var callKindNames = [...]string{
	Direct:                       "direct",
	AsyncCall:                    "async_call",
	AsyncCallback:                "async_callback",
	ExecuteOnDestContext:         "execute_on_dest_context",
	ExecuteOnDestContextReadOnly: "execute_read_only",
	ExecuteOnSameContext:         "execute_on_same_context",
	ExecuteOnSameContextByCaller: "execute_on_same_context_by_caller",
	TransferExecute:              "transfer_execute",
	Deploy:                       "deploy",
	Upgrade:                      "upgrade",
}

func (k CallKind) String() string {
	if k < 0 || int(k) >= numCallKinds {
		return fmt.Sprintf("CallKind(%d)", int(k))
	}
	return callKindNames[k]
}

// IsSynchronous reports whether the kind denotes a nested call that is
// executed inline and returns its result to the caller.
func (k CallKind) IsSynchronous() bool {
	switch k {
	case ExecuteOnDestContext, ExecuteOnDestContextReadOnly,
		ExecuteOnSameContext, ExecuteOnSameContextByCaller, TransferExecute:
		return true
	}
	return false
}

func (k CallKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= numCallKinds {
		return nil, fmt.Errorf("invalid call kind: %d", int(k))
	}
	return []byte(callKindNames[k]), nil
}

func (k *CallKind) UnmarshalText(data []byte) error {
	for i, name := range callKindNames {
		if name == string(data) {
			*k = CallKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown call kind: %s", string(data))
}

// ReturnCode is the gas-independent status of an executed call. Zero
// signals success, any other value a specific failure class.
type ReturnCode int

const (
	Ok ReturnCode = iota
	FunctionNotFound
	FunctionWrongSignature
	ContractNotFound
	UserError
	OutOfGas
	AccountCollision
	OutOfFunds
	CallStackOverflow
	ContractInvalid
	ExecutionFailed
	UpgradeFailed
	SimulateFailed
	numReturnCodes int = iota
)

var returnCodeNames = [...]string{
	Ok:                     "ok",
	FunctionNotFound:       "function not found",
	FunctionWrongSignature: "wrong signature for function",
	ContractNotFound:       "contract not found",
	UserError:              "user error",
	OutOfGas:               "out of gas",
	AccountCollision:       "account collision",
	OutOfFunds:             "out of funds",
	CallStackOverflow:      "call stack overflow",
	ContractInvalid:        "contract invalid",
	ExecutionFailed:        "execution failed",
	UpgradeFailed:          "upgrade failed",
	SimulateFailed:         "simulate failed",
}

func (c ReturnCode) String() string {
	if c < 0 || int(c) >= numReturnCodes {
		return fmt.Sprintf("ReturnCode(%d)", int(c))
	}
	return returnCodeNames[c]
}

// Bytes encodes the code the way it is passed as the first argument of an
// async callback: minimal big-endian, empty for Ok.
func (c ReturnCode) Bytes() []byte {
	return NonceBytes(uint64(c))
}

// ReturnCodeFromBytes decodes a code encoded by Bytes.
func ReturnCodeFromBytes(data []byte) (ReturnCode, error) {
	value, err := NonceFromBytes(data)
	if err != nil {
		return 0, err
	}
	if value >= uint64(numReturnCodes) {
		return 0, fmt.Errorf("%w: unknown return code %d", ErrInvalidArguments, value)
	}
	return ReturnCode(value), nil
}

func (c ReturnCode) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= numReturnCodes {
		return nil, fmt.Errorf("invalid return code: %d", int(c))
	}
	return []byte(returnCodeNames[c]), nil
}

func (c *ReturnCode) UnmarshalText(data []byte) error {
	for i, name := range returnCodeNames {
		if name == string(data) {
			*c = ReturnCode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown return code: %s", string(data))
}
