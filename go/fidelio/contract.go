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

//go:generate mockgen -source contract.go -destination contract_mock.go -package fidelio

// Contract is the executable form of a contract's code. Instances are
// obtained through the contract registry, using the code stored in an
// account as the lookup key.
type Contract interface {
	// Run executes the function named in the parameters and returns its
	// result. The resulting error is nil whenever the function was correctly
	// executed, even if it signalled a failure through the result status. The
	// error is not nil if the engine itself failed, in which case the result
	// is undefined. Contracts are required to be stateless; all persistent
	// data is kept in the account storage reachable through the context.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the list of input parameters required for executing
// a contract function.
type Parameters struct {
	Context  RunContext
	Kind     CallKind
	Function string
	Args     [][]byte
	Payment  Payment
	Block    BlockInfo
	TxHash   Hash
	ReadOnly bool
	Depth    int

	// Caller is the account the call is attributed to. For same-context
	// calls issued by caller it is the original caller of the current
	// contract.
	Caller Address
	// Recipient is the account whose storage and balance the call operates
	// on. CodeAddress is the account providing the executed code. The two
	// only differ for same-context calls.
	Recipient   Address
	CodeAddress Address
	Code        Code
	CodeHash    Hash

	// Closure is the data registered alongside an async call. It is only
	// set for callbacks.
	Closure [][]byte
}

// Result summarizes the result of a contract function.
type Result struct {
	Status  ReturnCode
	Message string
	Output  [][]byte
}

// Success creates a successful result with the given outputs.
func Success(output ...[]byte) Result {
	return Result{Status: Ok, Output: output}
}

// SignalError creates the result of a function failing on purpose, e.g.
// due to a failed requirement check.
func SignalError(format string, args ...any) Result {
	return Result{Status: UserError, Message: fmt.Sprintf(format, args...)}
}

// Failed converts a modeled failure returned by the context into a result.
func Failed(err error) Result {
	return Result{Status: ReturnCodeOf(err), Message: err.Error()}
}

func (r Result) Succeeded() bool {
	return r.Status == Ok
}

// CallParameters summarizes the parameters of a nested synchronous call.
type CallParameters struct {
	To       Address
	Function string
	Args     [][]byte
	Payment  Payment
}

// AsyncCallParameters summarizes a call that is executed once the current
// call has finished. The callback, if named, is invoked on the calling
// contract with the call's status as its first argument.
type AsyncCallParameters struct {
	CallParameters
	Callback string
	Closure  [][]byte
}

// DeployParameters summarizes the parameters of a deploy or an upgrade
// issued by a contract.
type DeployParameters struct {
	Code         Code
	CodeMetadata []byte
	Args         [][]byte
	Payment      Value
}

// RunContext provides an interface to access and manipulate the ledger as
// needed by contract functions. All modifications are buffered within the
// current transaction. Errors returned by mutating operations are modeled
// failures; they are also recorded by the context, so the current call
// fails even if the contract ignores them.
type RunContext interface {
	StateContext

	// Call performs a nested synchronous call of the given kind and returns
	// its result. A failed nested call fails the current call.
	Call(kind CallKind, parameters CallParameters) (Result, error)

	// AsyncCall registers a call to be executed after the current call.
	AsyncCall(AsyncCallParameters) error

	// Deploy creates a new contract owned by the current contract.
	Deploy(DeployParameters) (Address, Result, error)

	// Upgrade replaces the code of a contract owned by the current contract.
	Upgrade(target Address, parameters DeployParameters) (Result, error)
}

// StateContext is the part of the run context giving access to account
// state. Getters yield zero values for unknown accounts.
type StateContext interface {
	GetStorage(key []byte) []byte
	GetStorageOf(account Address, key []byte) []byte
	SetStorage(key, value []byte) error

	GetBalance(Address) Value
	GetTokenBalance(account Address, token TokenIdentifier, nonce uint64) Value
	GetTokenAttributes(account Address, token TokenIdentifier, nonce uint64) []byte
	GetTokenRoles(account Address, token TokenIdentifier) []string
	GetOwner(Address) Address

	// Transfer moves the given payment from the current contract to the
	// given account without executing any code.
	Transfer(to Address, payment Payment) error

	EmitLog(identifier string, topics [][]byte, data [][]byte)
}
