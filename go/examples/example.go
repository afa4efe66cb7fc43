// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package examples provides contract implementations registered under
// "mxsc:" codes, together with executable examples of (int)->int functions
// used for tests and benchmarks of the transaction processor.
package examples

import (
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
)

// Executor is the part of the transaction processor needed for running
// examples.
type Executor interface {
	Execute(fidelio.BlockInfo, fidelio.TxInput, world.Source) (fidelio.TxResult, *world.Update, error)
}

// Example is an executable description of a contract and an entry point with a (int)->int signature.
type Example struct {
	exampleSpec
	codeHash fidelio.Hash
}

// exampleSpec specifies a contract and an entry point with a (int)->int signature.
type exampleSpec struct {
	Name      string
	code      fidelio.Code  // the registered code of the contract
	function  string        // the function of the contract to be called
	reference func(int) int // a reference function computing the same function
}

func (s exampleSpec) build() Example {
	account := world.NewAccount(exampleAddress)
	account.SetCode(s.code)
	return Example{
		exampleSpec: s,
		codeHash:    account.CodeHash,
	}
}

var (
	exampleAddress = fidelio.SmartContractAddressFromName("example")
	exampleCaller  = fidelio.AddressFromName("example-caller")
)

type Result struct {
	Result int
	// Logs is the number of log entries emitted by the call.
	Logs int
}

// GetAllExamples lists all examples of this package.
func GetAllExamples() []Example {
	return []Example{
		GetArithmeticExample(),
		GetFibExample(),
		GetSha3Example(),
		GetStaticOverheadExample(),
	}
}

// Code returns the code of the contract running this example.
func (e *Example) Code() fidelio.Code {
	return e.code
}

// CodeHash returns the hash of the contract's code.
func (e *Example) CodeHash() fidelio.Hash {
	return e.codeHash
}

// RunOn runs this example on the given executor, using the given argument.
// Each run starts from a fresh ledger holding only the example contract and
// its caller.
func (e *Example) RunOn(executor Executor, argument int) (Result, error) {
	state := world.NewWorld()
	contract := world.NewAccount(exampleAddress)
	contract.SetCode(e.code)
	state.SetAccount(contract)
	state.SetAccount(world.NewAccount(exampleCaller))

	res, _, err := executor.Execute(fidelio.BlockInfo{}, fidelio.TxInput{
		From:     exampleCaller,
		To:       exampleAddress,
		Function: e.function,
		Args:     [][]byte{encodeArgument(argument)},
		Kind:     fidelio.Direct,
	}, state)
	if err != nil {
		return Result{}, err
	}
	if !res.Succeeded() {
		return Result{}, fmt.Errorf("execution of %s failed with status %v: %s", e.Name, res.Status, res.Message)
	}

	result, err := decodeOutput(res.Output)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Result: result,
		Logs:   len(res.Logs),
	}, nil
}

// RunReference runs the reference function of this example to produce the expected result.
func (e *Example) RunReference(argument int) int {
	return e.reference(argument)
}

func encodeArgument(arg int) []byte {
	return fidelio.NonceBytes(uint64(uint32(arg)))
}

func decodeOutput(output [][]byte) (int, error) {
	if len(output) != 1 {
		return 0, fmt.Errorf("unexpected number of outputs; wanted 1, got %d", len(output))
	}
	if len(output[0]) > 4 {
		return 0, fmt.Errorf("unexpected length of output; wanted at most 4, got %d", len(output[0]))
	}
	value, err := fidelio.NonceFromBytes(output[0])
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

// argument decodes the i-th argument of a call as an unsigned integer.
func argument(params fidelio.Parameters, i int) (uint64, error) {
	if i >= len(params.Args) {
		return 0, fmt.Errorf("%w: missing argument %d", fidelio.ErrInvalidArguments, i)
	}
	return fidelio.NonceFromBytes(params.Args[i])
}

// contractFunc adapts a function to the Contract interface.
type contractFunc func(fidelio.Parameters) (fidelio.Result, error)

func (f contractFunc) Run(params fidelio.Parameters) (fidelio.Result, error) {
	return f(params)
}
