// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import "github.com/Fantom-foundation/Fidelio/go/fidelio"

var FibCode = fidelio.Code("mxsc:fib")

func init() {
	fidelio.MustRegisterContract(string(FibCode), contractFunc(runFib))
}

// GetFibExample provides an example computing Fibonacci numbers through
// recursive nested calls of the contract to itself. The number of nested
// calls grows exponentially with the argument.
func GetFibExample() Example {
	return exampleSpec{
		Name:      "fib",
		code:      FibCode,
		function:  "fib",
		reference: fib,
	}.build()
}

func runFib(params fidelio.Parameters) (fidelio.Result, error) {
	if params.Function != "fib" {
		return fidelio.Result{Status: fidelio.FunctionNotFound, Message: params.Function}, nil
	}
	n, err := argument(params, 0)
	if err != nil {
		return fidelio.Failed(err), nil
	}
	if n < 2 {
		return fidelio.Success(fidelio.NonceBytes(n)), nil
	}
	sum := uint64(0)
	for _, arg := range []uint64{n - 1, n - 2} {
		res, err := params.Context.Call(fidelio.ExecuteOnDestContextReadOnly, fidelio.CallParameters{
			To:       params.Recipient,
			Function: "fib",
			Args:     [][]byte{fidelio.NonceBytes(arg)},
		})
		if err != nil {
			return fidelio.Result{}, err
		}
		if !res.Succeeded() {
			return res, nil
		}
		if len(res.Output) != 1 {
			return fidelio.SignalError("unexpected output of nested call"), nil
		}
		value, err := fidelio.NonceFromBytes(res.Output[0])
		if err != nil {
			return fidelio.Failed(err), nil
		}
		sum += value
	}
	return fidelio.Success(fidelio.NonceBytes(uint64(uint32(sum)))), nil
}

func fib(n int) int {
	a, b := 0, 1
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return int(uint32(a))
}
