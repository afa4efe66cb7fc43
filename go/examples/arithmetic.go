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

import (
	"math"
	"math/big"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/holiman/uint256"
)

var ArithmeticCode = fidelio.Code("mxsc:arithmetic")

func init() {
	fidelio.MustRegisterContract(string(ArithmeticCode), contractFunc(runArithmetic))
}

func GetArithmeticExample() Example {
	return exampleSpec{
		Name:      "arithmetic",
		code:      ArithmeticCode,
		function:  "arithmetic",
		reference: arithmetic,
	}.build()
}

// runArithmetic mixes 256-bit operations with wrap-around semantics in a
// loop of n iterations.
func runArithmetic(params fidelio.Parameters) (fidelio.Result, error) {
	if params.Function != "arithmetic" {
		return fidelio.Result{Status: fidelio.FunctionNotFound, Message: params.Function}, nil
	}
	n, err := argument(params, 0)
	if err != nil {
		return fidelio.Failed(err), nil
	}
	iterations := uint256.NewInt(n)
	result := uint256.NewInt(0)
	for i := uint256.NewInt(1); i.Lt(iterations) || i.Eq(iterations); i.AddUint64(i, 1) {
		iSquared := i.Clone().Mul(i, i)
		iCubed := iSquared.Clone().Mul(iSquared, i)
		iMod3 := i.Clone().Mod(i, uint256.NewInt(3))
		result.Add(result, i)
		result.Mul(result, i)
		result.Add(result, iSquared)
		result.Sub(result, i)
		result.Div(result, i)
		result.Mul(result, iMod3.AddUint64(iMod3, 1))
		result.Add(result, iCubed)
	}
	result.Mod(result, uint256.NewInt(math.MaxInt32))
	return fidelio.Success(fidelio.NonceBytes(result.Uint64())), nil
}

// arithmetic computes the same function using arbitrary precision integers
// truncated to 256 bits after every step.
func arithmetic(n int) int {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	wrap := func(x *big.Int) *big.Int {
		return x.And(x, mask)
	}
	result := new(big.Int)
	for k := int64(1); k <= int64(n); k++ {
		i := big.NewInt(k)
		result = wrap(result.Add(result, i))
		result = wrap(result.Mul(result, i))
		result = wrap(result.Add(result, new(big.Int).Mul(i, i)))
		result = wrap(result.Sub(result, i))
		result = result.Div(result, i)
		result = wrap(result.Mul(result, big.NewInt(k%3+1)))
		result = wrap(result.Add(result, new(big.Int).Mul(new(big.Int).Mul(i, i), i)))
	}
	return int(result.Mod(result, big.NewInt(math.MaxInt32)).Int64())
}
