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
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

var Sha3Code = fidelio.Code("mxsc:sha3")

func init() {
	fidelio.MustRegisterContract(string(Sha3Code), contractFunc(runSha3))
}

func GetSha3Example() Example {
	return exampleSpec{
		Name:      "sha3",
		code:      Sha3Code,
		function:  "hash",
		reference: sha3Ref,
	}.build()
}

// runSha3 computes x iterative hashes starting from a zero hash and
// returns the last byte of the result.
func runSha3(params fidelio.Parameters) (fidelio.Result, error) {
	if params.Function != "hash" {
		return fidelio.Result{Status: fidelio.FunctionNotFound, Message: params.Function}, nil
	}
	x, err := argument(params, 0)
	if err != nil {
		return fidelio.Failed(err), nil
	}
	var hash fidelio.Hash
	hasher := sha3.NewLegacyKeccak256()
	for i := uint64(0); i < x; i++ {
		hasher.Reset()
		hasher.Write(hash[:])
		hasher.Sum(hash[0:0])
	}
	return fidelio.Success(fidelio.NonceBytes(uint64(hash[31]))), nil
}

func sha3Ref(x int) int {
	var hash common.Hash
	for i := 0; i < x; i++ {
		hash = crypto.Keccak256Hash(hash[:])
	}
	return int(hash[31])
}
