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

var IdentityCode = fidelio.Code("mxsc:identity")

func init() {
	fidelio.MustRegisterContract(string(IdentityCode), contractFunc(func(params fidelio.Parameters) (fidelio.Result, error) {
		return fidelio.Success(params.Args...), nil
	}))
}

// GetStaticOverheadExample provides an example whose contract returns its
// arguments unchanged. Running it measures the fixed costs of a transaction,
// from resolving the target to collecting the result.
func GetStaticOverheadExample() Example {
	return exampleSpec{
		Name:      "static_overhead",
		code:      IdentityCode,
		function:  "identity",
		reference: func(x int) int { return x },
	}.build()
}
