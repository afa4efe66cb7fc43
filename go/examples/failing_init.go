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

var FailingInitCode = fidelio.Code("mxsc:failing-init")

func init() {
	fidelio.MustRegisterContract(string(FailingInitCode), contractFunc(runFailingInit))
}

// runFailingInit writes to the storage of the contract and then signals an
// error, so every deploy of it is rolled back.
func runFailingInit(params fidelio.Parameters) (fidelio.Result, error) {
	if err := params.Context.SetStorage([]byte("initialized"), []byte{1}); err != nil {
		return fidelio.Failed(err), nil
	}
	params.Context.EmitLog("init", nil, nil)
	return fidelio.SignalError("init failed on purpose"), nil
}
