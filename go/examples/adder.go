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
)

var AdderCode = fidelio.Code("mxsc:adder")

// SumKey is the storage key under which the adder keeps its sum.
var SumKey = []byte("sum")

func init() {
	fidelio.MustRegisterContract(string(AdderCode), adder{})
}

// adder maintains a 256-bit sum in its storage. The constructor sets the
// initial value, "add" increases it and "getSum" reports it.
type adder struct{}

func (adder) Run(params fidelio.Parameters) (fidelio.Result, error) {
	ctx := params.Context
	switch params.Function {
	case "init", "upgrade":
		initial := fidelio.Value{}
		if len(params.Args) > 0 {
			value, err := fidelio.ValueFromBytes(params.Args[0])
			if err != nil {
				return fidelio.Failed(err), nil
			}
			initial = value
		}
		if err := ctx.SetStorage(SumKey, initial.Bytes()); err != nil {
			return fidelio.Failed(err), nil
		}
		return fidelio.Success(), nil

	case "add":
		if len(params.Args) != 1 {
			return fidelio.SignalError("wrong number of arguments"), nil
		}
		value, err := fidelio.ValueFromBytes(params.Args[0])
		if err != nil {
			return fidelio.Failed(err), nil
		}
		sum, err := fidelio.ValueFromBytes(ctx.GetStorage(SumKey))
		if err != nil {
			return fidelio.Failed(err), nil
		}
		sum, overflow := fidelio.AddChecked(sum, value)
		if overflow {
			return fidelio.SignalError("sum overflow"), nil
		}
		if err := ctx.SetStorage(SumKey, sum.Bytes()); err != nil {
			return fidelio.Failed(err), nil
		}
		return fidelio.Success(), nil

	case "getSum":
		return fidelio.Success(ctx.GetStorage(SumKey)), nil
	}
	return fidelio.Result{Status: fidelio.FunctionNotFound, Message: "invalid function (not found)"}, nil
}
