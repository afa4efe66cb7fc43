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

var ForwarderCode = fidelio.Code("mxsc:forwarder")

// Storage keys written by the forwarder's callback.
var (
	CallbackStatusKey = []byte("callback_status")
	CallbackDataKey   = []byte("callback_data")
)

func init() {
	fidelio.MustRegisterContract(string(ForwarderCode), forwarder{})
}

// forwarder relays calls to other accounts. Functions taking a target
// expect the target address as the first argument, followed by the name of
// the function to call and its arguments. Payments received by the
// forwarder are passed on to the target.
//
//	forwardSync(to, function, args...)      nested call on the target's context
//	forwardReadOnly(to, function, args...)  nested read-only call
//	forwardAsync(to, function, args...)     async call with callback "callBack"
//	forwardTransfer(to)                     plain transfer of the payment
//	deployChild(code, args...)              deploys a contract owned by the forwarder
type forwarder struct{}

func (forwarder) Run(params fidelio.Parameters) (fidelio.Result, error) {
	ctx := params.Context
	switch params.Function {
	case "init", "upgrade":
		return fidelio.Success(), nil

	case "forwardSync", "forwardReadOnly":
		call, res := parseForward(params)
		if res != nil {
			return *res, nil
		}
		kind := fidelio.ExecuteOnDestContext
		if params.Function == "forwardReadOnly" {
			kind = fidelio.ExecuteOnDestContextReadOnly
		}
		return ctx.Call(kind, call)

	case "forwardAsync":
		call, res := parseForward(params)
		if res != nil {
			return *res, nil
		}
		err := ctx.AsyncCall(fidelio.AsyncCallParameters{
			CallParameters: call,
			Callback:       "callBack",
			Closure:        [][]byte{call.To[:]},
		})
		if err != nil {
			return fidelio.Failed(err), nil
		}
		return fidelio.Success(), nil

	case "callBack":
		if params.Kind != fidelio.AsyncCallback || len(params.Args) == 0 {
			return fidelio.SignalError("callBack is only available as a callback"), nil
		}
		if err := ctx.SetStorage(CallbackStatusKey, params.Args[0]); err != nil {
			return fidelio.Failed(err), nil
		}
		data := []byte{}
		if len(params.Args) > 1 {
			data = params.Args[1]
		}
		if err := ctx.SetStorage(CallbackDataKey, data); err != nil {
			return fidelio.Failed(err), nil
		}
		ctx.EmitLog("callBack", append([][]byte{params.Args[0]}, params.Closure...), nil)
		return fidelio.Success(), nil

	case "forwardTransfer":
		if len(params.Args) != 1 {
			return fidelio.SignalError("wrong number of arguments"), nil
		}
		to, err := fidelio.AddressFromBytes(params.Args[0])
		if err != nil {
			return fidelio.Failed(err), nil
		}
		if err := ctx.Transfer(to, params.Payment); err != nil {
			return fidelio.Failed(err), nil
		}
		return fidelio.Success(), nil

	case "deployChild":
		if len(params.Args) == 0 {
			return fidelio.SignalError("wrong number of arguments"), nil
		}
		address, res, err := ctx.Deploy(fidelio.DeployParameters{
			Code: fidelio.Code(params.Args[0]),
			Args: params.Args[1:],
		})
		if err != nil && fidelio.IsInvariantViolation(err) {
			return fidelio.Result{}, err
		}
		if err != nil {
			return fidelio.Failed(err), nil
		}
		if !res.Succeeded() {
			return res, nil
		}
		return fidelio.Success(address[:]), nil
	}
	return fidelio.Result{Status: fidelio.FunctionNotFound, Message: "invalid function (not found)"}, nil
}

// parseForward decodes the target and the function of a forwarded call. The
// second result is set if the arguments are invalid.
func parseForward(params fidelio.Parameters) (fidelio.CallParameters, *fidelio.Result) {
	if len(params.Args) < 2 {
		res := fidelio.SignalError("wrong number of arguments")
		return fidelio.CallParameters{}, &res
	}
	to, err := fidelio.AddressFromBytes(params.Args[0])
	if err != nil {
		res := fidelio.Failed(err)
		return fidelio.CallParameters{}, &res
	}
	return fidelio.CallParameters{
		To:       to,
		Function: string(params.Args[1]),
		Args:     params.Args[2:],
		Payment:  params.Payment,
	}, nil
}
