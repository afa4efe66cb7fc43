// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
)

// continuation is an async call registered by a contract, to be executed
// once the registering call has finished.
type continuation struct {
	from     fidelio.Address
	to       fidelio.Address
	function string
	args     [][]byte
	payment  fidelio.Payment
	callback string
	closure  [][]byte
	depth    int
}

// step is an entry of the async call stack. It is either an async call or
// the callback of a finished async call.
type step struct {
	call       continuation
	isCallback bool
	// callbackArgs are the arguments passed to a callback, starting with
	// the return code of the async call.
	callbackArgs [][]byte
}

// processAsyncCalls runs all async calls registered while executing the
// given outcome, including calls registered by the async calls and their
// callbacks. Calls registered by a call run before its callback. A failed
// async call only discards its own changes and reports the failure to its
// callback. A failed callback fails the whole transaction.
func (t *transaction) processAsyncCalls(cache *world.Cache, root outcome) (outcome, error) {
	res := root
	stack := push(nil, root.pending)
	res.pending = nil

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := call{
			kind:        fidelio.AsyncCall,
			from:        cur.call.from,
			to:          cur.call.to,
			codeAddress: cur.call.to,
			caller:      cur.call.from,
			function:    cur.call.function,
			args:        cur.call.args,
			payment:     cur.call.payment,
			depth:       cur.call.depth,
		}
		if cur.isCallback {
			c.kind = fidelio.AsyncCallback
			c.from, c.to = cur.call.to, cur.call.from
			c.codeAddress, c.caller = c.to, c.from
			c.function = cur.call.callback
			c.args = cur.callbackArgs
			c.payment = fidelio.Payment{}
			c.closure = cur.call.closure
		}

		child := cache.Child()
		out, err := t.invoke(child, c)
		if err != nil {
			child.Discard()
			return outcome{}, err
		}

		record := fidelio.CallRecord{
			From:     c.from,
			To:       c.to,
			Function: c.function,
			Kind:     c.kind,
			Args:     fidelio.CloneBytes(c.args),
			Payment:  c.payment.Clone(),
			Status:   out.result.Status,
			Message:  out.result.Message,
			Output:   out.result.Output,
		}
		if out.result.Succeeded() {
			record.Logs = out.logs
			update, err := child.IntoUpdate()
			if err != nil {
				return outcome{}, err
			}
			if err := cache.Merge(update); err != nil {
				return outcome{}, err
			}
		} else {
			child.Discard()
		}
		t.log.Trace("Async step finished", "kind", c.kind, "to", c.to, "function", c.function, "status", out.result.Status)
		res.records = append(res.records, record)
		if out.result.Succeeded() {
			res.records = append(res.records, out.records...)
		}

		if cur.isCallback {
			if !out.result.Succeeded() {
				return outcome{result: out.result}, nil
			}
			stack = push(stack, out.pending)
			continue
		}

		if cur.call.callback != "" {
			stack = append(stack, step{
				call:         cur.call,
				isCallback:   true,
				callbackArgs: callbackArgs(out.result),
			})
		}
		if out.result.Succeeded() {
			stack = push(stack, out.pending)
		}
	}
	return res, nil
}

// push adds the given continuations to the stack such that they are
// processed in registration order.
func push(stack []step, pending []continuation) []step {
	for i := len(pending) - 1; i >= 0; i-- {
		stack = append(stack, step{call: pending[i]})
	}
	return stack
}

// callbackArgs lists the arguments passed to the callback of an async call
// with the given result.
func callbackArgs(result fidelio.Result) [][]byte {
	res := [][]byte{result.Status.Bytes()}
	if result.Succeeded() {
		return append(res, fidelio.CloneBytes(result.Output)...)
	}
	return append(res, []byte(result.Message))
}
