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
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
)

// frame is the context of a contract function being executed. It collects
// the side effects of the function and records the first failure occurring
// in any operation performed through it.
type frame struct {
	tx      *transaction
	cache   *world.Cache
	call    call
	logs    []fidelio.TxLog
	records []fidelio.CallRecord
	pending []continuation
	failure *fidelio.Result
	err     error
}

// fail records a failure of the current function. Only the first failure
// is retained.
func (f *frame) fail(result fidelio.Result) {
	if f.failure == nil {
		f.failure = &result
	}
}

// check records the given error, if any, and passes it on.
func (f *frame) check(err error) error {
	if err == nil {
		return nil
	}
	if fidelio.IsInvariantViolation(err) {
		if f.err == nil {
			f.err = err
		}
		return err
	}
	f.fail(fidelio.Failed(err))
	return err
}

func (f *frame) checkWritable(operation string) error {
	if f.call.readOnly {
		return f.check(fmt.Errorf("%s %w", operation, fidelio.ErrReadOnly))
	}
	return nil
}

// --- StateContext ---

func (f *frame) GetStorage(key []byte) []byte {
	return f.GetStorageOf(f.call.to, key)
}

func (f *frame) GetStorageOf(account fidelio.Address, key []byte) []byte {
	res, _ := world.WithAccount(f.cache, account, func(a *world.Account) []byte {
		return append([]byte{}, a.GetStorage(key)...)
	})
	return res
}

func (f *frame) SetStorage(key, value []byte) error {
	if err := f.checkWritable("storage"); err != nil {
		return err
	}
	return f.check(f.cache.Update(f.call.to, func(account *world.Account) error {
		account.SetStorage(key, value)
		return nil
	}))
}

func (f *frame) GetBalance(address fidelio.Address) fidelio.Value {
	res, _ := world.WithAccount(f.cache, address, func(a *world.Account) fidelio.Value {
		return a.Balance
	})
	return res
}

func (f *frame) GetTokenBalance(address fidelio.Address, token fidelio.TokenIdentifier, nonce uint64) fidelio.Value {
	res, _ := world.WithAccount(f.cache, address, func(a *world.Account) fidelio.Value {
		return a.TokenBalance(fidelio.TokenKey{Identifier: token, Nonce: nonce})
	})
	return res
}

func (f *frame) GetTokenAttributes(address fidelio.Address, token fidelio.TokenIdentifier, nonce uint64) []byte {
	res, _ := world.WithAccount(f.cache, address, func(a *world.Account) []byte {
		instance := a.Token(fidelio.TokenKey{Identifier: token, Nonce: nonce})
		if instance == nil || instance.Metadata == nil {
			return nil
		}
		return append([]byte{}, instance.Metadata.Attributes...)
	})
	return res
}

func (f *frame) GetTokenRoles(address fidelio.Address, token fidelio.TokenIdentifier) []string {
	res, _ := world.WithAccount(f.cache, address, func(a *world.Account) []string {
		return append([]string{}, a.Roles[token]...)
	})
	return res
}

func (f *frame) GetOwner(address fidelio.Address) fidelio.Address {
	res, _ := world.WithAccount(f.cache, address, func(a *world.Account) fidelio.Address {
		return a.Owner
	})
	return res
}

func (f *frame) Transfer(to fidelio.Address, payment fidelio.Payment) error {
	if err := f.checkWritable("transfer"); err != nil {
		return err
	}
	if err := f.check(f.cache.TransferPayment(f.call.to, to, payment)); err != nil {
		return err
	}
	f.logs = append(f.logs, transferLogs(f.call.to, to, payment)...)
	return nil
}

func (f *frame) EmitLog(identifier string, topics [][]byte, data [][]byte) {
	f.logs = append(f.logs, fidelio.TxLog{
		Address:    f.call.to,
		Identifier: identifier,
		Topics:     fidelio.CloneBytes(topics),
		Data:       fidelio.CloneBytes(data),
	})
}

// --- RunContext ---

func (f *frame) Call(kind fidelio.CallKind, parameters fidelio.CallParameters) (fidelio.Result, error) {
	nested := call{
		kind:        kind,
		from:        f.call.to,
		to:          parameters.To,
		codeAddress: parameters.To,
		caller:      f.call.to,
		function:    parameters.Function,
		args:        parameters.Args,
		payment:     parameters.Payment,
		depth:       f.call.depth + 1,
		readOnly:    f.call.readOnly,
	}
	switch kind {
	case fidelio.ExecuteOnDestContext, fidelio.TransferExecute:
	case fidelio.ExecuteOnDestContextReadOnly:
		nested.readOnly = true
	case fidelio.ExecuteOnSameContext:
		nested.to = f.call.to
	case fidelio.ExecuteOnSameContextByCaller:
		nested.to = f.call.to
		nested.caller = f.call.caller
	default:
		result := fidelio.Result{
			Status:  fidelio.ExecutionFailed,
			Message: fmt.Sprintf("unhandled call type %v", kind),
		}
		f.fail(result)
		return result, nil
	}

	child := f.cache.Child()
	out, err := f.tx.invoke(child, nested)
	if err != nil {
		child.Discard()
		return fidelio.Result{}, f.check(err)
	}
	if !out.result.Succeeded() {
		child.Discard()
		f.fail(out.result)
		return out.result, nil
	}
	if err := f.absorb(child, out); err != nil {
		return fidelio.Result{}, err
	}
	return out.result, nil
}

func (f *frame) AsyncCall(parameters fidelio.AsyncCallParameters) error {
	if err := f.checkWritable("async call"); err != nil {
		return err
	}
	f.pending = append(f.pending, continuation{
		from:     f.call.to,
		to:       parameters.To,
		function: parameters.Function,
		args:     fidelio.CloneBytes(parameters.Args),
		payment:  parameters.Payment.Clone(),
		callback: parameters.Callback,
		closure:  fidelio.CloneBytes(parameters.Closure),
		depth:    f.call.depth + 1,
	})
	return nil
}

func (f *frame) Deploy(parameters fidelio.DeployParameters) (fidelio.Address, fidelio.Result, error) {
	if err := f.checkWritable("deploy"); err != nil {
		return fidelio.Address{}, fidelio.Failed(err), err
	}
	creator := f.call.to
	if err := f.check(f.cache.Update(creator, func(account *world.Account) error {
		account.Nonce++
		return nil
	})); err != nil {
		return fidelio.Address{}, fidelio.Failed(err), err
	}

	child := f.cache.Child()
	address, out, err := f.tx.deploy(child, creator, parameters, f.call.depth+1)
	if err != nil {
		child.Discard()
		return fidelio.Address{}, fidelio.Result{}, f.check(err)
	}
	if !out.result.Succeeded() {
		child.Discard()
		f.fail(out.result)
		return address, out.result, nil
	}
	if err := f.absorb(child, out); err != nil {
		return fidelio.Address{}, fidelio.Result{}, err
	}
	return address, out.result, nil
}

func (f *frame) Upgrade(target fidelio.Address, parameters fidelio.DeployParameters) (fidelio.Result, error) {
	if err := f.checkWritable("upgrade"); err != nil {
		return fidelio.Failed(err), err
	}
	child := f.cache.Child()
	out, err := f.tx.upgrade(child, f.call.to, target, parameters, f.call.depth+1)
	if err != nil {
		child.Discard()
		return fidelio.Result{}, f.check(err)
	}
	if !out.result.Succeeded() {
		child.Discard()
		f.fail(out.result)
		return out.result, nil
	}
	if err := f.absorb(child, out); err != nil {
		return fidelio.Result{}, err
	}
	return out.result, nil
}

// absorb merges the changes and side effects of a successful nested
// invocation into this frame.
func (f *frame) absorb(child *world.Cache, out outcome) error {
	update, err := child.IntoUpdate()
	if err == nil {
		err = f.cache.Merge(update)
	}
	if err != nil {
		return f.check(err)
	}
	f.logs = append(f.logs, out.logs...)
	f.records = append(f.records, out.records...)
	f.pending = append(f.pending, out.pending...)
	return nil
}
