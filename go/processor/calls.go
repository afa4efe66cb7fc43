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

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
)

const (
	initFunction    = "init"
	upgradeFunction = "upgrade"
)

// call is a single invocation processed by the engine.
type call struct {
	kind fidelio.CallKind
	// from is the account paying for the call.
	from fidelio.Address
	// to is the account whose storage and balance are used.
	to fidelio.Address
	// codeAddress is the account providing the executed code.
	codeAddress fidelio.Address
	// caller is the account reported to the contract as the caller.
	caller   fidelio.Address
	function string
	args     [][]byte
	payment  fidelio.Payment
	closure  [][]byte
	depth    int
	readOnly bool
	// paid is set if the payment was transferred before the call.
	paid bool
}

// outcome is the result of an invocation together with its side effects
// that are only kept if the invocation succeeds.
type outcome struct {
	result  fidelio.Result
	logs    []fidelio.TxLog
	records []fidelio.CallRecord
	pending []continuation
}

func failedOutcome(status fidelio.ReturnCode, format string, args ...any) outcome {
	return outcome{result: fidelio.Result{Status: status, Message: fmt.Sprintf(format, args...)}}
}

// failed converts a modeled failure into an outcome. Engine invariant
// violations are returned as errors.
func failed(err error) (outcome, error) {
	if fidelio.IsInvariantViolation(err) {
		return outcome{}, err
	}
	return outcome{result: fidelio.Failed(err)}, nil
}

// target is the kind of code executing a call.
type target int

const (
	targetTransfer target = iota
	targetBuiltin
	targetSystem
	targetContract
)

func (t *transaction) target(c call) target {
	switch {
	case c.kind == fidelio.Deploy || c.kind == fidelio.Upgrade:
		return targetContract
	case t.processor.builtins.IsBuiltin(c.function):
		return targetBuiltin
	case c.to == ESDTSystemSCAddress():
		return targetSystem
	case c.function == "":
		return targetTransfer
	}
	return targetContract
}

// invoke executes the given call on the given cache. The cache is modified
// even if the call fails; it is up to the caller to discard it.
func (t *transaction) invoke(cache *world.Cache, c call) (outcome, error) {
	if c.depth > t.processor.config.MaxCallDepth {
		return failedOutcome(fidelio.CallStackOverflow, "max call depth of %d exceeded", t.processor.config.MaxCallDepth), nil
	}
	if c.readOnly && !c.payment.IsEmpty() {
		return failed(fmt.Errorf("payment %w", fidelio.ErrReadOnly))
	}

	switch t.target(c) {
	case targetBuiltin:
		return t.invokeBuiltin(cache, c)
	case targetSystem:
		return t.invokeSystemContract(cache, c)
	}

	var logs []fidelio.TxLog
	if !c.paid {
		if err := cache.TransferPayment(c.from, c.to, c.payment); err != nil {
			return failed(err)
		}
		logs = transferLogs(c.from, c.to, c.payment)
	}
	if c.function == "" {
		return outcome{result: fidelio.Success(), logs: logs}, nil
	}
	out, err := t.invokeContract(cache, c)
	if err != nil {
		return outcome{}, err
	}
	out.logs = append(logs, out.logs...)
	return out, nil
}

func (t *transaction) invokeContract(cache *world.Cache, c call) (outcome, error) {
	type code struct {
		code fidelio.Code
		hash fidelio.Hash
	}
	found, err := world.WithAccount(cache, c.codeAddress, func(account *world.Account) code {
		return code{account.Code, account.CodeHash}
	})
	if err != nil || len(found.code) == 0 {
		return failedOutcome(fidelio.ContractNotFound, "no contract code at %v", c.codeAddress), nil
	}
	contract, err := t.processor.contract(found.code, found.hash)
	if err != nil {
		return failedOutcome(fidelio.ContractInvalid, "%v", err), nil
	}

	frame := &frame{
		tx:    t,
		cache: cache,
		call:  c,
	}
	result, err := contract.Run(fidelio.Parameters{
		Context:     frame,
		Kind:        c.kind,
		Function:    c.function,
		Args:        fidelio.CloneBytes(c.args),
		Payment:     c.payment.Clone(),
		Block:       t.block,
		TxHash:      t.input.TxHash,
		ReadOnly:    c.readOnly,
		Depth:       c.depth,
		Caller:      c.caller,
		Recipient:   c.to,
		CodeAddress: c.codeAddress,
		Code:        found.code,
		CodeHash:    found.hash,
		Closure:     fidelio.CloneBytes(c.closure),
	})
	if err != nil {
		return outcome{}, err
	}
	if frame.err != nil {
		return outcome{}, frame.err
	}
	if frame.failure != nil {
		result = *frame.failure
	}
	if result.Succeeded() {
		t.log.Trace("Call succeeded", "kind", c.kind, "to", c.to, "function", c.function, "depth", c.depth)
	} else {
		t.log.Trace("Call failed", "kind", c.kind, "to", c.to, "function", c.function, "depth", c.depth, "status", result.Status)
	}
	return outcome{
		result:  result,
		logs:    frame.logs,
		records: frame.records,
		pending: frame.pending,
	}, nil
}

func (t *transaction) invokeBuiltin(cache *world.Cache, c call) (outcome, error) {
	if c.readOnly {
		return failed(fmt.Errorf("builtin %s: %w", c.function, fidelio.ErrReadOnly))
	}
	function, err := t.processor.builtins.Lookup(c.function)
	if err != nil {
		return failed(err)
	}
	input := fidelio.TxInput{
		From:     c.from,
		To:       c.to,
		Function: c.function,
		Args:     c.args,
		Payment:  c.payment,
		Kind:     c.kind,
		TxHash:   t.input.TxHash,
	}
	if !c.paid && !c.payment.IsEmpty() {
		return failed(fmt.Errorf("%w: builtin %s does not accept payments", fidelio.ErrInvalidArguments, c.function))
	}
	res, err := function.Execute(input, cache, builtin.Config{
		EnforceRoles: t.processor.config.EnforceRoles,
		Logger:       t.log,
	})
	if err != nil {
		return outcome{}, err
	}
	out := outcome{
		result: fidelio.Result{Status: res.Status, Message: res.Message, Output: res.Output},
		logs:   res.Logs,
	}
	if !res.Succeeded() || !builtin.IsTransfer(c.function) {
		return out, nil
	}

	// Transfers may name a function to be executed on the receiver.
	transfer, err := builtin.ParseTransfer(input)
	if err != nil {
		return failed(err)
	}
	if transfer.Function == "" {
		return out, nil
	}
	isContract, err := world.WithAccount(cache, transfer.Receiver, (*world.Account).HasCode)
	if err != nil || !isContract {
		return out, nil
	}
	followUp, err := t.invoke(cache, call{
		kind:        fidelio.TransferExecute,
		from:        transfer.Sender,
		to:          transfer.Receiver,
		codeAddress: transfer.Receiver,
		caller:      transfer.Sender,
		function:    transfer.Function,
		args:        transfer.Args,
		payment:     fidelio.Payment{Tokens: transfer.Tokens},
		depth:       c.depth + 1,
		paid:        true,
	})
	if err != nil {
		return outcome{}, err
	}
	followUp.logs = append(out.logs, followUp.logs...)
	return followUp, nil
}

// deploy creates a new contract and runs its init function.
func (t *transaction) deploy(
	cache *world.Cache,
	creator fidelio.Address,
	parameters fidelio.DeployParameters,
	depth int,
) (fidelio.Address, outcome, error) {
	address, err := cache.GetNewAddress(creator)
	if err != nil {
		out, err := failed(err)
		return fidelio.Address{}, out, err
	}
	hasCode, err := world.WithAccount(cache, address, (*world.Account).HasCode)
	if err == nil && hasCode {
		return address, failedOutcome(fidelio.AccountCollision, "account %v already exists", address), nil
	}
	if len(parameters.Code) == 0 {
		return address, failedOutcome(fidelio.ContractInvalid, "no code provided"), nil
	}

	account := world.NewAccount(address)
	if err == nil {
		// A user account was created by a transfer to the address before.
		if account, err = world.WithAccount(cache, address, (*world.Account).Clone); err != nil {
			return address, outcome{}, err
		}
	}
	account.SetCode(parameters.Code)
	account.CodeMetadata = parameters.CodeMetadata
	account.Owner = creator
	if err := cache.InsertAccount(account); err != nil {
		return address, outcome{}, err
	}
	t.log.Debug("Deploying contract", "creator", creator, "address", address, "code", string(parameters.Code))

	out, err := t.invoke(cache, call{
		kind:        fidelio.Deploy,
		from:        creator,
		to:          address,
		codeAddress: address,
		caller:      creator,
		function:    initFunction,
		args:        parameters.Args,
		payment:     fidelio.Payment{EGLD: parameters.Payment},
		depth:       depth,
	})
	return address, out, err
}

// upgrade replaces the code of a contract and runs its upgrade function.
// Only the owner of a contract may upgrade it.
func (t *transaction) upgrade(
	cache *world.Cache,
	caller, target fidelio.Address,
	parameters fidelio.DeployParameters,
	depth int,
) (outcome, error) {
	if len(parameters.Code) == 0 {
		return failedOutcome(fidelio.UpgradeFailed, "no code provided"), nil
	}
	if err := cache.Update(target, func(account *world.Account) error {
		if !account.HasCode() {
			return fmt.Errorf("%v is not a contract", target)
		}
		if account.Owner != caller {
			return fmt.Errorf("%w: %v may not upgrade %v", fidelio.ErrNotOwner, caller, target)
		}
		account.SetCode(parameters.Code)
		account.CodeMetadata = parameters.CodeMetadata
		return nil
	}); err != nil {
		if fidelio.IsInvariantViolation(err) {
			return outcome{}, err
		}
		return failedOutcome(fidelio.UpgradeFailed, "%v", err), nil
	}
	return t.invoke(cache, call{
		kind:        fidelio.Upgrade,
		from:        caller,
		to:          target,
		codeAddress: target,
		caller:      caller,
		function:    upgradeFunction,
		args:        parameters.Args,
		payment:     fidelio.Payment{EGLD: parameters.Payment},
		depth:       depth,
	})
}

// transferLogs creates the logs recording the token part of a payment, in
// the format of the transfer builtins.
func transferLogs(from, to fidelio.Address, payment fidelio.Payment) []fidelio.TxLog {
	if len(payment.Tokens) == 0 {
		return nil
	}
	identifier := builtin.MultiESDTNFTTransfer
	if len(payment.Tokens) == 1 {
		identifier = builtin.ESDTTransfer
		if payment.Tokens[0].Nonce != 0 {
			identifier = builtin.ESDTNFTTransfer
		}
	}
	res := make([]fidelio.TxLog, 0, len(payment.Tokens))
	for _, token := range payment.Tokens {
		res = append(res, fidelio.TxLog{
			Address:    from,
			Identifier: identifier,
			Topics: [][]byte{
				[]byte(token.Token),
				fidelio.NonceBytes(token.Nonce),
				token.Amount.Bytes(),
				append([]byte{}, to[:]...),
			},
		})
	}
	return res
}
