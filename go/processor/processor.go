// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package processor drives transactions through their lifecycle: it
// resolves the call target, invokes builtin operations, system contracts,
// or contract code, handles nested synchronous and asynchronous calls, and
// decides whether the resulting changes are committed or rolled back.
package processor

import (
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultMaxCallDepth      = 1024
	DefaultContractCacheSize = 128
)

// Config summarizes the options of a Processor. Zero values are replaced
// by defaults.
type Config struct {
	MaxCallDepth      int
	ContractCacheSize int
	EnforceRoles      bool
	Builtins          *builtin.Registry
	Logger            log.Logger
}

// Processor executes transactions. A Processor does not retain any state
// between transactions besides a cache of contract instances and may be
// shared by multiple goroutines.
type Processor struct {
	config    Config
	builtins  *builtin.Registry
	contracts *lru.Cache[fidelio.Hash, fidelio.Contract]
	log       log.Logger
}

func New(config Config) (*Processor, error) {
	if config.MaxCallDepth <= 0 {
		config.MaxCallDepth = DefaultMaxCallDepth
	}
	if config.ContractCacheSize <= 0 {
		config.ContractCacheSize = DefaultContractCacheSize
	}
	builtins := config.Builtins
	if builtins == nil {
		builtins = builtin.Default()
	}
	contracts, err := lru.New[fidelio.Hash, fidelio.Contract](config.ContractCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract cache: %w", err)
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New("module", "processor")
	}
	return &Processor{
		config:    config,
		builtins:  builtins,
		contracts: contracts,
		log:       logger,
	}, nil
}

// Execute processes a single transaction on top of the given state. On
// success the changes are returned as an update to be committed by the
// caller. Failed transactions produce a result with a non-Ok status and no
// update. The error is only set for engine invariant violations.
func (p *Processor) Execute(
	block fidelio.BlockInfo,
	input fidelio.TxInput,
	source world.Source,
) (fidelio.TxResult, *world.Update, error) {
	cache := world.NewCache(source)
	result, err := p.ExecuteInCache(block, input, cache)
	if err != nil || !result.Succeeded() {
		cache.Discard()
		return result, nil, err
	}
	update, err := cache.IntoUpdate()
	if err != nil {
		return fidelio.TxResult{}, nil, err
	}
	return result, update, nil
}

// ExecuteInCache processes a single transaction, applying its changes to
// the given cache if it succeeds. A failed transaction leaves the cache
// untouched.
func (p *Processor) ExecuteInCache(
	block fidelio.BlockInfo,
	input fidelio.TxInput,
	cache *world.Cache,
) (fidelio.TxResult, error) {
	tx := &transaction{
		processor: p,
		block:     block,
		input:     input,
		state:     Resolving,
		log:       p.log.New("tx", input.TxHash, "function", input.Function),
	}
	return tx.run(cache)
}

// Query executes a read request. All changes are discarded, regardless of
// the outcome.
func (p *Processor) Query(
	block fidelio.BlockInfo,
	input fidelio.TxInput,
	source world.Source,
) (fidelio.TxResult, error) {
	cache := world.NewCache(source)
	defer cache.Discard()
	return p.ExecuteInCache(block, input, cache)
}

// contract obtains the implementation of the given code.
func (p *Processor) contract(code fidelio.Code, hash fidelio.Hash) (fidelio.Contract, error) {
	if contract, found := p.contracts.Get(hash); found {
		return contract, nil
	}
	contract, err := fidelio.NewContract(code)
	if err != nil {
		return nil, err
	}
	p.contracts.Add(hash, contract)
	return contract, nil
}

// transaction is the processing state of a single transaction.
type transaction struct {
	processor *Processor
	block     fidelio.BlockInfo
	input     fidelio.TxInput
	state     TxState
	log       log.Logger
}

func (t *transaction) run(cache *world.Cache) (fidelio.TxResult, error) {
	child := cache.Child()
	root, supported := t.resolve()
	if !supported {
		out := failedOutcome(fidelio.ExecutionFailed, "unhandled call type %v", root.kind)
		return t.finalize(cache, child, out, nil)
	}

	if err := t.transition(Invoking); err != nil {
		return fidelio.TxResult{}, err
	}
	out, newAddress, err := t.invokeRoot(child, root)
	if err == nil && out.result.Succeeded() {
		out, err = t.processAsyncCalls(child, out)
	}
	if err != nil {
		child.Discard()
		return fidelio.TxResult{}, err
	}
	return t.finalize(cache, child, out, newAddress)
}

// finalize commits the changes of a successful transaction into the given
// cache, or discards them if the transaction failed.
func (t *transaction) finalize(
	cache, child *world.Cache,
	out outcome,
	newAddress *fidelio.Address,
) (fidelio.TxResult, error) {
	if err := t.transition(Finalizing); err != nil {
		return fidelio.TxResult{}, err
	}
	if !out.result.Succeeded() {
		child.Discard()
		if err := t.transition(RolledBack); err != nil {
			return fidelio.TxResult{}, err
		}
		t.log.Debug("Transaction rolled back", "status", out.result.Status, "message", out.result.Message)
		return fidelio.TxResult{
			Status:  out.result.Status,
			Message: out.result.Message,
			Output:  out.result.Output,
		}, nil
	}

	update, err := child.IntoUpdate()
	if err != nil {
		return fidelio.TxResult{}, err
	}
	if err := cache.Merge(update); err != nil {
		return fidelio.TxResult{}, err
	}
	if err := t.transition(Committed); err != nil {
		return fidelio.TxResult{}, err
	}
	t.log.Debug("Transaction committed", "logs", len(out.logs), "records", len(out.records))
	return fidelio.TxResult{
		Status:     fidelio.Ok,
		Output:     out.result.Output,
		Logs:       out.logs,
		Records:    out.records,
		NewAddress: newAddress,
	}, nil
}

// resolve converts the transaction input into the root call and reports
// whether its kind may be sent as a transaction.
func (t *transaction) resolve() (call, bool) {
	input := t.input
	root := call{
		kind:        input.Kind,
		from:        input.From,
		to:          input.To,
		codeAddress: input.To,
		caller:      input.From,
		function:    input.Function,
		args:        input.Args,
		payment:     input.Payment,
		readOnly:    input.Kind == fidelio.ExecuteOnDestContextReadOnly,
	}
	switch input.Kind {
	case fidelio.Direct, fidelio.TransferExecute, fidelio.ExecuteOnDestContext, fidelio.ExecuteOnDestContextReadOnly:
		return root, true
	case fidelio.Deploy:
		root.function = initFunction
		return root, true
	case fidelio.Upgrade:
		root.function = upgradeFunction
		return root, true
	}
	return root, false
}

func (t *transaction) invokeRoot(cache *world.Cache, root call) (outcome, *fidelio.Address, error) {
	parameters := fidelio.DeployParameters{
		Code:         t.input.Code,
		CodeMetadata: t.input.CodeMetadata,
		Args:         root.args,
		Payment:      root.payment.EGLD,
	}
	switch root.kind {
	case fidelio.Deploy:
		address, out, err := t.deploy(cache, root.from, parameters, 0)
		if err != nil || !out.result.Succeeded() {
			return out, nil, err
		}
		return out, &address, nil
	case fidelio.Upgrade:
		out, err := t.upgrade(cache, root.from, root.to, parameters, 0)
		return out, nil, err
	}
	out, err := t.invoke(cache, root)
	return out, nil, err
}
