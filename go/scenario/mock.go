// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scenario

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/outcome"
	"github.com/Fantom-foundation/Fidelio/go/processor"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/log"
)

// RunnerState is the life-cycle state of a MockRunner.
type RunnerState int32

const (
	// Ready runners accept the next step.
	Ready RunnerState = iota
	// Running runners are executing a step.
	Running
	// Poisoned runners encountered an engine invariant violation and refuse
	// to execute any further steps.
	Poisoned
)

func (s RunnerState) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Poisoned:
		return "poisoned"
	}
	return fmt.Sprintf("RunnerState(%d)", int32(s))
}

// MockRunner executes steps in-process on a ledger it owns. Steps are
// serialized; a MockRunner may be shared by multiple goroutines.
type MockRunner struct {
	mu        sync.Mutex
	state     atomic.Int32
	cause     error
	world     *world.World
	processor *processor.Processor
	dump      io.Writer
	log       log.Logger
}

func NewMockRunner(config Config) (*MockRunner, error) {
	logger := config.Logger
	if logger == nil {
		logger = log.New("module", "scenario")
	}
	if config.Processor.Logger == nil {
		config.Processor.Logger = logger.New("component", "processor")
	}
	p, err := processor.New(config.Processor)
	if err != nil {
		return nil, err
	}
	dump := config.DumpWriter
	if dump == nil {
		dump = os.Stdout
	}
	return &MockRunner{
		world:     world.NewWorld(),
		processor: p,
		dump:      dump,
		log:       logger,
	}, nil
}

// World provides access to the ledger of this runner.
func (r *MockRunner) World() *world.World {
	return r.world
}

func (r *MockRunner) State() RunnerState {
	return RunnerState(r.state.Load())
}

// Err returns the invariant violation that poisoned this runner, or nil if
// the runner is not poisoned.
func (r *MockRunner) Err() error {
	if r.State() != Poisoned {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cause
}

// run executes a single step. Invariant violations poison the runner; any
// later step fails without touching the ledger.
func (r *MockRunner) run(step Step, execute func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State() == Poisoned {
		return fmt.Errorf("%w: %w", ErrRunnerPoisoned, r.cause)
	}
	r.state.Store(int32(Running))
	err := recoverPanic(execute)
	if fidelio.IsInvariantViolation(err) {
		r.cause = err
		r.state.Store(int32(Poisoned))
		r.log.Error("Runner poisoned", "step", step.Kind(), "id", stepID(step), "err", err)
		return fmt.Errorf("%w: %w", ErrRunnerPoisoned, err)
	}
	r.state.Store(int32(Ready))
	return err
}

// recoverPanic runs the given function, converting a panic into an
// invariant violation.
func recoverPanic(execute func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fidelio.InvariantError("panic while running step: %v", recovered)
		}
	}()
	return execute()
}

func (r *MockRunner) RunSetState(step *SetStateStep) error {
	return r.run(step, func() error {
		accounts := make([]*world.Account, 0, len(step.Accounts))
		for i := range step.Accounts {
			account, err := step.Accounts[i].ToAccount()
			if err != nil {
				return err
			}
			accounts = append(accounts, account)
		}
		for _, id := range step.NewTokenIdentifiers {
			if err := id.Validate(); err != nil {
				return err
			}
		}

		for _, account := range accounts {
			r.world.SetAccount(account)
		}
		for _, entry := range step.NewAddresses {
			r.world.PutNewAddress(entry.Creator, entry.Nonce, entry.NewAddress)
		}
		for _, id := range step.NewTokenIdentifiers {
			r.world.PushNewTokenIdentifier(id)
		}
		if step.PreviousBlockInfo != nil || step.CurrentBlockInfo != nil {
			previous, current := r.world.BlockInfo()
			if step.PreviousBlockInfo != nil {
				previous = *step.PreviousBlockInfo
			}
			if step.CurrentBlockInfo != nil {
				current = *step.CurrentBlockInfo
			}
			r.world.SetBlockInfo(previous, current)
		}
		r.log.Debug("State set", "accounts", len(accounts), "comment", step.Comment)
		return nil
	})
}

func (r *MockRunner) RunScCall(step *ScCallStep) error {
	return r.run(step, func() error {
		response, err := r.send(step.input())
		if err != nil {
			return err
		}
		step.Response = response
		return check(step, step.Expect.diff(response))
	})
}

func (r *MockRunner) RunScDeploy(step *ScDeployStep) error {
	return r.run(step, func() error {
		response, err := r.send(step.input())
		if err != nil {
			return err
		}
		step.Response = response
		return check(step, step.Expect.diff(response))
	})
}

func (r *MockRunner) RunScQuery(step *ScQueryStep) error {
	return r.run(step, func() error {
		_, block := r.world.BlockInfo()
		result, err := r.processor.Query(block, step.input(), r.world)
		if err != nil {
			return err
		}
		step.Response = newResponse(result)
		return check(step, step.Expect.diff(step.Response))
	})
}

func (r *MockRunner) RunTransfer(step *TransferStep) error {
	return r.run(step, func() error {
		response, err := r.send(step.input())
		if err != nil {
			return err
		}
		step.Response = response
		if response.Status != fidelio.Ok {
			return fmt.Errorf("transfer from %v to %v failed: %v (%s)",
				step.From, step.To, step.Response.Status, step.Response.Message)
		}
		return nil
	})
}

func (r *MockRunner) RunValidatorReward(step *ValidatorRewardStep) error {
	return r.run(step, func() error {
		return r.world.IncreaseValidatorReward(step.Address, step.Reward)
	})
}

func (r *MockRunner) RunCheckState(step *CheckStateStep) error {
	return r.run(step, func() error {
		return check(step, checkState(r.world.Accounts(), step))
	})
}

func (r *MockRunner) RunDumpState(step *DumpStateStep) error {
	return r.run(step, func() error {
		return DumpState(r.dump, step.Comment, r.world.Accounts())
	})
}

// RunExternalSteps loads the referenced trace and runs its steps on this
// runner. The steps of the trace are executed one by one, so a poisoning
// step stops the sequence.
func (r *MockRunner) RunExternalSteps(step *ExternalStepsStep) error {
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRunnerPoisoned, err)
	}
	trace, err := LoadTrace(step.Path)
	if err != nil {
		return err
	}
	r.log.Debug("Running external steps", "path", step.Path, "steps", len(trace.Steps))
	return RunSteps(r, trace.Steps)
}

// send processes an outgoing transaction. The sender's nonce is incremented
// first and the increment is kept even if the transaction fails. Senders
// not present in the ledger produce a failed response.
func (r *MockRunner) send(input fidelio.TxInput) (*TxResponse, error) {
	if err := r.world.IncrementNonce(input.From); err != nil {
		return newResponse(fidelio.FailureFromError(err)), nil
	}
	_, block := r.world.BlockInfo()
	result, update, err := r.processor.Execute(block, input, r.world)
	if err != nil {
		return nil, err
	}
	r.world.Commit(update)
	if input.To == processor.ESDTSystemSCAddress() {
		if ids, err := outcome.ParseIssued(result); err == nil {
			r.log.Debug("Tokens issued", "from", input.From, "ids", ids)
		}
	}
	return newResponse(result), nil
}
