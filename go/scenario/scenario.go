// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package scenario runs sequences of steps against the engine: seeding the
// ledger, sending transactions, and checking the resulting state. Runs can
// be recorded into trace files and replayed for regression testing.
package scenario

import (
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
)

const (
	// ErrExpectationMismatch is matched by errors reporting a difference
	// between the expected and the observed outcome of a step.
	ErrExpectationMismatch = fidelio.ConstErr("expectation mismatch")
	// ErrRunnerPoisoned is matched by errors of runners refusing to execute
	// steps after an engine invariant violation.
	ErrRunnerPoisoned = fidelio.ConstErr("runner poisoned")
)

// RunStep dispatches the given step to the corresponding method of the
// runner.
func RunStep(runner Runner, step Step) error {
	switch s := step.(type) {
	case *SetStateStep:
		return runner.RunSetState(s)
	case *ScCallStep:
		return runner.RunScCall(s)
	case *ScDeployStep:
		return runner.RunScDeploy(s)
	case *ScQueryStep:
		return runner.RunScQuery(s)
	case *TransferStep:
		return runner.RunTransfer(s)
	case *ValidatorRewardStep:
		return runner.RunValidatorReward(s)
	case *CheckStateStep:
		return runner.RunCheckState(s)
	case *DumpStateStep:
		return runner.RunDumpState(s)
	case *ExternalStepsStep:
		return runner.RunExternalSteps(s)
	}
	return fmt.Errorf("unsupported step type %T", step)
}

// RunSteps runs the given steps in order, stopping at the first failure.
func RunSteps(runner Runner, steps []Step) error {
	for i, step := range steps {
		if err := RunStep(runner, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Kind(), err)
		}
	}
	return nil
}

// RunScCalls runs the given calls in order, stopping at the first failure.
func RunScCalls(runner Runner, steps []*ScCallStep) error {
	for _, step := range steps {
		if err := runner.RunScCall(step); err != nil {
			return err
		}
	}
	return nil
}

// RunScDeploys runs the given deploys in order, stopping at the first
// failure.
func RunScDeploys(runner Runner, steps []*ScDeployStep) error {
	for _, step := range steps {
		if err := runner.RunScDeploy(step); err != nil {
			return err
		}
	}
	return nil
}
