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

// ListRunner forwards each step to a list of runners, in order. The step
// instance is shared, so later runners observe the responses filled in by
// earlier ones. Forwarding stops at the first error.
type ListRunner struct {
	runners []Runner
}

func NewListRunner(runners ...Runner) *ListRunner {
	return &ListRunner{runners: runners}
}

func (l *ListRunner) each(run func(Runner) error) error {
	for _, runner := range l.runners {
		if err := run(runner); err != nil {
			return err
		}
	}
	return nil
}

func (l *ListRunner) RunSetState(step *SetStateStep) error {
	return l.each(func(r Runner) error { return r.RunSetState(step) })
}

func (l *ListRunner) RunScCall(step *ScCallStep) error {
	return l.each(func(r Runner) error { return r.RunScCall(step) })
}

func (l *ListRunner) RunScDeploy(step *ScDeployStep) error {
	return l.each(func(r Runner) error { return r.RunScDeploy(step) })
}

func (l *ListRunner) RunScQuery(step *ScQueryStep) error {
	return l.each(func(r Runner) error { return r.RunScQuery(step) })
}

func (l *ListRunner) RunTransfer(step *TransferStep) error {
	return l.each(func(r Runner) error { return r.RunTransfer(step) })
}

func (l *ListRunner) RunValidatorReward(step *ValidatorRewardStep) error {
	return l.each(func(r Runner) error { return r.RunValidatorReward(step) })
}

func (l *ListRunner) RunCheckState(step *CheckStateStep) error {
	return l.each(func(r Runner) error { return r.RunCheckState(step) })
}

func (l *ListRunner) RunDumpState(step *DumpStateStep) error {
	return l.each(func(r Runner) error { return r.RunDumpState(step) })
}

func (l *ListRunner) RunExternalSteps(step *ExternalStepsStep) error {
	return l.each(func(r Runner) error { return r.RunExternalSteps(step) })
}
