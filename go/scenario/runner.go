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

//go:generate mockgen -source runner.go -destination runner_mock.go -package scenario -mock_names Runner=MockStepRunner

// Runner executes scenario steps, one at a time. Transaction steps fill in
// the response of the step they are given.
//
// Failed transactions are not errors of a runner; they are reported through
// the step's response. Errors are produced if a step can not be executed or
// its outcome does not match the step's expectations.
type Runner interface {
	RunSetState(*SetStateStep) error
	RunScCall(*ScCallStep) error
	RunScDeploy(*ScDeployStep) error
	RunScQuery(*ScQueryStep) error
	RunTransfer(*TransferStep) error
	RunValidatorReward(*ValidatorRewardStep) error
	RunCheckState(*CheckStateStep) error
	RunDumpState(*DumpStateStep) error
	RunExternalSteps(*ExternalStepsStep) error
}
