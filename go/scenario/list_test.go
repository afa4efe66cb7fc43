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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"go.uber.org/mock/gomock"
)

func TestListRunner_ForwardsStepsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockStepRunner(ctrl)
	second := NewMockStepRunner(ctrl)

	steps := []Step{
		&SetStateStep{},
		&ScCallStep{},
		&ScDeployStep{},
		&ScQueryStep{},
		&TransferStep{},
		&ValidatorRewardStep{},
		&CheckStateStep{},
		&DumpStateStep{},
		&ExternalStepsStep{},
	}
	expect := func(runner *MockStepRunner, step Step) *gomock.Call {
		r := runner.EXPECT()
		switch s := step.(type) {
		case *SetStateStep:
			return r.RunSetState(s).Return(nil)
		case *ScCallStep:
			return r.RunScCall(s).Return(nil)
		case *ScDeployStep:
			return r.RunScDeploy(s).Return(nil)
		case *ScQueryStep:
			return r.RunScQuery(s).Return(nil)
		case *TransferStep:
			return r.RunTransfer(s).Return(nil)
		case *ValidatorRewardStep:
			return r.RunValidatorReward(s).Return(nil)
		case *CheckStateStep:
			return r.RunCheckState(s).Return(nil)
		case *DumpStateStep:
			return r.RunDumpState(s).Return(nil)
		case *ExternalStepsStep:
			return r.RunExternalSteps(s).Return(nil)
		}
		t.Fatalf("unexpected step %T", step)
		return nil
	}
	var calls []any
	for _, step := range steps {
		calls = append(calls, expect(first, step), expect(second, step))
	}
	gomock.InOrder(calls...)

	if err := RunSteps(NewListRunner(first, second), steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListRunner_StopsAtFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockStepRunner(ctrl)
	second := NewMockStepRunner(ctrl)

	step := &ScCallStep{}
	injected := errors.New("injected")
	first.EXPECT().RunScCall(step).Return(injected)

	if err := NewListRunner(first, second).RunScCall(step); !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}
}

func TestListRunner_LaterRunnersObserveResponses(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockStepRunner(ctrl)
	second := NewMockStepRunner(ctrl)

	step := &ScCallStep{}
	first.EXPECT().RunScCall(step).DoAndReturn(func(s *ScCallStep) error {
		s.Response = &TxResponse{Status: fidelio.UserError}
		return nil
	})
	second.EXPECT().RunScCall(step).DoAndReturn(func(s *ScCallStep) error {
		if s.Response == nil || s.Response.Status != fidelio.UserError {
			t.Errorf("response of first runner not visible")
		}
		return nil
	})
	if err := NewListRunner(first, second).RunScCall(step); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunScCalls_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := NewMockStepRunner(ctrl)

	steps := []*ScCallStep{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	injected := errors.New("injected")
	gomock.InOrder(
		runner.EXPECT().RunScCall(steps[0]).Return(nil),
		runner.EXPECT().RunScCall(steps[1]).Return(injected),
	)
	if err := RunScCalls(runner, steps); !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}
}

func TestRunScDeploys_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := NewMockStepRunner(ctrl)

	steps := []*ScDeployStep{{ID: "a"}, {ID: "b"}}
	injected := errors.New("injected")
	runner.EXPECT().RunScDeploy(steps[0]).Return(injected)
	if err := RunScDeploys(runner, steps); !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}
}

func TestRunSteps_ReportsFailingStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := NewMockStepRunner(ctrl)

	injected := errors.New("injected")
	gomock.InOrder(
		runner.EXPECT().RunDumpState(gomock.Any()).Return(nil),
		runner.EXPECT().RunCheckState(gomock.Any()).Return(injected),
	)
	err := RunSteps(runner, []Step{&DumpStateStep{}, &CheckStateStep{}, &DumpStateStep{}})
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if want, got := "step 1 (checkState): injected", err.Error(); want != got {
		t.Errorf("unexpected message, wanted %q, got %q", want, got)
	}
}
