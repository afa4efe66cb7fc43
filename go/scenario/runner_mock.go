// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package scenario is a generated GoMock package.
package scenario

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockStepRunner is a mock of Runner interface.
type MockStepRunner struct {
	ctrl     *gomock.Controller
	recorder *MockStepRunnerMockRecorder
}

// MockStepRunnerMockRecorder is the mock recorder for MockStepRunner.
type MockStepRunnerMockRecorder struct {
	mock *MockStepRunner
}

// NewMockStepRunner creates a new mock instance.
func NewMockStepRunner(ctrl *gomock.Controller) *MockStepRunner {
	mock := &MockStepRunner{ctrl: ctrl}
	mock.recorder = &MockStepRunnerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStepRunner) EXPECT() *MockStepRunnerMockRecorder {
	return m.recorder
}

// RunCheckState mocks base method.
func (m *MockStepRunner) RunCheckState(arg0 *CheckStateStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunCheckState", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunCheckState indicates an expected call of RunCheckState.
func (mr *MockStepRunnerMockRecorder) RunCheckState(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunCheckState", reflect.TypeOf((*MockStepRunner)(nil).RunCheckState), arg0)
}

// RunDumpState mocks base method.
func (m *MockStepRunner) RunDumpState(arg0 *DumpStateStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunDumpState", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunDumpState indicates an expected call of RunDumpState.
func (mr *MockStepRunnerMockRecorder) RunDumpState(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunDumpState", reflect.TypeOf((*MockStepRunner)(nil).RunDumpState), arg0)
}

// RunExternalSteps mocks base method.
func (m *MockStepRunner) RunExternalSteps(arg0 *ExternalStepsStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunExternalSteps", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunExternalSteps indicates an expected call of RunExternalSteps.
func (mr *MockStepRunnerMockRecorder) RunExternalSteps(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunExternalSteps", reflect.TypeOf((*MockStepRunner)(nil).RunExternalSteps), arg0)
}

// RunScCall mocks base method.
func (m *MockStepRunner) RunScCall(arg0 *ScCallStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunScCall", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunScCall indicates an expected call of RunScCall.
func (mr *MockStepRunnerMockRecorder) RunScCall(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunScCall", reflect.TypeOf((*MockStepRunner)(nil).RunScCall), arg0)
}

// RunScDeploy mocks base method.
func (m *MockStepRunner) RunScDeploy(arg0 *ScDeployStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunScDeploy", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunScDeploy indicates an expected call of RunScDeploy.
func (mr *MockStepRunnerMockRecorder) RunScDeploy(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunScDeploy", reflect.TypeOf((*MockStepRunner)(nil).RunScDeploy), arg0)
}

// RunScQuery mocks base method.
func (m *MockStepRunner) RunScQuery(arg0 *ScQueryStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunScQuery", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunScQuery indicates an expected call of RunScQuery.
func (mr *MockStepRunnerMockRecorder) RunScQuery(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunScQuery", reflect.TypeOf((*MockStepRunner)(nil).RunScQuery), arg0)
}

// RunSetState mocks base method.
func (m *MockStepRunner) RunSetState(arg0 *SetStateStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunSetState", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunSetState indicates an expected call of RunSetState.
func (mr *MockStepRunnerMockRecorder) RunSetState(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunSetState", reflect.TypeOf((*MockStepRunner)(nil).RunSetState), arg0)
}

// RunTransfer mocks base method.
func (m *MockStepRunner) RunTransfer(arg0 *TransferStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunTransfer", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunTransfer indicates an expected call of RunTransfer.
func (mr *MockStepRunnerMockRecorder) RunTransfer(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunTransfer", reflect.TypeOf((*MockStepRunner)(nil).RunTransfer), arg0)
}

// RunValidatorReward mocks base method.
func (m *MockStepRunner) RunValidatorReward(arg0 *ValidatorRewardStep) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RunValidatorReward", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// RunValidatorReward indicates an expected call of RunValidatorReward.
func (mr *MockStepRunnerMockRecorder) RunValidatorReward(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RunValidatorReward", reflect.TypeOf((*MockStepRunner)(nil).RunValidatorReward), arg0)
}
