// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fidelio is a generated GoMock package.
package fidelio

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockContract is a mock of Contract interface.
type MockContract struct {
	ctrl     *gomock.Controller
	recorder *MockContractMockRecorder
}

// MockContractMockRecorder is the mock recorder for MockContract.
type MockContractMockRecorder struct {
	mock *MockContract
}

// NewMockContract creates a new mock instance.
func NewMockContract(ctrl *gomock.Controller) *MockContract {
	mock := &MockContract{ctrl: ctrl}
	mock.recorder = &MockContractMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockContract) EXPECT() *MockContractMockRecorder {
	return m.recorder
}

// Run mocks base method.
func (m *MockContract) Run(arg0 Parameters) (Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", arg0)
	ret0, _ := ret[0].(Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Run indicates an expected call of Run.
func (mr *MockContractMockRecorder) Run(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockContract)(nil).Run), arg0)
}

// MockRunContext is a mock of RunContext interface.
type MockRunContext struct {
	ctrl     *gomock.Controller
	recorder *MockRunContextMockRecorder
}

// MockRunContextMockRecorder is the mock recorder for MockRunContext.
type MockRunContextMockRecorder struct {
	mock *MockRunContext
}

// NewMockRunContext creates a new mock instance.
func NewMockRunContext(ctrl *gomock.Controller) *MockRunContext {
	mock := &MockRunContext{ctrl: ctrl}
	mock.recorder = &MockRunContextMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRunContext) EXPECT() *MockRunContextMockRecorder {
	return m.recorder
}

// AsyncCall mocks base method.
func (m *MockRunContext) AsyncCall(arg0 AsyncCallParameters) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AsyncCall", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// AsyncCall indicates an expected call of AsyncCall.
func (mr *MockRunContextMockRecorder) AsyncCall(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AsyncCall", reflect.TypeOf((*MockRunContext)(nil).AsyncCall), arg0)
}

// Call mocks base method.
func (m *MockRunContext) Call(kind CallKind, parameters CallParameters) (Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Call", kind, parameters)
	ret0, _ := ret[0].(Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Call indicates an expected call of Call.
func (mr *MockRunContextMockRecorder) Call(kind, parameters any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Call", reflect.TypeOf((*MockRunContext)(nil).Call), kind, parameters)
}

// Deploy mocks base method.
func (m *MockRunContext) Deploy(arg0 DeployParameters) (Address, Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Deploy", arg0)
	ret0, _ := ret[0].(Address)
	ret1, _ := ret[1].(Result)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// Deploy indicates an expected call of Deploy.
func (mr *MockRunContextMockRecorder) Deploy(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Deploy", reflect.TypeOf((*MockRunContext)(nil).Deploy), arg0)
}

// EmitLog mocks base method.
func (m *MockRunContext) EmitLog(identifier string, topics [][]byte, data [][]byte) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "EmitLog", identifier, topics, data)
}

// EmitLog indicates an expected call of EmitLog.
func (mr *MockRunContextMockRecorder) EmitLog(identifier, topics, data any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EmitLog", reflect.TypeOf((*MockRunContext)(nil).EmitLog), identifier, topics, data)
}

// GetBalance mocks base method.
func (m *MockRunContext) GetBalance(arg0 Address) Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBalance", arg0)
	ret0, _ := ret[0].(Value)
	return ret0
}

// GetBalance indicates an expected call of GetBalance.
func (mr *MockRunContextMockRecorder) GetBalance(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBalance", reflect.TypeOf((*MockRunContext)(nil).GetBalance), arg0)
}

// GetOwner mocks base method.
func (m *MockRunContext) GetOwner(arg0 Address) Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOwner", arg0)
	ret0, _ := ret[0].(Address)
	return ret0
}

// GetOwner indicates an expected call of GetOwner.
func (mr *MockRunContextMockRecorder) GetOwner(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOwner", reflect.TypeOf((*MockRunContext)(nil).GetOwner), arg0)
}

// GetStorage mocks base method.
func (m *MockRunContext) GetStorage(key []byte) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorage", key)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// GetStorage indicates an expected call of GetStorage.
func (mr *MockRunContextMockRecorder) GetStorage(key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorage", reflect.TypeOf((*MockRunContext)(nil).GetStorage), key)
}

// GetStorageOf mocks base method.
func (m *MockRunContext) GetStorageOf(account Address, key []byte) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorageOf", account, key)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// GetStorageOf indicates an expected call of GetStorageOf.
func (mr *MockRunContextMockRecorder) GetStorageOf(account, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorageOf", reflect.TypeOf((*MockRunContext)(nil).GetStorageOf), account, key)
}

// GetTokenAttributes mocks base method.
func (m *MockRunContext) GetTokenAttributes(account Address, token TokenIdentifier, nonce uint64) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTokenAttributes", account, token, nonce)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// GetTokenAttributes indicates an expected call of GetTokenAttributes.
func (mr *MockRunContextMockRecorder) GetTokenAttributes(account, token, nonce any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTokenAttributes", reflect.TypeOf((*MockRunContext)(nil).GetTokenAttributes), account, token, nonce)
}

// GetTokenBalance mocks base method.
func (m *MockRunContext) GetTokenBalance(account Address, token TokenIdentifier, nonce uint64) Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTokenBalance", account, token, nonce)
	ret0, _ := ret[0].(Value)
	return ret0
}

// GetTokenBalance indicates an expected call of GetTokenBalance.
func (mr *MockRunContextMockRecorder) GetTokenBalance(account, token, nonce any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTokenBalance", reflect.TypeOf((*MockRunContext)(nil).GetTokenBalance), account, token, nonce)
}

// GetTokenRoles mocks base method.
func (m *MockRunContext) GetTokenRoles(account Address, token TokenIdentifier) []string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTokenRoles", account, token)
	ret0, _ := ret[0].([]string)
	return ret0
}

// GetTokenRoles indicates an expected call of GetTokenRoles.
func (mr *MockRunContextMockRecorder) GetTokenRoles(account, token any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTokenRoles", reflect.TypeOf((*MockRunContext)(nil).GetTokenRoles), account, token)
}

// SetStorage mocks base method.
func (m *MockRunContext) SetStorage(key []byte, value []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStorage", key, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockRunContextMockRecorder) SetStorage(key, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockRunContext)(nil).SetStorage), key, value)
}

// Transfer mocks base method.
func (m *MockRunContext) Transfer(to Address, payment Payment) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transfer", to, payment)
	ret0, _ := ret[0].(error)
	return ret0
}

// Transfer indicates an expected call of Transfer.
func (mr *MockRunContextMockRecorder) Transfer(to, payment any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transfer", reflect.TypeOf((*MockRunContext)(nil).Transfer), to, payment)
}

// Upgrade mocks base method.
func (m *MockRunContext) Upgrade(target Address, parameters DeployParameters) (Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upgrade", target, parameters)
	ret0, _ := ret[0].(Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Upgrade indicates an expected call of Upgrade.
func (mr *MockRunContextMockRecorder) Upgrade(target, parameters any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upgrade", reflect.TypeOf((*MockRunContext)(nil).Upgrade), target, parameters)
}

// MockStateContext is a mock of StateContext interface.
type MockStateContext struct {
	ctrl     *gomock.Controller
	recorder *MockStateContextMockRecorder
}

// MockStateContextMockRecorder is the mock recorder for MockStateContext.
type MockStateContextMockRecorder struct {
	mock *MockStateContext
}

// NewMockStateContext creates a new mock instance.
func NewMockStateContext(ctrl *gomock.Controller) *MockStateContext {
	mock := &MockStateContext{ctrl: ctrl}
	mock.recorder = &MockStateContextMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStateContext) EXPECT() *MockStateContextMockRecorder {
	return m.recorder
}

// EmitLog mocks base method.
func (m *MockStateContext) EmitLog(identifier string, topics [][]byte, data [][]byte) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "EmitLog", identifier, topics, data)
}

// EmitLog indicates an expected call of EmitLog.
func (mr *MockStateContextMockRecorder) EmitLog(identifier, topics, data any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EmitLog", reflect.TypeOf((*MockStateContext)(nil).EmitLog), identifier, topics, data)
}

// GetBalance mocks base method.
func (m *MockStateContext) GetBalance(arg0 Address) Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBalance", arg0)
	ret0, _ := ret[0].(Value)
	return ret0
}

// GetBalance indicates an expected call of GetBalance.
func (mr *MockStateContextMockRecorder) GetBalance(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBalance", reflect.TypeOf((*MockStateContext)(nil).GetBalance), arg0)
}

// GetOwner mocks base method.
func (m *MockStateContext) GetOwner(arg0 Address) Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOwner", arg0)
	ret0, _ := ret[0].(Address)
	return ret0
}

// GetOwner indicates an expected call of GetOwner.
func (mr *MockStateContextMockRecorder) GetOwner(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOwner", reflect.TypeOf((*MockStateContext)(nil).GetOwner), arg0)
}

// GetStorage mocks base method.
func (m *MockStateContext) GetStorage(key []byte) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorage", key)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// GetStorage indicates an expected call of GetStorage.
func (mr *MockStateContextMockRecorder) GetStorage(key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorage", reflect.TypeOf((*MockStateContext)(nil).GetStorage), key)
}

// GetStorageOf mocks base method.
func (m *MockStateContext) GetStorageOf(account Address, key []byte) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorageOf", account, key)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// GetStorageOf indicates an expected call of GetStorageOf.
func (mr *MockStateContextMockRecorder) GetStorageOf(account, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorageOf", reflect.TypeOf((*MockStateContext)(nil).GetStorageOf), account, key)
}

// GetTokenAttributes mocks base method.
func (m *MockStateContext) GetTokenAttributes(account Address, token TokenIdentifier, nonce uint64) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTokenAttributes", account, token, nonce)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// GetTokenAttributes indicates an expected call of GetTokenAttributes.
func (mr *MockStateContextMockRecorder) GetTokenAttributes(account, token, nonce any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTokenAttributes", reflect.TypeOf((*MockStateContext)(nil).GetTokenAttributes), account, token, nonce)
}

// GetTokenBalance mocks base method.
func (m *MockStateContext) GetTokenBalance(account Address, token TokenIdentifier, nonce uint64) Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTokenBalance", account, token, nonce)
	ret0, _ := ret[0].(Value)
	return ret0
}

// GetTokenBalance indicates an expected call of GetTokenBalance.
func (mr *MockStateContextMockRecorder) GetTokenBalance(account, token, nonce any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTokenBalance", reflect.TypeOf((*MockStateContext)(nil).GetTokenBalance), account, token, nonce)
}

// GetTokenRoles mocks base method.
func (m *MockStateContext) GetTokenRoles(account Address, token TokenIdentifier) []string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTokenRoles", account, token)
	ret0, _ := ret[0].([]string)
	return ret0
}

// GetTokenRoles indicates an expected call of GetTokenRoles.
func (mr *MockStateContextMockRecorder) GetTokenRoles(account, token any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTokenRoles", reflect.TypeOf((*MockStateContext)(nil).GetTokenRoles), account, token)
}

// SetStorage mocks base method.
func (m *MockStateContext) SetStorage(key []byte, value []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStorage", key, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockStateContextMockRecorder) SetStorage(key, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockStateContext)(nil).SetStorage), key, value)
}

// Transfer mocks base method.
func (m *MockStateContext) Transfer(to Address, payment Payment) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transfer", to, payment)
	ret0, _ := ret[0].(error)
	return ret0
}

// Transfer indicates an expected call of Transfer.
func (mr *MockStateContextMockRecorder) Transfer(to, payment any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transfer", reflect.TypeOf((*MockStateContext)(nil).Transfer), to, payment)
}
