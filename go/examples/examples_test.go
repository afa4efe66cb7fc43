// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/processor"
	"github.com/Fantom-foundation/Fidelio/go/scenario"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

var (
	alice     = fidelio.AddressFromName("alice")
	bob       = fidelio.AddressFromName("bob")
	adderSC   = fidelio.SmartContractAddressFromName("adder")
	forwardSC = fidelio.SmartContractAddressFromName("forwarder")
)

func TestExamples_ProduceReferenceResults(t *testing.T) {
	p, err := processor.New(processor.Config{})
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	for _, example := range GetAllExamples() {
		for _, arg := range []int{0, 1, 2, 5, 10, 12} {
			t.Run(fmt.Sprintf("%s/%d", example.Name, arg), func(t *testing.T) {
				got, err := example.RunOn(p, arg)
				if err != nil {
					t.Fatalf("failed to run example: %v", err)
				}
				if want := example.RunReference(arg); want != got.Result {
					t.Errorf("unexpected result, wanted %d, got %d", want, got.Result)
				}
			})
		}
	}
}

func TestExamples_CodesAreRegistered(t *testing.T) {
	hashes := map[fidelio.Hash]string{}
	for _, example := range GetAllExamples() {
		if _, err := fidelio.NewContract(example.Code()); err != nil {
			t.Errorf("contract of %s not available: %v", example.Name, err)
		}
		if other, found := hashes[example.CodeHash()]; found {
			t.Errorf("examples %s and %s share a code hash", example.Name, other)
		}
		hashes[example.CodeHash()] = example.Name
	}
	for _, code := range []fidelio.Code{AdderCode, ForwarderCode, FailingInitCode} {
		if _, err := fidelio.NewContract(code); err != nil {
			t.Errorf("contract %s not available: %v", code, err)
		}
	}
}

func TestArithmetic_ReferenceHandlesWrapAround(t *testing.T) {
	// The intermediate results exceed 256 bits after a few dozen iterations.
	p, err := processor.New(processor.Config{})
	require.NoError(t, err)
	example := GetArithmeticExample()
	for _, arg := range []int{50, 100} {
		got, err := example.RunOn(p, arg)
		require.NoError(t, err)
		require.Equal(t, example.RunReference(arg), got.Result)
	}
}

func newRunner(t *testing.T, accounts ...scenario.AccountState) *scenario.MockRunner {
	t.Helper()
	runner, err := scenario.NewMockRunner(scenario.Config{DumpWriter: &bytes.Buffer{}})
	require.NoError(t, err)
	run(t, runner, &scenario.SetStateStep{Accounts: accounts})
	return runner
}

func run(t *testing.T, runner scenario.Runner, steps ...scenario.Step) {
	t.Helper()
	require.NoError(t, scenario.RunSteps(runner, steps))
}

func storageOf(t *testing.T, runner *scenario.MockRunner, address fidelio.Address, key []byte) []byte {
	t.Helper()
	account, found := runner.World().Account(address)
	require.True(t, found, "account %v not found", address)
	return account.GetStorage(key)
}

func args(values ...[]byte) []hexutil.Bytes {
	res := make([]hexutil.Bytes, 0, len(values))
	for _, value := range values {
		res = append(res, value)
	}
	return res
}

func TestAdder_DeployAddAndQuery(t *testing.T) {
	runner := newRunner(t, scenario.AccountState{Address: alice})
	address := world.NewContractAddress(alice, 0)

	run(t, runner,
		&scenario.ScDeployStep{
			From:      alice,
			Code:      string(AdderCode),
			Arguments: args([]byte{5}),
			Expect:    &scenario.TxExpect{Status: fidelio.Ok, NewAddress: &address},
		},
		&scenario.ScCallStep{From: alice, To: address, Function: "add", Arguments: args([]byte{7}), Expect: scenario.Expect()},
		&scenario.ScQueryStep{To: address, Function: "getSum", Expect: scenario.Expect([]byte{12})},
		&scenario.CheckStateStep{Accounts: []scenario.AccountExpect{{
			Address: address,
			Owner:   &alice,
			Storage: map[string]hexutil.Bytes{"sum": {12}},
		}}},
	)
}

func TestAdder_InvalidCallsFail(t *testing.T) {
	runner := newRunner(t,
		scenario.AccountState{Address: alice},
		scenario.AccountState{Address: adderSC, Code: string(AdderCode), Storage: map[string]hexutil.Bytes{"sum": {1}}},
	)
	run(t, runner,
		&scenario.ScCallStep{From: alice, To: adderSC, Function: "add", Expect: scenario.ExpectFailure(fidelio.UserError, "wrong number of arguments")},
		&scenario.ScCallStep{From: alice, To: adderSC, Function: "subtract", Arguments: args([]byte{1}), Expect: &scenario.TxExpect{Status: fidelio.FunctionNotFound}},
	)
	require.Equal(t, []byte{1}, storageOf(t, runner, adderSC, SumKey))
}

func TestAdder_OverflowIsReported(t *testing.T) {
	full := make([]byte, 32)
	for i := range full {
		full[i] = 0xff
	}
	runner := newRunner(t,
		scenario.AccountState{Address: alice},
		scenario.AccountState{Address: adderSC, Code: string(AdderCode), Storage: map[string]hexutil.Bytes{"sum": full}},
	)
	run(t, runner,
		&scenario.ScCallStep{From: alice, To: adderSC, Function: "add", Arguments: args([]byte{0}), Expect: scenario.Expect()},
		&scenario.ScCallStep{From: alice, To: adderSC, Function: "add", Arguments: args([]byte{1}), Expect: scenario.ExpectFailure(fidelio.UserError, "sum overflow")},
	)
	require.Equal(t, full, storageOf(t, runner, adderSC, SumKey))
}

func TestFailingInit_DeployIsRolledBack(t *testing.T) {
	runner := newRunner(t, scenario.AccountState{Address: alice})
	deploy := &scenario.ScDeployStep{
		From:   alice,
		Code:   string(FailingInitCode),
		Expect: scenario.ExpectFailure(fidelio.UserError, "init failed on purpose"),
	}
	run(t, runner, deploy)
	require.Empty(t, deploy.Response.Logs)

	_, found := runner.World().Account(world.NewContractAddress(alice, 0))
	require.False(t, found)
	account, _ := runner.World().Account(alice)
	require.Equal(t, uint64(1), account.Nonce)
}

func newForwarderRunner(t *testing.T) *scenario.MockRunner {
	return newRunner(t,
		scenario.AccountState{Address: alice, Balance: fidelio.NewValue(1_000)},
		scenario.AccountState{Address: forwardSC, Code: string(ForwarderCode)},
		scenario.AccountState{Address: adderSC, Code: string(AdderCode), Storage: map[string]hexutil.Bytes{"sum": {5}}},
	)
}

func TestForwarder_SyncCallsModifyTarget(t *testing.T) {
	runner := newForwarderRunner(t)
	run(t, runner, &scenario.ScCallStep{
		From:      alice,
		To:        forwardSC,
		Function:  "forwardSync",
		Arguments: args(adderSC[:], []byte("add"), []byte{7}),
		Expect:    scenario.Expect(),
	})
	require.Equal(t, []byte{12}, storageOf(t, runner, adderSC, SumKey))
}

func TestForwarder_ReadOnlyCallsCanNotWrite(t *testing.T) {
	runner := newForwarderRunner(t)
	write := &scenario.ScCallStep{
		From:      alice,
		To:        forwardSC,
		Function:  "forwardReadOnly",
		Arguments: args(adderSC[:], []byte("add"), []byte{7}),
	}
	read := &scenario.ScCallStep{
		From:      alice,
		To:        forwardSC,
		Function:  "forwardReadOnly",
		Arguments: args(adderSC[:], []byte("getSum")),
		Expect:    scenario.Expect([]byte{5}),
	}
	run(t, runner, write, read)
	require.NotEqual(t, fidelio.Ok, write.Response.Status)
	require.Equal(t, []byte{5}, storageOf(t, runner, adderSC, SumKey))
}

func TestForwarder_AsyncCallsReportToCallback(t *testing.T) {
	runner := newForwarderRunner(t)
	call := &scenario.ScCallStep{
		From:      alice,
		To:        forwardSC,
		Function:  "forwardAsync",
		Arguments: args(adderSC[:], []byte("add"), []byte{3}),
		Expect:    scenario.Expect(),
	}
	run(t, runner, call)
	require.Equal(t, []byte{8}, storageOf(t, runner, adderSC, SumKey))
	require.Empty(t, storageOf(t, runner, forwardSC, CallbackStatusKey))

	logs := call.Response.Logs
	require.NotEmpty(t, logs)
	last := logs[len(logs)-1]
	require.Equal(t, "callBack", last.Identifier)
	require.Equal(t, hexutil.Bytes(adderSC[:]), last.Topics[1])
}

func TestForwarder_FailedAsyncCallsAreRolledBackAndReported(t *testing.T) {
	runner := newForwarderRunner(t)
	run(t, runner, &scenario.ScCallStep{
		From:      alice,
		To:        forwardSC,
		Function:  "forwardAsync",
		Arguments: args(adderSC[:], []byte("add")),
		Expect:    scenario.Expect(),
	})
	require.Equal(t, []byte{5}, storageOf(t, runner, adderSC, SumKey))
	require.Equal(t, fidelio.UserError.Bytes(), storageOf(t, runner, forwardSC, CallbackStatusKey))
	require.Equal(t, []byte("wrong number of arguments"), storageOf(t, runner, forwardSC, CallbackDataKey))
}

func TestForwarder_TransfersPayments(t *testing.T) {
	runner := newForwarderRunner(t)
	run(t, runner,
		&scenario.ScCallStep{
			From:      alice,
			To:        forwardSC,
			Function:  "forwardTransfer",
			Arguments: args(bob[:]),
			Payment:   fidelio.Payment{EGLD: fidelio.NewValue(10)},
			Expect:    scenario.Expect(),
		},
		&scenario.CheckStateStep{Accounts: []scenario.AccountExpect{
			{Address: alice, Balance: valueOf(990)},
			{Address: bob, Balance: valueOf(10)},
			{Address: forwardSC, Balance: valueOf(0)},
		}},
	)
}

func TestForwarder_DeploysOwnedChildren(t *testing.T) {
	runner := newForwarderRunner(t)
	child := world.NewContractAddress(forwardSC, 0)
	run(t, runner,
		&scenario.ScCallStep{
			From:      alice,
			To:        forwardSC,
			Function:  "deployChild",
			Arguments: args([]byte(AdderCode), []byte{9}),
			Expect:    scenario.Expect(child[:]),
		},
		&scenario.CheckStateStep{Accounts: []scenario.AccountExpect{{
			Address: child,
			Owner:   &forwardSC,
			Storage: map[string]hexutil.Bytes{"sum": {9}},
		}}},
	)
}

func TestForwarder_FailingChildDeployFailsTransaction(t *testing.T) {
	runner := newForwarderRunner(t)
	run(t, runner, &scenario.ScCallStep{
		From:      alice,
		To:        forwardSC,
		Function:  "deployChild",
		Arguments: args([]byte(FailingInitCode)),
		Expect:    scenario.ExpectFailure(fidelio.UserError, "init failed on purpose"),
	})
	_, found := runner.World().Account(world.NewContractAddress(forwardSC, 0))
	require.False(t, found)
	account, _ := runner.World().Account(forwardSC)
	require.Equal(t, uint64(0), account.Nonce)
}

func valueOf(v uint64) *fidelio.Value {
	res := fidelio.NewValue(v)
	return &res
}
