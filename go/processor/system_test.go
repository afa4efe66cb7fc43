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
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/stretchr/testify/require"
)

func issueToken(t *testing.T, processor *Processor, state *world.World, supply uint64) fidelio.TokenIdentifier {
	t.Helper()
	result := run(t, processor, state, fidelio.TxInput{
		From:     alice,
		To:       ESDTSystemSCAddress(),
		Function: IssueFunction,
		Args:     [][]byte{[]byte("Token"), []byte("TKN"), fidelio.NewValue(supply).Bytes(), {18}},
	})
	if !result.Succeeded() || len(result.Output) != 1 {
		t.Fatalf("failed to issue token: %v", result)
	}
	return fidelio.TokenIdentifier(result.Output[0])
}

func TestSystemContract_AddressIsSmartContract(t *testing.T) {
	if !ESDTSystemSCAddress().IsSmartContract() {
		t.Errorf("system contract address is not a smart contract address")
	}
}

func TestSystemContract_IssueCreatesToken(t *testing.T) {
	require := require.New(t)
	state := newTestWorld(world.NewAccount(alice))
	processor := newTestProcessor(t, Config{})

	result := run(t, processor, state, fidelio.TxInput{
		From:     alice,
		To:       ESDTSystemSCAddress(),
		Function: IssueFunction,
		Args:     [][]byte{[]byte("Token"), []byte("TKN"), {100}, {18}},
	})
	require.True(result.Succeeded(), result.String())
	require.Len(result.Output, 1)
	id := fidelio.TokenIdentifier(result.Output[0])
	require.NoError(id.Validate())
	require.Equal("TKN", id.Ticker())

	require.Len(result.Logs, 1)
	require.Equal(IssueFunction, result.Logs[0].Identifier)
	require.Equal([]byte(id), result.Logs[0].Topics[0])

	account, _ := state.Account(alice)
	require.Equal(fidelio.NewValue(100), account.TokenBalance(fidelio.TokenKey{Identifier: id}))

	// A second token of the same ticker gets a different identifier.
	other := issueToken(t, processor, state, 0)
	require.NotEqual(id, other)
}

func TestSystemContract_IssueUsesQueuedIdentifiers(t *testing.T) {
	state := newTestWorld(world.NewAccount(alice))
	state.PushNewTokenIdentifier("TKN-123456")

	id := issueToken(t, newTestProcessor(t, Config{}), state, 5)
	if want, got := fidelio.TokenIdentifier("TKN-123456"), id; want != got {
		t.Errorf("unexpected identifier, wanted %v, got %v", want, got)
	}
}

func TestSystemContract_IssueOfAllTokenTypes(t *testing.T) {
	for _, function := range []string{IssueSemiFungibleFunction, IssueNonFungibleFunction, RegisterMetaESDTFunction} {
		t.Run(function, func(t *testing.T) {
			state := newTestWorld(world.NewAccount(alice))
			result := run(t, newTestProcessor(t, Config{}), state, fidelio.TxInput{
				From:     alice,
				To:       ESDTSystemSCAddress(),
				Function: function,
				Args:     [][]byte{[]byte("Collection"), []byte("COL")},
			})
			if !result.Succeeded() {
				t.Fatalf("unexpected failure: %v", result)
			}
			if want, got := function, result.Logs[0].Identifier; want != got {
				t.Errorf("unexpected log identifier, wanted %s, got %s", want, got)
			}
		})
	}
}

func TestSystemContract_InvalidCallsFail(t *testing.T) {
	tests := map[string]struct {
		function string
		args     [][]byte
		want     fidelio.ReturnCode
	}{
		"unknown function": {function: "mint", want: fidelio.FunctionNotFound},
		"missing supply":   {function: IssueFunction, args: [][]byte{[]byte("Token"), []byte("TKN")}, want: fidelio.ExecutionFailed},
		"invalid ticker":   {function: IssueFunction, args: [][]byte{[]byte("Token"), []byte("tk"), {1}, {0}}, want: fidelio.ExecutionFailed},
		"empty name":       {function: IssueNonFungibleFunction, args: [][]byte{{}, []byte("TKN")}, want: fidelio.ExecutionFailed},
		"unknown token":    {function: FreezeFunction, args: [][]byte{[]byte("TKN-abcdef"), bob[:]}, want: fidelio.ExecutionFailed},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			state := newTestWorld(world.NewAccount(alice))
			result := run(t, newTestProcessor(t, Config{}), state, fidelio.TxInput{
				From:     alice,
				To:       ESDTSystemSCAddress(),
				Function: test.function,
				Args:     test.args,
			})
			if test.want != result.Status {
				t.Errorf("unexpected status, wanted %v, got %v (%s)", test.want, result.Status, result.Message)
			}
		})
	}
}

func TestSystemContract_SetSpecialRoleGeneratesBuiltinCall(t *testing.T) {
	require := require.New(t)
	state := newTestWorld(world.NewAccount(alice))
	processor := newTestProcessor(t, Config{EnforceRoles: true})
	id := issueToken(t, processor, state, 0)

	result := run(t, processor, state, fidelio.TxInput{
		From:     alice,
		To:       ESDTSystemSCAddress(),
		Function: SetSpecialRoleFunction,
		Args:     [][]byte{[]byte(id), bob[:], []byte(fidelio.RoleLocalMint)},
	})
	require.True(result.Succeeded(), result.String())
	require.Len(result.Records, 1)
	record := result.Records[0]
	require.Equal(ESDTSystemSCAddress(), record.From)
	require.Equal(bob, record.To)
	require.Equal(builtin.ESDTSetRole, record.Function)
	require.Equal(fidelio.Ok, record.Status)
	require.NotEmpty(record.Logs)
	require.Empty(result.Logs)

	account, found := state.Account(bob)
	require.True(found)
	require.True(account.HasRole(id, fidelio.RoleLocalMint))

	// With the role granted, bob may mint.
	result = run(t, processor, state, fidelio.TxInput{
		From:     bob,
		To:       bob,
		Function: builtin.ESDTLocalMint,
		Args:     [][]byte{[]byte(id), {50}},
	})
	require.True(result.Succeeded(), result.String())

	result = run(t, processor, state, fidelio.TxInput{
		From:     alice,
		To:       ESDTSystemSCAddress(),
		Function: UnSetSpecialRoleFunction,
		Args:     [][]byte{[]byte(id), bob[:], []byte(fidelio.RoleLocalMint)},
	})
	require.True(result.Succeeded(), result.String())
	account, _ = state.Account(bob)
	require.False(account.HasRole(id, fidelio.RoleLocalMint))
}

func TestSystemContract_OnlyOwnerMayManageToken(t *testing.T) {
	state := newTestWorld(world.NewAccount(alice), world.NewAccount(bob))
	processor := newTestProcessor(t, Config{})
	id := issueToken(t, processor, state, 10)

	result := run(t, processor, state, fidelio.TxInput{
		From:     bob,
		To:       ESDTSystemSCAddress(),
		Function: SetSpecialRoleFunction,
		Args:     [][]byte{[]byte(id), bob[:], []byte(fidelio.RoleLocalMint)},
	})
	if want, got := fidelio.UserError, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	account, _ := state.Account(bob)
	if account.HasRole(id, fidelio.RoleLocalMint) {
		t.Errorf("role was granted by non-owner")
	}
}

func TestSystemContract_FreezeAndWipe(t *testing.T) {
	require := require.New(t)
	state := newTestWorld(world.NewAccount(alice))
	processor := newTestProcessor(t, Config{})
	id := issueToken(t, processor, state, 100)
	key := fidelio.TokenKey{Identifier: id}

	result := run(t, processor, state, fidelio.TxInput{
		From:     alice,
		To:       bob,
		Function: builtin.ESDTTransfer,
		Args:     [][]byte{[]byte(id), {30}},
	})
	require.True(result.Succeeded(), result.String())

	manage := func(function string) fidelio.TxResult {
		return run(t, processor, state, fidelio.TxInput{
			From:     alice,
			To:       ESDTSystemSCAddress(),
			Function: function,
			Args:     [][]byte{[]byte(id), bob[:]},
		})
	}

	result = manage(FreezeFunction)
	require.True(result.Succeeded(), result.String())
	require.Len(result.Records, 1)
	require.Equal(builtin.ESDTFreeze, result.Records[0].Function)

	// Frozen balances can not be sent.
	result = run(t, processor, state, fidelio.TxInput{
		From:     bob,
		To:       alice,
		Function: builtin.ESDTTransfer,
		Args:     [][]byte{[]byte(id), {10}},
	})
	require.False(result.Succeeded())

	result = manage(WipeFunction)
	require.True(result.Succeeded(), result.String())
	account, _ := state.Account(bob)
	require.True(account.TokenBalance(key).IsZero())
}

func TestSystemContract_SingleNFTVariantsTakeNonce(t *testing.T) {
	state := newTestWorld(world.NewAccount(alice))
	processor := newTestProcessor(t, Config{})
	id := issueToken(t, processor, state, 10)

	result := run(t, processor, state, fidelio.TxInput{
		From:     alice,
		To:       ESDTSystemSCAddress(),
		Function: FreezeSingleNFTFunction,
		Args:     [][]byte{[]byte(id), bob[:]},
	})
	if want, got := fidelio.ExecutionFailed, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
}
