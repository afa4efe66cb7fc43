// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package builtin

import (
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/stretchr/testify/require"
)

func TestNFTCreate_AssignsIncreasingNonces(t *testing.T) {
	require := require.New(t)
	cache := newTestCache(&world.Account{Address: contract, Code: fidelio.Code("code")})

	create := func(attributes string) fidelio.TxResult {
		return execute(t, cache, fidelio.TxInput{
			From:     contract,
			To:       contract,
			Function: ESDTNFTCreate,
			Args:     [][]byte{[]byte(testNFT), {1}, []byte("name"), {0x01, 0xf4}, []byte("hash"), []byte(attributes), []byte("uri")},
		}, Config{})
	}

	for i, attributes := range []string{"first", "second"} {
		res := create(attributes)
		require.True(res.Succeeded(), res.Message)
		nonce := fidelio.NonceBytes(uint64(i + 1))
		require.Equal([][]byte{nonce}, res.Output)
		require.Len(res.Logs, 1)
		require.Equal([][]byte{[]byte(testNFT), nonce, {1}}, res.Logs[0].Topics)
		require.Equal([][]byte{[]byte(attributes)}, res.Logs[0].Data)
	}

	instance, err := world.WithAccount(cache, contract, func(a *world.Account) *world.TokenInstance {
		return a.Token(fidelio.TokenKey{Identifier: testNFT, Nonce: 2}).Clone()
	})
	require.NoError(err)
	require.Equal(fidelio.NewValue(1), instance.Balance)
	require.Equal(uint64(500), instance.Metadata.Royalties)
	require.Equal(contract, instance.Metadata.Creator)
	require.Equal([]byte("second"), instance.Metadata.Attributes)
	require.Equal([][]byte{[]byte("uri")}, instance.Metadata.URIs)
}

func TestNFT_QuantityAndAttributeUpdates(t *testing.T) {
	require := require.New(t)
	key := fidelio.TokenKey{Identifier: testNFT, Nonce: 1}
	account := &world.Account{Address: alice}
	account.UpsertToken(key).Balance = fidelio.NewValue(5)
	cache := newTestCache(account)

	res := execute(t, cache, fidelio.TxInput{To: alice, Function: ESDTNFTAddQuantity, Args: [][]byte{[]byte(testNFT), {1}, {3}}}, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal(fidelio.NewValue(8), tokenBalance(t, cache, alice, key))

	res = execute(t, cache, fidelio.TxInput{To: alice, Function: ESDTNFTBurn, Args: [][]byte{[]byte(testNFT), {1}, {2}}}, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal(fidelio.NewValue(6), tokenBalance(t, cache, alice, key))
	require.Equal([][]byte{[]byte(testNFT), {1}, {2}}, res.Logs[0].Topics)

	res = execute(t, cache, fidelio.TxInput{To: alice, Function: ESDTNFTUpdateAttributes, Args: [][]byte{[]byte(testNFT), {1}, []byte("attr")}}, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal([][]byte{[]byte(testNFT), {1}, {}, []byte("attr")}, res.Logs[0].Topics)

	res = execute(t, cache, fidelio.TxInput{To: alice, Function: ESDTNFTAddQuantity, Args: [][]byte{[]byte(testNFT), {2}, {3}}}, Config{})
	require.Equal(fidelio.ExecutionFailed, res.Status)
}

func TestFreeze_FrozenTokensCanNotBeTransferred(t *testing.T) {
	require := require.New(t)
	key := fidelio.TokenKey{Identifier: testToken}
	account := &world.Account{Address: alice}
	account.UpsertToken(key).Balance = fidelio.NewValue(10)
	cache := newTestCache(account, &world.Account{Address: bob})

	res := execute(t, cache, fidelio.TxInput{To: alice, Function: ESDTFreeze, Args: args(string(testToken))}, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal([][]byte{[]byte(testToken), {}, {10}, alice[:]}, res.Logs[0].Topics)

	transfer := fidelio.TxInput{
		From:     alice,
		To:       bob,
		Function: ESDTTransfer,
		Args:     [][]byte{[]byte(testToken), {1}},
	}
	res = execute(t, cache, transfer, Config{})
	require.Equal(fidelio.ExecutionFailed, res.Status)
	require.Contains(res.Message, "frozen")

	res = execute(t, cache, fidelio.TxInput{To: alice, Function: ESDTUnFreeze, Args: args(string(testToken))}, Config{})
	require.True(res.Succeeded(), res.Message)

	res = execute(t, cache, transfer, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal(fidelio.NewValue(9), tokenBalance(t, cache, alice, key))
	require.Equal(fidelio.NewValue(1), tokenBalance(t, cache, bob, key))
}

func TestWipe_RemovesFrozenBalance(t *testing.T) {
	require := require.New(t)
	key := fidelio.TokenKey{Identifier: testToken}
	account := &world.Account{Address: alice}
	instance := account.UpsertToken(key)
	instance.Balance = fidelio.NewValue(42)
	instance.Frozen = true
	cache := newTestCache(account)

	res := execute(t, cache, fidelio.TxInput{To: alice, Function: ESDTWipe, Args: args(string(testToken))}, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal([][]byte{[]byte(testToken), {}, {42}, alice[:]}, res.Logs[0].Topics)

	held, err := world.WithAccount(cache, alice, func(a *world.Account) bool { return a.Token(key) != nil })
	require.NoError(err)
	require.False(held)
}

func TestParseTransfer_DecodesFollowUpCalls(t *testing.T) {
	tests := map[string]struct {
		input fidelio.TxInput
		want  Transfer
	}{
		"fungible": {
			input: fidelio.TxInput{From: alice, To: bob, Function: ESDTTransfer, Args: [][]byte{[]byte(testToken), {5}}},
			want: Transfer{Sender: alice, Receiver: bob, Tokens: []fidelio.TokenTransfer{
				{Token: testToken, Amount: fidelio.NewValue(5)},
			}},
		},
		"fungible with call": {
			input: fidelio.TxInput{From: alice, To: contract, Function: ESDTTransfer, Args: [][]byte{[]byte(testToken), {5}, []byte("deposit"), {1}}},
			want: Transfer{Sender: alice, Receiver: contract, Function: "deposit", Args: [][]byte{{1}}, Tokens: []fidelio.TokenTransfer{
				{Token: testToken, Amount: fidelio.NewValue(5)},
			}},
		},
		"nft": {
			input: fidelio.TxInput{From: alice, To: alice, Function: ESDTNFTTransfer, Args: [][]byte{[]byte(testNFT), {3}, {1}, bob[:]}},
			want: Transfer{Sender: alice, Receiver: bob, Tokens: []fidelio.TokenTransfer{
				{Token: testNFT, Nonce: 3, Amount: fidelio.NewValue(1)},
			}},
		},
		"multi": {
			input: fidelio.TxInput{From: alice, To: alice, Function: MultiESDTNFTTransfer, Args: [][]byte{
				contract[:], {2}, []byte(testToken), {}, {7}, []byte(testNFT), {3}, {1}, []byte("claim"),
			}},
			want: Transfer{Sender: alice, Receiver: contract, Function: "claim", Args: [][]byte{}, Tokens: []fidelio.TokenTransfer{
				{Token: testToken, Amount: fidelio.NewValue(7)},
				{Token: testNFT, Nonce: 3, Amount: fidelio.NewValue(1)},
			}},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseTransfer(test.input)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestMultiTransfer_EmitsOneLogPerTransfer(t *testing.T) {
	require := require.New(t)
	account := &world.Account{Address: alice}
	account.UpsertToken(fidelio.TokenKey{Identifier: testToken}).Balance = fidelio.NewValue(10)
	account.UpsertToken(fidelio.TokenKey{Identifier: testNFT, Nonce: 3}).Balance = fidelio.NewValue(1)
	cache := newTestCache(account)

	res := execute(t, cache, fidelio.TxInput{From: alice, To: alice, Function: MultiESDTNFTTransfer, Args: [][]byte{
		bob[:], {2}, []byte(testToken), {}, {7}, []byte(testNFT), {3}, {1},
	}}, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Len(res.Logs, 2)
	require.Equal([][]byte{[]byte(testToken), {}, {7}, bob[:]}, res.Logs[0].Topics)
	require.Equal([][]byte{[]byte(testNFT), {3}, {1}, bob[:]}, res.Logs[1].Topics)
	require.Equal(fidelio.NewValue(7), tokenBalance(t, cache, bob, fidelio.TokenKey{Identifier: testToken}))
	require.Equal(fidelio.NewValue(1), tokenBalance(t, cache, bob, fidelio.TokenKey{Identifier: testNFT, Nonce: 3}))
}

func TestMultiTransfer_IsAtomic(t *testing.T) {
	require := require.New(t)
	account := &world.Account{Address: alice}
	account.UpsertToken(fidelio.TokenKey{Identifier: testToken}).Balance = fidelio.NewValue(10)
	cache := newTestCache(account)

	res := execute(t, cache, fidelio.TxInput{From: alice, To: alice, Function: MultiESDTNFTTransfer, Args: [][]byte{
		bob[:], {2}, []byte(testToken), {}, {7}, []byte(testNFT), {3}, {1},
	}}, Config{})
	require.Equal(fidelio.OutOfFunds, res.Status)
	require.Equal(fidelio.NewValue(10), tokenBalance(t, cache, alice, fidelio.TokenKey{Identifier: testToken}))
	require.False(cache.AccountExists(bob))
}

func TestChangeOwnerAddress_OnlyOwnerMayChangeOwner(t *testing.T) {
	require := require.New(t)
	cache := newTestCache(&world.Account{Address: contract, Code: fidelio.Code("code"), Owner: alice})
	input := fidelio.TxInput{From: bob, To: contract, Function: ChangeOwnerAddress, Args: [][]byte{bob[:]}}

	res := execute(t, cache, input, Config{})
	require.Equal(fidelio.UserError, res.Status)

	input.From = alice
	res = execute(t, cache, input, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal([][]byte{{}, {}, {}, bob[:]}, res.Logs[0].Topics)

	owner, err := world.WithAccount(cache, contract, func(a *world.Account) fidelio.Address { return a.Owner })
	require.NoError(err)
	require.Equal(bob, owner)
}

func TestUserName_CanBeSetOnceAndDeleted(t *testing.T) {
	require := require.New(t)
	cache := newTestCache(&world.Account{Address: alice})
	set := fidelio.TxInput{To: alice, Function: SetUserName, Args: args("alice.elrond")}

	res := execute(t, cache, set, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal([][]byte{[]byte("alice.elrond")}, res.Logs[0].Topics)

	res = execute(t, cache, set, Config{})
	require.Equal(fidelio.ExecutionFailed, res.Status)

	res = execute(t, cache, fidelio.TxInput{To: alice, Function: DeleteUserName}, Config{})
	require.True(res.Succeeded(), res.Message)

	username, err := world.WithAccount(cache, alice, func(a *world.Account) []byte { return a.Username })
	require.NoError(err)
	require.Empty(username)

	res = execute(t, cache, set, Config{})
	require.True(res.Succeeded(), res.Message)
}

func TestClaimDeveloperRewards_PaysOwner(t *testing.T) {
	require := require.New(t)
	cache := newTestCache(
		&world.Account{Address: contract, Code: fidelio.Code("code"), Owner: alice, DeveloperRewards: fidelio.NewValue(30)},
		&world.Account{Address: alice, Balance: fidelio.NewValue(5)},
	)

	res := execute(t, cache, fidelio.TxInput{From: bob, To: contract, Function: ClaimDeveloperRewards}, Config{})
	require.Equal(fidelio.UserError, res.Status)

	res = execute(t, cache, fidelio.TxInput{From: alice, To: contract, Function: ClaimDeveloperRewards}, Config{})
	require.True(res.Succeeded(), res.Message)
	require.Equal([][]byte{{}, {}, {30}, alice[:]}, res.Logs[0].Topics)

	balance, err := world.WithAccount(cache, alice, func(a *world.Account) fidelio.Value { return a.Balance })
	require.NoError(err)
	require.Equal(fidelio.NewValue(35), balance)
}
