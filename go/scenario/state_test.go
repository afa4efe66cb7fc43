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
	"encoding/json"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/stretchr/testify/require"
)

func TestAccountState_ConversionPreservesAccounts(t *testing.T) {
	require := require.New(t)
	nft := fidelio.TokenKey{Identifier: "NFT-abcdef", Nonce: 3}

	account := world.NewAccount(counter)
	account.Nonce = 4
	account.Balance = fidelio.NewValue(100)
	account.DeveloperRewards = fidelio.NewValue(2)
	account.SetCode(fidelio.Code(counterCode))
	account.CodeMetadata = []byte{0x05, 0x00}
	account.Owner = alice
	account.Username = []byte("counter.elrond")
	account.SetStorage([]byte("key"), []byte{1, 2})
	account.SetStorage([]byte{0xff, 0x00}, []byte{3})
	account.AddRoles(testToken, fidelio.RoleLocalMint, fidelio.RoleLocalBurn)
	account.LastNonces = map[fidelio.TokenIdentifier]uint64{nft.Identifier: 3}
	require.NoError(account.IncreaseTokenBalance(fidelio.TokenKey{Identifier: testToken}, fidelio.NewValue(7)))
	instance := account.UpsertToken(nft)
	instance.Balance = fidelio.NewValue(1)
	instance.Frozen = true
	instance.Metadata = &world.TokenMetadata{
		Name:       []byte("name"),
		Creator:    alice,
		Royalties:  500,
		Hash:       []byte("hash"),
		URIs:       [][]byte{[]byte("uri")},
		Attributes: []byte("attributes"),
	}

	state := NewAccountState(account)
	data, err := json.Marshal(state)
	require.NoError(err)
	var decoded AccountState
	require.NoError(decodeStrict(data, &decoded))

	restored, err := decoded.ToAccount()
	require.NoError(err)
	require.True(account.Equal(restored), "differences: %v", account.Diff("", restored))
	require.Equal(account.CodeHash, restored.CodeHash)
}

func TestAccountState_TokensAreSorted(t *testing.T) {
	account := world.NewAccount(alice)
	for _, key := range []fidelio.TokenKey{
		{Identifier: "BBB-000000"},
		{Identifier: "AAA-000000", Nonce: 2},
		{Identifier: "AAA-000000", Nonce: 1},
	} {
		require.NoError(t, account.IncreaseTokenBalance(key, fidelio.NewValue(1)))
	}
	state := NewAccountState(account)
	var got []string
	for _, token := range state.Tokens {
		got = append(got, fidelio.TokenKey{Identifier: token.Token, Nonce: token.Nonce}.String())
	}
	require.Equal(t, []string{"AAA-000000-01", "AAA-000000-02", "BBB-000000"}, got)
}

func TestDecodeStorageKey(t *testing.T) {
	tests := map[string][]byte{
		"plain":  []byte("plain"),
		"0x01ff": {0x01, 0xff},
		"0x":     {},
	}
	for key, want := range tests {
		got, err := decodeStorageKey(key)
		if err != nil {
			t.Fatalf("failed to decode %q: %v", key, err)
		}
		require.Equal(t, want, got)
	}
	if _, err := decodeStorageKey("0x1"); err == nil {
		t.Errorf("expected odd-length hex key to be rejected")
	}
}
