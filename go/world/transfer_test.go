// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package world

import (
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/stretchr/testify/require"
)

func TestCache_TransferEGLDCreatesUserAccounts(t *testing.T) {
	require := require.New(t)
	world := newTestWorld(&Account{Address: alice, Balance: fidelio.NewValue(10)})
	cache := world.NewCache()

	require.NoError(cache.TransferEGLD(alice, bob, fidelio.NewValue(4)))
	balance, err := WithAccount(cache, bob, func(a *Account) fidelio.Value { return a.Balance })
	require.NoError(err)
	require.Equal(fidelio.NewValue(4), balance)

	contract := fidelio.SmartContractAddressFromName("missing")
	require.ErrorIs(cache.TransferEGLD(alice, contract, fidelio.NewValue(1)), fidelio.ErrAccountNotFound)
}

func TestCache_TransferEGLDFailsOnInsufficientFunds(t *testing.T) {
	require := require.New(t)
	world := newTestWorld(&Account{Address: alice, Balance: fidelio.NewValue(1)}, &Account{Address: bob})
	cache := world.NewCache()
	require.ErrorIs(cache.TransferEGLD(alice, bob, fidelio.NewValue(2)), fidelio.ErrInsufficientFunds)
}

func TestCache_TransferTokenMovesMetadata(t *testing.T) {
	require := require.New(t)
	key := fidelio.TokenKey{Identifier: "NFT-123456", Nonce: 1}
	sender := &Account{Address: alice}
	instance := sender.UpsertToken(key)
	instance.Balance = fidelio.NewValue(1)
	instance.Metadata = &TokenMetadata{Name: []byte("first"), Creator: alice}
	world := newTestWorld(sender, &Account{Address: bob})

	cache := world.NewCache()
	require.NoError(cache.TransferToken(alice, bob, fidelio.TokenTransfer{Token: key.Identifier, Nonce: 1, Amount: fidelio.NewValue(1)}))

	received, err := WithAccount(cache, bob, func(a *Account) *TokenInstance { return a.Token(key).Clone() })
	require.NoError(err)
	require.Equal(fidelio.NewValue(1), received.Balance)
	require.Equal([]byte("first"), received.Metadata.Name)

	sent, err := WithAccount(cache, alice, func(a *Account) *TokenInstance { return a.Token(key) })
	require.NoError(err)
	require.Nil(sent)
}

func TestCache_TransferTokenRejectsFrozenInstances(t *testing.T) {
	require := require.New(t)
	sender := &Account{Address: alice}
	instance := sender.UpsertToken(testToken)
	instance.Balance = fidelio.NewValue(5)
	instance.Frozen = true
	world := newTestWorld(sender, &Account{Address: bob})

	cache := world.NewCache()
	err := cache.TransferToken(alice, bob, fidelio.TokenTransfer{Token: testToken.Identifier, Amount: fidelio.NewValue(1)})
	require.ErrorIs(err, fidelio.ErrFrozen)
}

func TestCache_TransferTokenRejectsInvalidTransfers(t *testing.T) {
	world := newTestWorld(&Account{Address: alice}, &Account{Address: bob})
	cache := world.NewCache()
	tests := map[string]fidelio.TokenTransfer{
		"invalid identifier": {Token: "bad", Amount: fidelio.NewValue(1)},
		"zero amount":        {Token: testToken.Identifier},
	}
	for name, transfer := range tests {
		t.Run(name, func(t *testing.T) {
			if err := cache.TransferToken(alice, bob, transfer); err == nil {
				t.Errorf("expected transfer to fail")
			}
		})
	}
}
