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
	"errors"
	"sync"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/stretchr/testify/require"
	"pgregory.net/rand"
)

func TestWorld_AccountsAreCopied(t *testing.T) {
	world := NewWorld()
	account := &Account{Address: alice, Nonce: 1}
	world.SetAccount(account)
	account.Nonce = 2

	stored, found := world.Account(alice)
	if !found {
		t.Fatalf("account not found")
	}
	if want, got := uint64(1), stored.Nonce; want != got {
		t.Errorf("unexpected nonce, wanted %d, got %d", want, got)
	}
	stored.Nonce = 3
	stored, _ = world.Account(alice)
	if want, got := uint64(1), stored.Nonce; want != got {
		t.Errorf("unexpected nonce, wanted %d, got %d", want, got)
	}
}

func TestWorld_AccountsAreListedInOrder(t *testing.T) {
	world := newTestWorld(&Account{Address: fidelio.Address{3}}, &Account{Address: fidelio.Address{1}}, &Account{Address: fidelio.Address{2}})
	accounts := world.Accounts()
	if want, got := 3, len(accounts); want != got {
		t.Fatalf("unexpected number of accounts, wanted %d, got %d", want, got)
	}
	for i, account := range accounts {
		if want, got := byte(i+1), account.Address[0]; want != got {
			t.Errorf("unexpected account at position %d, wanted %d, got %d", i, want, got)
		}
	}
}

func TestWorld_IncrementNonce(t *testing.T) {
	world := newTestWorld(&Account{Address: alice})
	if err := world.IncrementNonce(alice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	account, _ := world.Account(alice)
	if want, got := uint64(1), account.Nonce; want != got {
		t.Errorf("unexpected nonce, wanted %d, got %d", want, got)
	}
	if err := world.IncrementNonce(bob); !errors.Is(err, fidelio.ErrAccountNotFound) {
		t.Errorf("expected account not found, got %v", err)
	}
}

func TestWorld_ValidatorRewardsAccumulate(t *testing.T) {
	require := require.New(t)
	world := newTestWorld(&Account{Address: alice, Balance: fidelio.NewValue(5)})

	require.NoError(world.IncreaseValidatorReward(alice, fidelio.NewValue(100)))
	require.NoError(world.IncreaseValidatorReward(alice, fidelio.NewValue(50)))

	account, _ := world.Account(alice)
	require.Equal(fidelio.NewValue(155), account.Balance)
	require.Equal(fidelio.NewValue(150).Bytes(), account.GetStorage([]byte(ValidatorRewardKey)))

	require.ErrorIs(world.IncreaseValidatorReward(bob, fidelio.NewValue(1)), fidelio.ErrAccountNotFound)
}

func TestWorld_BlockInfo(t *testing.T) {
	world := NewWorld()
	previous := fidelio.BlockInfo{Nonce: 1}
	current := fidelio.BlockInfo{Nonce: 2, Timestamp: 1000}
	world.SetBlockInfo(previous, current)
	gotPrevious, gotCurrent := world.BlockInfo()
	if previous != gotPrevious || current != gotCurrent {
		t.Errorf("unexpected block info, wanted %v/%v, got %v/%v", previous, current, gotPrevious, gotCurrent)
	}
}

func TestWorld_ConcurrentCommitsOfDisjointAccounts(t *testing.T) {
	const N = 16
	world := NewWorld()
	for i := 0; i < N; i++ {
		world.SetAccount(&Account{Address: fidelio.Address{byte(i)}})
	}

	var wg sync.WaitGroup
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache := world.NewCache()
			_ = cache.Update(fidelio.Address{byte(i)}, func(a *Account) error {
				a.Nonce = uint64(i)
				return nil
			})
			update, _ := cache.IntoUpdate()
			world.Commit(update)
		}(i)
	}
	wg.Wait()

	for i := 0; i < N; i++ {
		account, _ := world.Account(fidelio.Address{byte(i)})
		if want, got := uint64(i), account.Nonce; want != got {
			t.Errorf("unexpected nonce of account %d, wanted %d, got %d", i, want, got)
		}
	}
}

// TestWorld_SequentialCachesMatchDirectExecution checks that running two
// transactions in independent caches, committing the first before the second
// reads, yields the same ledger as running them in sequence.
func TestWorld_SequentialCachesMatchDirectExecution(t *testing.T) {
	rnd := rand.New(42)
	for i := 0; i < 100; i++ {
		amountA := fidelio.NewValue(rnd.Uint64n(1000))
		amountB := fidelio.NewValue(rnd.Uint64n(1000))
		initial := fidelio.NewValue(1000)

		transfer := func(world *World, from, to fidelio.Address, amount fidelio.Value) {
			cache := world.NewCache()
			if err := cache.TransferEGLD(from, to, amount); err != nil {
				cache.Discard()
				return
			}
			update, _ := cache.IntoUpdate()
			world.Commit(update)
		}

		direct := newTestWorld(&Account{Address: alice, Balance: initial}, &Account{Address: bob, Balance: initial})
		transfer(direct, alice, bob, amountA)
		transfer(direct, bob, alice, amountB)

		layered := newTestWorld(&Account{Address: alice, Balance: initial}, &Account{Address: bob, Balance: initial})
		first := layered.NewCache()
		if err := first.TransferEGLD(alice, bob, amountA); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		update, _ := first.IntoUpdate()
		layered.Commit(update)
		second := layered.NewCache()
		if err := second.TransferEGLD(bob, alice, amountB); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		update, _ = second.IntoUpdate()
		layered.Commit(update)

		for _, address := range []fidelio.Address{alice, bob} {
			want, _ := direct.Account(address)
			got, _ := layered.Account(address)
			if !want.Equal(got) {
				t.Errorf("ledgers differ: %v", want.Diff("", got))
			}
		}
	}
}
