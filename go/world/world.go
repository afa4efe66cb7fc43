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
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/exp/maps"
)

// ValidatorRewardKey is the storage key accumulating the rewards received by
// a validator account.
const ValidatorRewardKey = "ELRONDreward"

// Source is a provider of accounts a Cache can be layered on. Sources are
// either a World or a parent Cache.
type Source interface {
	// account obtains a private copy of the given account.
	account(fidelio.Address) (*Account, bool)
	// newAddress obtains an explicitly registered deploy address.
	newAddress(NewAddressKey) (fidelio.Address, bool)
	// addressConsumed reports whether a deploy address was derived for the key.
	addressConsumed(NewAddressKey) bool
	// tokenIdentifier obtains the queued identifier at the given offset.
	tokenIdentifier(offset int) (fidelio.TokenIdentifier, bool)
	// tokenCount is the number of tokens issued so far.
	tokenCount() uint64
}

type handle int

// World is the ledger shared by all transactions of a scenario. Accounts are
// held in an indexed table and addressed through handles. Transactions never
// modify the world directly; they operate on a Cache whose exported Update
// is merged through Commit. All methods are safe for concurrent use.
type World struct {
	mu           sync.Mutex
	accounts     []*Account
	handles      map[fidelio.Address]handle
	newAddresses map[NewAddressKey]fidelio.Address
	consumed     map[NewAddressKey]fidelio.Address
	tokenQueue   []fidelio.TokenIdentifier
	issued       uint64
	previous     fidelio.BlockInfo
	current      fidelio.BlockInfo
	log          log.Logger
}

// NewWorld creates an empty ledger.
func NewWorld() *World {
	return &World{
		handles:      map[fidelio.Address]handle{},
		newAddresses: map[NewAddressKey]fidelio.Address{},
		consumed:     map[NewAddressKey]fidelio.Address{},
		log:          log.New("module", "world"),
	}
}

// NewCache creates a transaction-scoped cache on top of this ledger.
func (w *World) NewCache() *Cache {
	return NewCache(w)
}

// SetAccount inserts or replaces the given account.
func (w *World) SetAccount(account *Account) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.put(account.Clone())
}

// Account obtains a copy of the account with the given address.
func (w *World) Account(address fidelio.Address) (*Account, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	h, found := w.handles[address]
	if !found {
		return nil, false
	}
	return w.accounts[h].Clone(), true
}

// Accounts obtains copies of all accounts, ordered by address.
func (w *World) Accounts() []*Account {
	w.mu.Lock()
	defer w.mu.Unlock()
	res := make([]*Account, 0, len(w.accounts))
	for _, account := range w.accounts {
		res = append(res, account.Clone())
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Address[:], res[j].Address[:]) < 0
	})
	return res
}

// PutNewAddress registers the address to be used for the contract deployed by
// the given creator with the given pre-increment nonce.
func (w *World) PutNewAddress(creator fidelio.Address, nonce uint64, address fidelio.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.newAddresses[NewAddressKey{Creator: creator, Nonce: nonce}] = address
}

// PushNewTokenIdentifier queues an identifier to be used by the next token
// issue. Queued identifiers are consumed in order.
func (w *World) PushNewTokenIdentifier(id fidelio.TokenIdentifier) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tokenQueue = append(w.tokenQueue, id)
}

// IncrementNonce increments the nonce of the given account. Runners call it
// before executing an outgoing transaction; the increment is kept even if the
// transaction fails.
func (w *World) IncrementNonce(address fidelio.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	h, found := w.handles[address]
	if !found {
		return fmt.Errorf("%w: %v", fidelio.ErrAccountNotFound, address)
	}
	w.accounts[h].Nonce++
	return nil
}

// IncreaseValidatorReward credits a validator reward to the given account,
// raising both its balance and its accumulated reward storage entry.
func (w *World) IncreaseValidatorReward(address fidelio.Address, value fidelio.Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	h, found := w.handles[address]
	if !found {
		return fmt.Errorf("%w: %v", fidelio.ErrAccountNotFound, address)
	}
	account := w.accounts[h].Clone()
	if err := account.IncreaseBalance(value); err != nil {
		return err
	}
	previous, err := fidelio.ValueFromBytes(account.GetStorage([]byte(ValidatorRewardKey)))
	if err != nil {
		return fmt.Errorf("corrupted reward entry of %v: %w", address, err)
	}
	reward, overflow := fidelio.AddChecked(previous, value)
	if overflow {
		return fmt.Errorf("%w: reward of %v overflows", fidelio.ErrInvalidArguments, address)
	}
	account.SetStorage([]byte(ValidatorRewardKey), reward.Bytes())
	w.accounts[h] = account
	return nil
}

// SetBlockInfo updates the previous and current block information.
func (w *World) SetBlockInfo(previous, current fidelio.BlockInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.previous = previous
	w.current = current
}

// BlockInfo obtains the previous and current block information.
func (w *World) BlockInfo() (previous, current fidelio.BlockInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.previous, w.current
}

// Commit merges the changes of a transaction into the ledger.
func (w *World) Commit(update *Update) {
	if update == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, address := range update.Addresses() {
		w.put(update.Accounts[address])
	}
	maps.Copy(w.consumed, update.NewAddresses)
	for range update.IssuedTokens {
		if len(w.tokenQueue) > 0 {
			w.tokenQueue = w.tokenQueue[1:]
		}
	}
	w.issued += uint64(len(update.IssuedTokens))
	w.log.Trace("Committed update", "accounts", len(update.Accounts), "tokens", len(update.IssuedTokens))
}

// put stores the given account, which must not be shared with any other
// component. The caller must hold the lock.
func (w *World) put(account *Account) {
	if h, found := w.handles[account.Address]; found {
		w.accounts[h] = account
		return
	}
	w.handles[account.Address] = handle(len(w.accounts))
	w.accounts = append(w.accounts, account)
}

func (w *World) account(address fidelio.Address) (*Account, bool) {
	return w.Account(address)
}

func (w *World) newAddress(key NewAddressKey) (fidelio.Address, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	address, found := w.newAddresses[key]
	return address, found
}

func (w *World) addressConsumed(key NewAddressKey) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, found := w.consumed[key]
	return found
}

func (w *World) tokenIdentifier(offset int) (fidelio.TokenIdentifier, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if offset < len(w.tokenQueue) {
		return w.tokenQueue[offset], true
	}
	return "", false
}

func (w *World) tokenCount() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.issued
}
