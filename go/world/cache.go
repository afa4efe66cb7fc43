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
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"golang.org/x/exp/maps"
)

// Cache is the exclusive mutation surface of a transaction. It lazily loads
// accounts from its source on first access and keeps all modifications
// private until they are exported through IntoUpdate. Caches created from the
// same source never observe each other's modifications.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	source       Source
	accounts     map[fidelio.Address]*Account
	dirty        map[fidelio.Address]struct{}
	newAddresses map[NewAddressKey]fidelio.Address
	issued       []fidelio.TokenIdentifier
	closed       bool
}

// NewCache creates an empty cache on top of the given source.
func NewCache(source Source) *Cache {
	return &Cache{
		source:       source,
		accounts:     map[fidelio.Address]*Account{},
		dirty:        map[fidelio.Address]struct{}{},
		newAddresses: map[NewAddressKey]fidelio.Address{},
	}
}

// Child creates a nested cache on top of this cache. Its changes become
// visible here only once merged through Merge.
func (c *Cache) Child() *Cache {
	return NewCache(c)
}

// View runs the given read-only function on the account with the given
// address. The function must not modify the account.
func (c *Cache) View(address fidelio.Address, view func(*Account) error) error {
	account, err := c.lookup(address)
	if err != nil {
		return err
	}
	return view(account)
}

// Update runs the given function on the account with the given address. The
// modifications become effective only if the function succeeds.
func (c *Cache) Update(address fidelio.Address, update func(*Account) error) error {
	account, err := c.lookup(address)
	if err != nil {
		return err
	}
	modified := account.Clone()
	if err := update(modified); err != nil {
		return err
	}
	c.accounts[address] = modified
	c.dirty[address] = struct{}{}
	return nil
}

// WithAccount runs the given function on the account with the given address
// and returns its result. The function must not modify the account.
func WithAccount[R any](c *Cache, address fidelio.Address, view func(*Account) R) (R, error) {
	var res R
	err := c.View(address, func(account *Account) error {
		res = view(account)
		return nil
	})
	return res, err
}

// WithAccountMut runs the given modifying function on the account with the
// given address and returns its result. Like Update, the modifications
// become effective only if the function succeeds.
func WithAccountMut[R any](c *Cache, address fidelio.Address, update func(*Account) (R, error)) (R, error) {
	var res R
	err := c.Update(address, func(account *Account) error {
		var err error
		res, err = update(account)
		return err
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return res, nil
}

// AccountExists reports whether an account with the given address is known.
func (c *Cache) AccountExists(address fidelio.Address) bool {
	_, err := c.lookup(address)
	return err == nil
}

// InsertAccount registers the given account unconditionally, replacing any
// previous version.
func (c *Cache) InsertAccount(account *Account) error {
	if c.closed {
		return fidelio.InvariantError("cache used after being exported or discarded")
	}
	c.accounts[account.Address] = account.Clone()
	c.dirty[account.Address] = struct{}{}
	return nil
}

// GetNewAddress derives the address of a contract deployed by the given
// creator. The creator's nonce must already be incremented for the deploy;
// the address is derived from the pre-increment nonce. Requesting the
// address of the same deploy twice is an engine invariant violation.
func (c *Cache) GetNewAddress(creator fidelio.Address) (fidelio.Address, error) {
	nonce, err := WithAccount(c, creator, func(account *Account) uint64 {
		return account.Nonce
	})
	if err != nil {
		return fidelio.Address{}, err
	}
	if nonce == 0 {
		return fidelio.Address{}, fidelio.InvariantError("new address requested for %v before its nonce was incremented", creator)
	}
	key := NewAddressKey{Creator: creator, Nonce: nonce - 1}
	if c.addressConsumed(key) {
		return fidelio.Address{}, fidelio.InvariantError("new address for %v requested twice", key)
	}
	address, found := c.source.newAddress(key)
	if !found {
		address = NewContractAddress(creator, key.Nonce)
	}
	c.newAddresses[key] = address
	return address, nil
}

// NextTokenIdentifier obtains the identifier for a newly issued token.
// Identifiers queued in the ledger are used first; afterwards identifiers
// are derived from the ticker and the number of tokens issued so far.
func (c *Cache) NextTokenIdentifier(ticker string) (fidelio.TokenIdentifier, error) {
	if c.closed {
		return "", fidelio.InvariantError("cache used after being exported or discarded")
	}
	id, found := c.source.tokenIdentifier(len(c.issued))
	if !found {
		id = newTokenIdentifier(ticker, c.tokenCount())
	}
	c.issued = append(c.issued, id)
	return id, nil
}

// IntoUpdate exports all modifications of this cache. The cache must not be
// used afterwards.
func (c *Cache) IntoUpdate() (*Update, error) {
	if c.closed {
		return nil, fidelio.InvariantError("cache exported twice")
	}
	c.closed = true
	res := &Update{
		Accounts:     make(map[fidelio.Address]*Account, len(c.dirty)),
		NewAddresses: c.newAddresses,
		IssuedTokens: c.issued,
	}
	for address := range c.dirty {
		res.Accounts[address] = c.accounts[address]
	}
	c.accounts = nil
	return res, nil
}

// Merge folds the update exported by a child cache into this cache.
func (c *Cache) Merge(update *Update) error {
	if c.closed {
		return fidelio.InvariantError("cache used after being exported or discarded")
	}
	if update == nil {
		return nil
	}
	for address, account := range update.Accounts {
		c.accounts[address] = account
		c.dirty[address] = struct{}{}
	}
	maps.Copy(c.newAddresses, update.NewAddresses)
	c.issued = append(c.issued, update.IssuedTokens...)
	return nil
}

// Discard drops all modifications of this cache. The cache must not be used
// afterwards.
func (c *Cache) Discard() {
	c.closed = true
	c.accounts = nil
	c.dirty = nil
}

func (c *Cache) lookup(address fidelio.Address) (*Account, error) {
	if c.closed {
		return nil, fidelio.InvariantError("cache used after being exported or discarded")
	}
	if account, found := c.accounts[address]; found {
		return account, nil
	}
	account, found := c.source.account(address)
	if !found {
		return nil, fmt.Errorf("%w: %v", fidelio.ErrAccountNotFound, address)
	}
	c.accounts[address] = account
	return account, nil
}

// --- Source implementation for nested caches ---

func (c *Cache) account(address fidelio.Address) (*Account, bool) {
	if account, found := c.accounts[address]; found {
		return account.Clone(), true
	}
	return c.source.account(address)
}

func (c *Cache) newAddress(key NewAddressKey) (fidelio.Address, bool) {
	return c.source.newAddress(key)
}

func (c *Cache) addressConsumed(key NewAddressKey) bool {
	if _, found := c.newAddresses[key]; found {
		return true
	}
	return c.source.addressConsumed(key)
}

func (c *Cache) tokenIdentifier(offset int) (fidelio.TokenIdentifier, bool) {
	return c.source.tokenIdentifier(offset + len(c.issued))
}

func (c *Cache) tokenCount() uint64 {
	return c.source.tokenCount() + uint64(len(c.issued))
}
