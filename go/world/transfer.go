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
)

// EnsureAccount makes sure an account with the given address exists,
// creating an empty one if needed. Value transfers to unknown user accounts
// create the receiving account, as on a real chain.
func (c *Cache) EnsureAccount(address fidelio.Address) error {
	if c.AccountExists(address) {
		return nil
	}
	if c.closed {
		return fidelio.InvariantError("cache used after being exported or discarded")
	}
	if address.IsSmartContract() {
		return fmt.Errorf("%w: %v", fidelio.ErrAccountNotFound, address)
	}
	return c.InsertAccount(NewAccount(address))
}

// TransferEGLD moves native currency between two accounts.
func (c *Cache) TransferEGLD(from, to fidelio.Address, amount fidelio.Value) error {
	if amount.IsZero() {
		return nil
	}
	if err := c.EnsureAccount(to); err != nil {
		return err
	}
	if err := c.Update(from, func(account *Account) error {
		return account.DecreaseBalance(amount)
	}); err != nil {
		return err
	}
	return c.Update(to, func(account *Account) error {
		return account.IncreaseBalance(amount)
	})
}

// TransferToken moves a token between two accounts. Frozen instances can not
// be sent. Metadata of non-fungible instances travels along with the token.
func (c *Cache) TransferToken(from, to fidelio.Address, transfer fidelio.TokenTransfer) error {
	if err := transfer.Token.Validate(); err != nil {
		return err
	}
	if transfer.Amount.IsZero() {
		return fmt.Errorf("%w: zero amount transfer of %v", fidelio.ErrInvalidArguments, transfer.Token)
	}
	if err := c.EnsureAccount(to); err != nil {
		return err
	}
	key := fidelio.TokenKey{Identifier: transfer.Token, Nonce: transfer.Nonce}
	var metadata *TokenMetadata
	if err := c.Update(from, func(account *Account) error {
		instance := account.Token(key)
		if instance != nil && instance.Frozen {
			return fmt.Errorf("%w: %v of %v", fidelio.ErrFrozen, key, from)
		}
		if instance != nil {
			metadata = instance.Metadata.Clone()
		}
		return account.DecreaseTokenBalance(key, transfer.Amount)
	}); err != nil {
		return err
	}
	return c.Update(to, func(account *Account) error {
		instance := account.Token(key)
		if instance != nil && instance.Frozen {
			return fmt.Errorf("%w: %v of %v", fidelio.ErrFrozen, key, to)
		}
		if err := account.IncreaseTokenBalance(key, transfer.Amount); err != nil {
			return err
		}
		if instance := account.Token(key); instance.Metadata == nil {
			instance.Metadata = metadata
		}
		return nil
	})
}

// TransferPayment applies all transfers of the given payment. The transfers
// are not atomic; callers discard the cache on failure.
func (c *Cache) TransferPayment(from, to fidelio.Address, payment fidelio.Payment) error {
	if err := c.TransferEGLD(from, to, payment.EGLD); err != nil {
		return err
	}
	for _, transfer := range payment.Tokens {
		if err := c.TransferToken(from, to, transfer); err != nil {
			return err
		}
	}
	return nil
}
