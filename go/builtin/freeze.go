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
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
)

// freeze blocks transfers of a token held by the target account.
// Arguments: token, [nonce].
func freeze(c *call) error {
	return setFrozen(c, true)
}

// unfreeze lifts a freeze on a token held by the target account.
// Arguments: token, [nonce].
func unfreeze(c *call) error {
	return setFrozen(c, false)
}

func setFrozen(c *call, frozen bool) error {
	key, err := parseTokenKey(c.input.Args)
	if err != nil {
		return err
	}
	var balance fidelio.Value
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		instance := account.UpsertToken(key)
		instance.Frozen = frozen
		balance = instance.Balance
		if !frozen && balance.IsZero() {
			delete(account.Tokens, key)
		}
		return nil
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte(key.Identifier), fidelio.NonceBytes(key.Nonce), balance.Bytes(), c.input.To[:])
	return nil
}

// wipe destroys the frozen balance of a token held by the target account.
// Arguments: token, [nonce].
func wipe(c *call) error {
	key, err := parseTokenKey(c.input.Args)
	if err != nil {
		return err
	}
	wiped, err := world.WithAccountMut(c.cache, c.input.To, func(account *world.Account) (fidelio.Value, error) {
		instance := account.Token(key)
		if instance == nil || !instance.Frozen {
			return fidelio.Value{}, fmt.Errorf("%w: %v of %v is not frozen", fidelio.ErrInvalidArguments, key, account.Address)
		}
		balance := instance.Balance
		delete(account.Tokens, key)
		return balance, nil
	})
	if err != nil {
		return err
	}
	c.emit(c.input.To, []byte(key.Identifier), fidelio.NonceBytes(key.Nonce), wiped.Bytes(), c.input.To[:])
	return nil
}
