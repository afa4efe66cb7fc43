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
	"slices"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
)

// changeOwnerAddress hands the ownership of a contract to a new account. Only
// the current owner may do so.
// Arguments: newOwner.
func changeOwnerAddress(c *call) error {
	args := c.input.Args
	if err := expectArgs(args, 1, 1); err != nil {
		return err
	}
	owner, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := checkOwner(account, c.input.From); err != nil {
			return err
		}
		account.Owner = owner
		return nil
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte{}, []byte{}, []byte{}, owner[:])
	return nil
}

// setUserName assigns a username to the target account. Usernames can not be
// overwritten.
// Arguments: username.
func setUserName(c *call) error {
	args := c.input.Args
	if err := expectArgs(args, 1, 1); err != nil {
		return err
	}
	if len(args[0]) == 0 {
		return fmt.Errorf("%w: empty username", fidelio.ErrInvalidArguments)
	}
	username := slices.Clone(args[0])
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if len(account.Username) > 0 {
			return fmt.Errorf("%w: %v already has username %q", fidelio.ErrInvalidArguments, account.Address, account.Username)
		}
		account.Username = username
		return nil
	}); err != nil {
		return err
	}
	c.emit(c.input.To, username)
	return nil
}

// deleteUserName removes the username of the target account.
func deleteUserName(c *call) error {
	if err := expectArgs(c.input.Args, 0, 0); err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		account.Username = nil
		return nil
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte{})
	return nil
}

// claimDeveloperRewards pays the rewards accumulated by a contract to its
// owner. Only the owner may claim them.
func claimDeveloperRewards(c *call) error {
	if err := expectArgs(c.input.Args, 0, 0); err != nil {
		return err
	}
	var rewards fidelio.Value
	var owner fidelio.Address
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := checkOwner(account, c.input.From); err != nil {
			return err
		}
		rewards = account.DeveloperRewards
		owner = account.Owner
		account.DeveloperRewards = fidelio.Value{}
		return nil
	}); err != nil {
		return err
	}
	if err := c.cache.Update(owner, func(account *world.Account) error {
		return account.IncreaseBalance(rewards)
	}); err != nil {
		return err
	}
	c.output = [][]byte{rewards.Bytes()}
	c.emit(c.input.To, []byte{}, []byte{}, rewards.Bytes(), owner[:])
	return nil
}

func checkOwner(account *world.Account, caller fidelio.Address) error {
	if !account.HasCode() {
		return fmt.Errorf("%w: %v is not a contract", fidelio.ErrInvalidArguments, account.Address)
	}
	if account.Owner != caller {
		return fmt.Errorf("%w: %v is not the owner of %v", fidelio.ErrNotOwner, caller, account.Address)
	}
	return nil
}
