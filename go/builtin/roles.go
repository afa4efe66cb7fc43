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

// setRole grants roles for a token to the target account.
// Arguments: token, role...
func setRole(c *call) error {
	token, roles, err := parseRoles(c.input.Args)
	if err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		account.AddRoles(token, roles...)
		return nil
	}); err != nil {
		return err
	}
	c.emit(c.input.To, roleTopics(token, roles)...)
	return nil
}

// unsetRole revokes roles for a token from the target account.
// Arguments: token, role...
func unsetRole(c *call) error {
	token, roles, err := parseRoles(c.input.Args)
	if err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		account.RemoveRoles(token, roles...)
		return nil
	}); err != nil {
		return err
	}
	c.emit(c.input.To, roleTopics(token, roles)...)
	return nil
}

// setRolesForAll grants the same roles to a list of accounts. The log lists
// the accounts as data.
// Arguments: token, n, role*n, address...
func setRolesForAll(c *call) error {
	args := c.input.Args
	if err := expectArgs(args, 4, -1); err != nil {
		return err
	}
	n, err := parseNonce(args[1])
	if err != nil {
		return err
	}
	if n == 0 || n > uint64(len(args)-3) {
		return fmt.Errorf("%w: expected %d roles followed by at least one address", fidelio.ErrInvalidArguments, n)
	}
	token, roles, err := parseRoles(append([][]byte{args[0]}, args[2:2+n]...))
	if err != nil {
		return err
	}
	addresses := make([]fidelio.Address, 0, uint64(len(args))-2-n)
	for _, arg := range args[2+n:] {
		address, err := parseAddress(arg)
		if err != nil {
			return err
		}
		addresses = append(addresses, address)
	}

	data := make([][]byte, 0, len(addresses))
	for _, address := range addresses {
		if err := c.cache.Update(address, func(account *world.Account) error {
			account.AddRoles(token, roles...)
			return nil
		}); err != nil {
			return err
		}
		data = append(data, address[:])
	}
	log := c.emit(c.input.To, roleTopics(token, roles)...)
	log.Data = data
	return nil
}

func parseRoles(args [][]byte) (fidelio.TokenIdentifier, []string, error) {
	if err := expectArgs(args, 2, -1); err != nil {
		return "", nil, err
	}
	token, err := parseToken(args[0])
	if err != nil {
		return "", nil, err
	}
	roles := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		role := string(arg)
		if !fidelio.IsKnownRole(role) {
			return "", nil, fmt.Errorf("%w: unknown role %q", fidelio.ErrInvalidArguments, role)
		}
		roles = append(roles, role)
	}
	return token, roles, nil
}

func roleTopics(token fidelio.TokenIdentifier, roles []string) [][]byte {
	res := [][]byte{[]byte(token), {}, {}}
	for _, role := range roles {
		res = append(res, []byte(role))
	}
	return res
}
