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

const maxRoyalties = 10_000

// localMint creates new units of a fungible token on the target account.
// Arguments: token, amount.
func localMint(c *call) error {
	token, amount, err := parseFungible(c.input.Args)
	if err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := c.requireRole(account, token, fidelio.RoleLocalMint); err != nil {
			return err
		}
		return account.IncreaseTokenBalance(fidelio.TokenKey{Identifier: token}, amount)
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte(token), []byte{}, amount.Bytes())
	return nil
}

// localBurn destroys units of a fungible token held by the target account.
// Arguments: token, amount.
func localBurn(c *call) error {
	token, amount, err := parseFungible(c.input.Args)
	if err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := c.requireRole(account, token, fidelio.RoleLocalBurn); err != nil {
			return err
		}
		return account.DecreaseTokenBalance(fidelio.TokenKey{Identifier: token}, amount)
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte(token), []byte{}, amount.Bytes())
	return nil
}

func parseFungible(args [][]byte) (fidelio.TokenIdentifier, fidelio.Value, error) {
	if err := expectArgs(args, 2, 2); err != nil {
		return "", fidelio.Value{}, err
	}
	token, err := parseToken(args[0])
	if err != nil {
		return "", fidelio.Value{}, err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return "", fidelio.Value{}, err
	}
	return token, amount, nil
}

// nftCreate creates a new instance of a non-fungible, semi-fungible, or meta
// token on the target account, using the next free nonce of the token.
// Arguments: token, quantity, name, royalties, hash, attributes, uri...
func nftCreate(c *call) error {
	args := c.input.Args
	if err := expectArgs(args, 6, -1); err != nil {
		return err
	}
	token, err := parseToken(args[0])
	if err != nil {
		return err
	}
	quantity, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	royalties, err := parseNonce(args[3])
	if err != nil {
		return err
	}
	if royalties > maxRoyalties {
		return fmt.Errorf("%w: royalties must not exceed %d, got %d", fidelio.ErrInvalidArguments, maxRoyalties, royalties)
	}
	metadata := &world.TokenMetadata{
		Name:       fidelio.CloneBytes(args[2:3])[0],
		Creator:    c.input.To,
		Royalties:  royalties,
		Hash:       fidelio.CloneBytes(args[4:5])[0],
		Attributes: fidelio.CloneBytes(args[5:6])[0],
		URIs:       fidelio.CloneBytes(args[6:]),
	}

	var nonce uint64
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := c.requireRole(account, token, fidelio.RoleNFTCreate); err != nil {
			return err
		}
		if account.LastNonces == nil {
			account.LastNonces = map[fidelio.TokenIdentifier]uint64{}
		}
		nonce = account.LastNonces[token] + 1
		account.LastNonces[token] = nonce
		key := fidelio.TokenKey{Identifier: token, Nonce: nonce}
		if err := account.IncreaseTokenBalance(key, quantity); err != nil {
			return err
		}
		account.Token(key).Metadata = metadata
		return nil
	}); err != nil {
		return err
	}

	c.output = [][]byte{fidelio.NonceBytes(nonce)}
	log := c.emit(c.input.To, []byte(token), fidelio.NonceBytes(nonce), quantity.Bytes())
	log.Data = [][]byte{metadata.Attributes}
	return nil
}

// parseInstance parses the token, nonce, and quantity arguments shared by
// the operations on existing token instances.
func parseInstance(args [][]byte) (fidelio.TokenKey, fidelio.Value, error) {
	if err := expectArgs(args, 3, 3); err != nil {
		return fidelio.TokenKey{}, fidelio.Value{}, err
	}
	key, err := parseTokenKey(args[:2])
	if err != nil {
		return key, fidelio.Value{}, err
	}
	if key.Nonce == 0 {
		return key, fidelio.Value{}, fmt.Errorf("%w: nonce must be positive", fidelio.ErrInvalidArguments)
	}
	quantity, err := parseAmount(args[2])
	return key, quantity, err
}

// nftAddQuantity increases the supply of an existing semi-fungible instance.
// Arguments: token, nonce, quantity.
func nftAddQuantity(c *call) error {
	key, quantity, err := parseInstance(c.input.Args)
	if err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := c.requireRole(account, key.Identifier, fidelio.RoleNFTAddQuantity); err != nil {
			return err
		}
		if account.Token(key) == nil {
			return fmt.Errorf("%w: %v not held by %v", fidelio.ErrUnknownToken, key, account.Address)
		}
		return account.IncreaseTokenBalance(key, quantity)
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte(key.Identifier), fidelio.NonceBytes(key.Nonce), quantity.Bytes())
	return nil
}

// nftBurn destroys units of a token instance held by the target account.
// Arguments: token, nonce, quantity.
func nftBurn(c *call) error {
	key, quantity, err := parseInstance(c.input.Args)
	if err != nil {
		return err
	}
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := c.requireRole(account, key.Identifier, fidelio.RoleNFTBurn); err != nil {
			return err
		}
		return account.DecreaseTokenBalance(key, quantity)
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte(key.Identifier), fidelio.NonceBytes(key.Nonce), quantity.Bytes())
	return nil
}

// nftUpdateAttributes replaces the attributes of an existing instance.
// Arguments: token, nonce, attributes.
func nftUpdateAttributes(c *call) error {
	args := c.input.Args
	if err := expectArgs(args, 3, 3); err != nil {
		return err
	}
	key, err := parseTokenKey(args[:2])
	if err != nil {
		return err
	}
	if key.Nonce == 0 {
		return fmt.Errorf("%w: nonce must be positive", fidelio.ErrInvalidArguments)
	}
	attributes := fidelio.CloneBytes(args[2:])[0]
	if err := c.cache.Update(c.input.To, func(account *world.Account) error {
		if err := c.requireRole(account, key.Identifier, fidelio.RoleNFTUpdateAttributes); err != nil {
			return err
		}
		instance := account.Token(key)
		if instance == nil {
			return fmt.Errorf("%w: %v not held by %v", fidelio.ErrUnknownToken, key, account.Address)
		}
		if instance.Metadata == nil {
			instance.Metadata = &world.TokenMetadata{Creator: account.Address}
		}
		instance.Metadata.Attributes = attributes
		return nil
	}); err != nil {
		return err
	}
	c.emit(c.input.To, []byte(key.Identifier), fidelio.NonceBytes(key.Nonce), []byte{}, attributes)
	return nil
}
