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
)

// Transfer is a token transfer requested through one of the transfer
// builtins, optionally followed by a call of a function on the receiver.
type Transfer struct {
	Sender   fidelio.Address
	Receiver fidelio.Address
	Tokens   []fidelio.TokenTransfer
	Function string
	Args     [][]byte
}

// IsTransfer reports whether the given name denotes a token transfer builtin.
func IsTransfer(name string) bool {
	switch name {
	case ESDTTransfer, ESDTNFTTransfer, MultiESDTNFTTransfer:
		return true
	}
	return false
}

// ParseTransfer decodes the arguments of a transfer builtin.
//
//	ESDTTransfer:         token, amount, [function, args...]          sent From -> To
//	ESDTNFTTransfer:      token, nonce, amount, receiver, [function, args...]
//	MultiESDTNFTTransfer: receiver, n, (token, nonce, amount)*n, [function, args...]
//
// The NFT variants are sent by an account to itself, naming the receiver in
// the arguments.
func ParseTransfer(input fidelio.TxInput) (Transfer, error) {
	args := input.Args
	res := Transfer{Sender: input.From}
	var rest [][]byte
	switch input.Function {
	case ESDTTransfer:
		if err := expectArgs(args, 2, -1); err != nil {
			return res, err
		}
		token, amount, err := parseFungible(args[:2])
		if err != nil {
			return res, err
		}
		res.Receiver = input.To
		res.Tokens = []fidelio.TokenTransfer{{Token: token, Amount: amount}}
		rest = args[2:]

	case ESDTNFTTransfer:
		if err := expectArgs(args, 4, -1); err != nil {
			return res, err
		}
		transfer, err := parseTokenTransfer(args[:3])
		if err != nil {
			return res, err
		}
		if res.Receiver, err = parseAddress(args[3]); err != nil {
			return res, err
		}
		res.Tokens = []fidelio.TokenTransfer{transfer}
		rest = args[4:]

	case MultiESDTNFTTransfer:
		if err := expectArgs(args, 2, -1); err != nil {
			return res, err
		}
		var err error
		if res.Receiver, err = parseAddress(args[0]); err != nil {
			return res, err
		}
		n, err := parseNonce(args[1])
		if err != nil {
			return res, err
		}
		if n == 0 || n > uint64(len(args)-2)/3 {
			return res, fmt.Errorf("%w: expected %d transfers", fidelio.ErrInvalidArguments, n)
		}
		for i := uint64(0); i < n; i++ {
			start := 2 + 3*i
			transfer, err := parseTokenTransfer(args[start : start+3])
			if err != nil {
				return res, err
			}
			res.Tokens = append(res.Tokens, transfer)
		}
		rest = args[2+3*n:]

	default:
		return res, fmt.Errorf("%w: %q is not a transfer", fidelio.ErrNotBuiltin, input.Function)
	}

	if input.Function != ESDTTransfer && input.From != input.To {
		return res, fmt.Errorf("%w: %s must be sent to the sender itself", fidelio.ErrInvalidArguments, input.Function)
	}
	if len(rest) > 0 {
		res.Function = string(rest[0])
		res.Args = fidelio.CloneBytes(rest[1:])
	}
	return res, nil
}

func parseTokenTransfer(args [][]byte) (fidelio.TokenTransfer, error) {
	key, err := parseTokenKey(args[:2])
	if err != nil {
		return fidelio.TokenTransfer{}, err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return fidelio.TokenTransfer{}, err
	}
	return fidelio.TokenTransfer{Token: key.Identifier, Nonce: key.Nonce, Amount: amount}, nil
}

// transfer moves tokens between accounts. Invoking the function following
// the transfer is up to the caller.
func transfer(c *call) error {
	request, err := ParseTransfer(c.input)
	if err != nil {
		return err
	}
	for _, token := range request.Tokens {
		if err := c.cache.TransferToken(request.Sender, request.Receiver, token); err != nil {
			return err
		}
	}
	for _, token := range request.Tokens {
		c.emit(request.Sender,
			[]byte(token.Token),
			fidelio.NonceBytes(token.Nonce),
			token.Amount.Bytes(),
			request.Receiver[:],
		)
	}
	return nil
}
