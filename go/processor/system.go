// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/common"
)

// ESDTSystemSCAddress is the address of the system contract managing token
// issuance, roles, and freezing.
// It is wrapped in a function to be immutable
func ESDTSystemSCAddress() fidelio.Address {
	return fidelio.Address(common.HexToHash("0x000000000000000000010000000000000000000000000000000000000002ffff"))
}

// Token types as recorded by the system contract.
const (
	FungibleESDT     = "FungibleESDT"
	SemiFungibleESDT = "SemiFungibleESDT"
	NonFungibleESDT  = "NonFungibleESDT"
	MetaESDT         = "MetaESDT"
)

// Functions of the ESDT system contract.
const (
	IssueFunction             = "issue"
	IssueSemiFungibleFunction = "issueSemiFungible"
	IssueNonFungibleFunction  = "issueNonFungible"
	RegisterMetaESDTFunction  = "registerMetaESDT"
	SetSpecialRoleFunction    = "setSpecialRole"
	UnSetSpecialRoleFunction  = "unSetSpecialRole"
	FreezeFunction            = "freeze"
	UnFreezeFunction          = "unFreeze"
	WipeFunction              = "wipe"
	FreezeSingleNFTFunction   = "freezeSingleNFT"
	UnFreezeSingleNFTFunction = "unFreezeSingleNFT"
	WipeSingleNFTFunction     = "wipeSingleNFT"
)

// systemCall is the state of a single call of the ESDT system contract.
type systemCall struct {
	tx      *transaction
	cache   *world.Cache
	call    call
	output  [][]byte
	logs    []fidelio.TxLog
	records []fidelio.CallRecord
}

func (t *transaction) invokeSystemContract(cache *world.Cache, c call) (outcome, error) {
	address := ESDTSystemSCAddress()
	if !cache.AccountExists(address) {
		account := world.NewAccount(address)
		account.SetCode(fidelio.Code("system:esdt"))
		if err := cache.InsertAccount(account); err != nil {
			return outcome{}, err
		}
	}
	if c.readOnly {
		return failed(fmt.Errorf("system call %w", fidelio.ErrReadOnly))
	}
	if !c.paid {
		if err := cache.TransferPayment(c.from, address, c.payment); err != nil {
			return failed(err)
		}
	}

	sc := &systemCall{tx: t, cache: cache, call: c}
	var err error
	switch c.function {
	case IssueFunction:
		err = sc.issue(FungibleESDT)
	case IssueSemiFungibleFunction:
		err = sc.issue(SemiFungibleESDT)
	case IssueNonFungibleFunction:
		err = sc.issue(NonFungibleESDT)
	case RegisterMetaESDTFunction:
		err = sc.issue(MetaESDT)
	case SetSpecialRoleFunction:
		err = sc.setSpecialRole(builtin.ESDTSetRole)
	case UnSetSpecialRoleFunction:
		err = sc.setSpecialRole(builtin.ESDTUnSetRole)
	case FreezeFunction:
		err = sc.control(builtin.ESDTFreeze, false)
	case UnFreezeFunction:
		err = sc.control(builtin.ESDTUnFreeze, false)
	case WipeFunction:
		err = sc.control(builtin.ESDTWipe, false)
	case FreezeSingleNFTFunction:
		err = sc.control(builtin.ESDTFreeze, true)
	case UnFreezeSingleNFTFunction:
		err = sc.control(builtin.ESDTUnFreeze, true)
	case WipeSingleNFTFunction:
		err = sc.control(builtin.ESDTWipe, true)
	default:
		return failedOutcome(fidelio.FunctionNotFound, "invalid function %q of the ESDT system contract", c.function), nil
	}
	if err != nil {
		return failed(err)
	}
	return outcome{
		result:  fidelio.Success(sc.output...),
		logs:    sc.logs,
		records: sc.records,
	}, nil
}

// issue registers a new token owned by the caller.
// Arguments: name, ticker, [initialSupply, decimals, properties...] for
// fungible tokens, name, ticker, [properties...] otherwise.
func (s *systemCall) issue(tokenType string) error {
	args := s.call.args
	min := 2
	if tokenType == FungibleESDT {
		min = 4
	}
	if len(args) < min {
		return fmt.Errorf("%w: %s expects at least %d arguments, got %d", fidelio.ErrInvalidArguments, s.call.function, min, len(args))
	}
	name, ticker := args[0], string(args[1])
	if len(name) == 0 {
		return fmt.Errorf("%w: empty token name", fidelio.ErrInvalidArguments)
	}
	if err := fidelio.ValidateTicker(ticker); err != nil {
		return err
	}
	var supply fidelio.Value
	if tokenType == FungibleESDT {
		var err error
		if supply, err = fidelio.ValueFromBytes(args[2]); err != nil {
			return err
		}
	}

	id, err := s.cache.NextTokenIdentifier(ticker)
	if err != nil {
		return err
	}
	if err := s.cache.Update(ESDTSystemSCAddress(), func(account *world.Account) error {
		account.SetStorage(ownerKey(id), s.call.from[:])
		account.SetStorage(typeKey(id), []byte(tokenType))
		return nil
	}); err != nil {
		return err
	}
	if !supply.IsZero() {
		if err := s.cache.Update(s.call.from, func(account *world.Account) error {
			return account.IncreaseTokenBalance(fidelio.TokenKey{Identifier: id}, supply)
		}); err != nil {
			return err
		}
	}
	s.tx.log.Debug("Token issued", "id", id, "type", tokenType, "owner", s.call.from)

	s.output = [][]byte{[]byte(id)}
	s.logs = append(s.logs, fidelio.TxLog{
		Address:    s.call.from,
		Identifier: s.call.function,
		Topics:     [][]byte{[]byte(id), append([]byte{}, name...), []byte(ticker), []byte(tokenType)},
	})
	return nil
}

// setSpecialRole grants or revokes roles of a token for an account.
// Arguments: token, address, role...
func (s *systemCall) setSpecialRole(function string) error {
	args := s.call.args
	if len(args) < 3 {
		return fmt.Errorf("%w: %s expects at least 3 arguments, got %d", fidelio.ErrInvalidArguments, s.call.function, len(args))
	}
	token, err := s.ownedToken(args[0])
	if err != nil {
		return err
	}
	target, err := fidelio.AddressFromBytes(args[1])
	if err != nil {
		return err
	}
	builtinArgs := append([][]byte{[]byte(token)}, args[2:]...)
	return s.generate(target, function, builtinArgs)
}

// control freezes, unfreezes, or wipes the balance of an account.
// Arguments: token, [nonce,] address.
func (s *systemCall) control(function string, withNonce bool) error {
	args := s.call.args
	want := 2
	if withNonce {
		want = 3
	}
	if len(args) != want {
		return fmt.Errorf("%w: %s expects %d arguments, got %d", fidelio.ErrInvalidArguments, s.call.function, want, len(args))
	}
	token, err := s.ownedToken(args[0])
	if err != nil {
		return err
	}
	target, err := fidelio.AddressFromBytes(args[want-1])
	if err != nil {
		return err
	}
	builtinArgs := [][]byte{[]byte(token)}
	if withNonce {
		builtinArgs = append(builtinArgs, args[1])
	}
	return s.generate(target, function, builtinArgs)
}

// ownedToken checks that the given token exists and is owned by the caller.
func (s *systemCall) ownedToken(arg []byte) (fidelio.TokenIdentifier, error) {
	token := fidelio.TokenIdentifier(arg)
	if err := token.Validate(); err != nil {
		return token, err
	}
	owner, err := world.WithAccount(s.cache, ESDTSystemSCAddress(), func(account *world.Account) []byte {
		return account.GetStorage(ownerKey(token))
	})
	if err != nil {
		return token, err
	}
	if len(owner) == 0 {
		return token, fmt.Errorf("%w: %v", fidelio.ErrUnknownToken, token)
	}
	if address, err := fidelio.AddressFromBytes(owner); err != nil || address != s.call.from {
		return token, fmt.Errorf("%w: %v does not own %v", fidelio.ErrNotOwner, s.call.from, token)
	}
	return token, nil
}

// generate executes a builtin operation on behalf of the system contract and
// records it as a generated call.
func (s *systemCall) generate(target fidelio.Address, function string, args [][]byte) error {
	operation, err := s.tx.processor.builtins.Lookup(function)
	if err != nil {
		return err
	}
	if err := s.cache.EnsureAccount(target); err != nil {
		return err
	}
	input := fidelio.TxInput{
		From:     ESDTSystemSCAddress(),
		To:       target,
		Function: function,
		Args:     args,
		Kind:     fidelio.AsyncCall,
		TxHash:   s.tx.input.TxHash,
	}
	res, err := operation.Execute(input, s.cache, builtin.Config{Logger: s.tx.log})
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("%w: %s", fidelio.ErrInvalidArguments, res.Message)
	}
	s.records = append(s.records, fidelio.CallRecord{
		From:     input.From,
		To:       target,
		Function: function,
		Kind:     input.Kind,
		Args:     fidelio.CloneBytes(args),
		Status:   res.Status,
		Output:   res.Output,
		Logs:     res.Logs,
	})
	return nil
}

func ownerKey(token fidelio.TokenIdentifier) []byte {
	return []byte("owner:" + string(token))
}

func typeKey(token fidelio.TokenIdentifier) []byte {
	return []byte("type:" + string(token))
}
