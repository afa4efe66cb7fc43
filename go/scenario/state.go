// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scenario

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/exp/maps"
)

// AccountState is the serializable form of a ledger account. Storage keys
// are written as 0x-prefixed hex strings; keys without the prefix are read
// verbatim.
type AccountState struct {
	Address          fidelio.Address                      `json:"address"`
	Nonce            uint64                               `json:"nonce,omitempty"`
	Balance          fidelio.Value                        `json:"balance"`
	Tokens           []TokenState                         `json:"tokens,omitempty"`
	Roles            map[fidelio.TokenIdentifier][]string `json:"roles,omitempty"`
	LastNonces       map[fidelio.TokenIdentifier]uint64   `json:"lastNonces,omitempty"`
	Storage          map[string]hexutil.Bytes             `json:"storage,omitempty"`
	Code             string                               `json:"code,omitempty"`
	CodeMetadata     hexutil.Bytes                        `json:"codeMetadata,omitempty"`
	Owner            *fidelio.Address                     `json:"owner,omitempty"`
	Username         string                               `json:"username,omitempty"`
	DeveloperRewards fidelio.Value                        `json:"developerRewards"`
}

// TokenState is a token instance held by an account.
type TokenState struct {
	Token    fidelio.TokenIdentifier `json:"token"`
	Nonce    uint64                  `json:"nonce,omitempty"`
	Balance  fidelio.Value           `json:"balance"`
	Frozen   bool                    `json:"frozen,omitempty"`
	Metadata *TokenMetadataState     `json:"metadata,omitempty"`
}

// TokenMetadataState is the metadata of a non-fungible token instance.
type TokenMetadataState struct {
	Name       hexutil.Bytes   `json:"name,omitempty"`
	Creator    fidelio.Address `json:"creator"`
	Royalties  uint64          `json:"royalties,omitempty"`
	Hash       hexutil.Bytes   `json:"hash,omitempty"`
	URIs       []hexutil.Bytes `json:"uris,omitempty"`
	Attributes hexutil.Bytes   `json:"attributes,omitempty"`
}

// NewAccountState converts a ledger account into its serializable form.
func NewAccountState(account *world.Account) AccountState {
	res := AccountState{
		Address:          account.Address,
		Nonce:            account.Nonce,
		Balance:          account.Balance,
		Code:             string(account.Code),
		Username:         string(account.Username),
		DeveloperRewards: account.DeveloperRewards,
	}
	for _, key := range sortedTokenKeys(account.Tokens) {
		res.Tokens = append(res.Tokens, newTokenState(key, account.Tokens[key]))
	}
	if len(account.Roles) > 0 {
		res.Roles = map[fidelio.TokenIdentifier][]string{}
		for token, roles := range account.Roles {
			res.Roles[token] = slices.Clone(roles)
		}
	}
	if len(account.LastNonces) > 0 {
		res.LastNonces = maps.Clone(account.LastNonces)
	}
	if len(account.Storage) > 0 {
		res.Storage = map[string]hexutil.Bytes{}
		for key, value := range account.Storage {
			res.Storage[hexutil.Encode([]byte(key))] = slices.Clone(value)
		}
	}
	if len(account.CodeMetadata) > 0 {
		res.CodeMetadata = slices.Clone(account.CodeMetadata)
	}
	if account.Owner != (fidelio.Address{}) {
		owner := account.Owner
		res.Owner = &owner
	}
	return res
}

func newTokenState(key fidelio.TokenKey, instance *world.TokenInstance) TokenState {
	res := TokenState{
		Token:   key.Identifier,
		Nonce:   key.Nonce,
		Balance: instance.Balance,
		Frozen:  instance.Frozen,
	}
	if m := instance.Metadata; m != nil {
		res.Metadata = &TokenMetadataState{
			Name:       slices.Clone(m.Name),
			Creator:    m.Creator,
			Royalties:  m.Royalties,
			Hash:       slices.Clone(m.Hash),
			URIs:       toHex(m.URIs),
			Attributes: slices.Clone(m.Attributes),
		}
	}
	return res
}

// ToAccount converts the state into a ledger account.
func (s *AccountState) ToAccount() (*world.Account, error) {
	res := world.NewAccount(s.Address)
	res.Nonce = s.Nonce
	res.Balance = s.Balance
	res.DeveloperRewards = s.DeveloperRewards
	for _, token := range s.Tokens {
		if err := token.Token.Validate(); err != nil {
			return nil, fmt.Errorf("account %v: %w", s.Address, err)
		}
		instance := res.UpsertToken(fidelio.TokenKey{Identifier: token.Token, Nonce: token.Nonce})
		instance.Balance = token.Balance
		instance.Frozen = token.Frozen
		instance.Metadata = token.Metadata.toMetadata()
	}
	for token, roles := range s.Roles {
		for _, role := range roles {
			if !fidelio.IsKnownRole(role) {
				return nil, fmt.Errorf("account %v: %w: unknown role %q", s.Address, fidelio.ErrInvalidArguments, role)
			}
		}
		res.AddRoles(token, roles...)
	}
	if len(s.LastNonces) > 0 {
		res.LastNonces = maps.Clone(s.LastNonces)
	}
	for key, value := range s.Storage {
		decoded, err := decodeStorageKey(key)
		if err != nil {
			return nil, fmt.Errorf("account %v: %w", s.Address, err)
		}
		res.SetStorage(decoded, value)
	}
	if s.Code != "" {
		res.SetCode(fidelio.Code(s.Code))
	}
	if len(s.CodeMetadata) > 0 {
		res.CodeMetadata = slices.Clone(s.CodeMetadata)
	}
	if s.Owner != nil {
		res.Owner = *s.Owner
	}
	if s.Username != "" {
		res.Username = []byte(s.Username)
	}
	return res, nil
}

func (m *TokenMetadataState) toMetadata() *world.TokenMetadata {
	if m == nil {
		return nil
	}
	return &world.TokenMetadata{
		Name:       slices.Clone(m.Name),
		Creator:    m.Creator,
		Royalties:  m.Royalties,
		Hash:       slices.Clone(m.Hash),
		URIs:       toBytes(m.URIs),
		Attributes: slices.Clone(m.Attributes),
	}
}

func decodeStorageKey(key string) ([]byte, error) {
	if !strings.HasPrefix(key, "0x") {
		return []byte(key), nil
	}
	res, err := hexutil.Decode(key)
	if err != nil {
		return nil, fmt.Errorf("invalid storage key %q: %w", key, err)
	}
	return res, nil
}

func sortedTokenKeys(tokens map[fidelio.TokenKey]*world.TokenInstance) []fidelio.TokenKey {
	keys := maps.Keys(tokens)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Identifier != keys[j].Identifier {
			return keys[i].Identifier < keys[j].Identifier
		}
		return keys[i].Nonce < keys[j].Nonce
	})
	return keys
}

// ----------------------------------------------------------------------------
// Expectations
// ----------------------------------------------------------------------------

// AccountExpect lists the expected properties of an account. Nil fields are
// not checked. Listed tokens and storage entries are compared; an empty
// storage value expects the entry to be absent.
type AccountExpect struct {
	Address  fidelio.Address          `json:"address"`
	Nonce    *uint64                  `json:"nonce,omitempty"`
	Balance  *fidelio.Value           `json:"balance,omitempty"`
	Tokens   []TokenState             `json:"tokens,omitempty"`
	Storage  map[string]hexutil.Bytes `json:"storage,omitempty"`
	Code     *string                  `json:"code,omitempty"`
	Owner    *fidelio.Address         `json:"owner,omitempty"`
	Username *string                  `json:"username,omitempty"`
}

// checkState compares the given accounts with the expectations of a
// check-state step.
func checkState(accounts []*world.Account, step *CheckStateStep) []string {
	index := map[fidelio.Address]*world.Account{}
	for _, account := range accounts {
		index[account.Address] = account
	}
	var res []string
	listed := map[fidelio.Address]bool{}
	for _, expect := range step.Accounts {
		listed[expect.Address] = true
		account, found := index[expect.Address]
		if !found {
			res = append(res, fmt.Sprintf("account %v: not found", expect.Address))
			continue
		}
		for _, diff := range expect.diff(account, step.Complete) {
			res = append(res, fmt.Sprintf("account %v: %s", expect.Address, diff))
		}
	}
	if step.Complete {
		for _, account := range accounts {
			if !listed[account.Address] {
				res = append(res, fmt.Sprintf("account %v: unexpected account", account.Address))
			}
		}
	}
	return res
}

func (e *AccountExpect) diff(account *world.Account, complete bool) []string {
	var res []string
	if e.Nonce != nil && *e.Nonce != account.Nonce {
		res = append(res, fmt.Sprintf("nonce: want %d, got %d", *e.Nonce, account.Nonce))
	}
	if e.Balance != nil && *e.Balance != account.Balance {
		res = append(res, fmt.Sprintf("balance: want %v, got %v", *e.Balance, account.Balance))
	}
	if e.Code != nil && *e.Code != string(account.Code) {
		res = append(res, fmt.Sprintf("code: want %q, got %q", *e.Code, account.Code))
	}
	if e.Owner != nil && *e.Owner != account.Owner {
		res = append(res, fmt.Sprintf("owner: want %v, got %v", *e.Owner, account.Owner))
	}
	if e.Username != nil && *e.Username != string(account.Username) {
		res = append(res, fmt.Sprintf("username: want %q, got %q", *e.Username, account.Username))
	}

	tokens := map[fidelio.TokenKey]bool{}
	for _, want := range e.Tokens {
		key := fidelio.TokenKey{Identifier: want.Token, Nonce: want.Nonce}
		tokens[key] = true
		got := account.Token(key)
		if got == nil {
			if !want.Balance.IsZero() {
				res = append(res, fmt.Sprintf("token %v: want %v, got none", key, want.Balance))
			}
			continue
		}
		if want.Balance != got.Balance {
			res = append(res, fmt.Sprintf("token %v: want %v, got %v", key, want.Balance, got.Balance))
		}
		if want.Frozen != got.Frozen {
			res = append(res, fmt.Sprintf("token %v: want frozen %t, got %t", key, want.Frozen, got.Frozen))
		}
		if want.Metadata != nil && !want.Metadata.toMetadata().Equal(got.Metadata) {
			res = append(res, fmt.Sprintf("token %v: different metadata", key))
		}
	}

	keys := map[string]bool{}
	for key, want := range e.Storage {
		decoded, err := decodeStorageKey(key)
		if err != nil {
			res = append(res, err.Error())
			continue
		}
		keys[string(decoded)] = true
		if got := account.GetStorage(decoded); !bytes.Equal(want, got) {
			res = append(res, fmt.Sprintf("storage %s: want %v, got %v", key, want, hexutil.Bytes(got)))
		}
	}

	if complete {
		for _, key := range sortedTokenKeys(account.Tokens) {
			if !tokens[key] {
				res = append(res, fmt.Sprintf("token %v: unexpected balance %v", key, account.Tokens[key].Balance))
			}
		}
		for _, key := range account.Storage.Keys() {
			if !keys[key] {
				res = append(res, fmt.Sprintf("storage %s: unexpected entry", hexutil.Encode([]byte(key))))
			}
		}
	}
	return res
}
