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
	"slices"
	"sort"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"golang.org/x/crypto/sha3"
	"golang.org/x/exp/maps"
)

// ----------------------------------------------------------------------------
// Account
// ----------------------------------------------------------------------------

// Account represents an account in the ledger. Accounts carrying code are
// contract accounts; only those may own storage written by contract logic.
type Account struct {
	Address          fidelio.Address
	Nonce            uint64
	Balance          fidelio.Value
	Tokens           map[fidelio.TokenKey]*TokenInstance
	Roles            map[fidelio.TokenIdentifier][]string
	LastNonces       map[fidelio.TokenIdentifier]uint64
	Storage          Storage
	Code             fidelio.Code
	CodeHash         fidelio.Hash
	CodeMetadata     []byte
	Owner            fidelio.Address
	Username         []byte
	DeveloperRewards fidelio.Value
}

// TokenInstance is the balance and metadata of a token held by an account.
type TokenInstance struct {
	Balance  fidelio.Value
	Frozen   bool
	Metadata *TokenMetadata
}

// TokenMetadata is the data attached to non-fungible, semi-fungible and meta
// tokens at creation time.
type TokenMetadata struct {
	Name       []byte
	Creator    fidelio.Address
	Royalties  uint64
	Hash       []byte
	URIs       [][]byte
	Attributes []byte
}

// NewAccount creates an empty account with the given address.
func NewAccount(address fidelio.Address) *Account {
	return &Account{Address: address}
}

// HasCode reports whether this is a contract account.
func (a *Account) HasCode() bool {
	return len(a.Code) > 0
}

// SetCode binds the given code to the account and updates its code hash.
func (a *Account) SetCode(code fidelio.Code) {
	a.Code = slices.Clone(code)
	a.CodeHash = HashCode(code)
}

// HashCode computes the Keccak256 hash of the given code.
func HashCode(code fidelio.Code) (res fidelio.Hash) {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(code)
	hasher.Sum(res[:0])
	return
}

func (a *Account) GetStorage(key []byte) []byte {
	return a.Storage[string(key)]
}

// SetStorage updates a storage entry. Empty values delete the entry.
func (a *Account) SetStorage(key, value []byte) {
	if len(value) == 0 {
		delete(a.Storage, string(key))
		return
	}
	if a.Storage == nil {
		a.Storage = Storage{}
	}
	a.Storage[string(key)] = slices.Clone(value)
}

// Token returns the instance held for the given key, or nil if there is
// none.
func (a *Account) Token(key fidelio.TokenKey) *TokenInstance {
	return a.Tokens[key]
}

// TokenBalance returns the balance of the given token, zero if none is held.
func (a *Account) TokenBalance(key fidelio.TokenKey) fidelio.Value {
	if instance := a.Tokens[key]; instance != nil {
		return instance.Balance
	}
	return fidelio.Value{}
}

// UpsertToken obtains the instance held for the given key, creating an empty
// one if there is none.
func (a *Account) UpsertToken(key fidelio.TokenKey) *TokenInstance {
	if a.Tokens == nil {
		a.Tokens = map[fidelio.TokenKey]*TokenInstance{}
	}
	instance := a.Tokens[key]
	if instance == nil {
		instance = &TokenInstance{}
		a.Tokens[key] = instance
	}
	return instance
}

// IncreaseTokenBalance adds the given amount to the balance of a token.
func (a *Account) IncreaseTokenBalance(key fidelio.TokenKey, amount fidelio.Value) error {
	instance := a.UpsertToken(key)
	sum, overflow := fidelio.AddChecked(instance.Balance, amount)
	if overflow {
		return fmt.Errorf("%w: balance of %v overflows", fidelio.ErrInvalidArguments, key)
	}
	instance.Balance = sum
	return nil
}

// DecreaseTokenBalance subtracts the given amount from the balance of a
// token. Balances never become negative.
func (a *Account) DecreaseTokenBalance(key fidelio.TokenKey, amount fidelio.Value) error {
	balance := a.TokenBalance(key)
	diff, underflow := fidelio.SubChecked(balance, amount)
	if underflow {
		return fmt.Errorf("%w: %v has %v of %v, needs %v", fidelio.ErrInsufficientFunds, a.Address, balance, key, amount)
	}
	a.UpsertToken(key).Balance = diff
	a.pruneToken(key)
	return nil
}

// pruneToken drops instances that are no longer held.
func (a *Account) pruneToken(key fidelio.TokenKey) {
	instance := a.Tokens[key]
	if instance != nil && instance.Balance.IsZero() && !instance.Frozen {
		delete(a.Tokens, key)
	}
}

// IncreaseBalance adds the given amount to the native balance.
func (a *Account) IncreaseBalance(amount fidelio.Value) error {
	sum, overflow := fidelio.AddChecked(a.Balance, amount)
	if overflow {
		return fmt.Errorf("%w: balance of %v overflows", fidelio.ErrInvalidArguments, a.Address)
	}
	a.Balance = sum
	return nil
}

// DecreaseBalance subtracts the given amount from the native balance.
func (a *Account) DecreaseBalance(amount fidelio.Value) error {
	diff, underflow := fidelio.SubChecked(a.Balance, amount)
	if underflow {
		return fmt.Errorf("%w: %v has %v, needs %v", fidelio.ErrInsufficientFunds, a.Address, a.Balance, amount)
	}
	a.Balance = diff
	return nil
}

func (a *Account) HasRole(token fidelio.TokenIdentifier, role string) bool {
	return slices.Contains(a.Roles[token], role)
}

// AddRoles grants the given roles for a token. Roles already held are
// ignored.
func (a *Account) AddRoles(token fidelio.TokenIdentifier, roles ...string) {
	if a.Roles == nil {
		a.Roles = map[fidelio.TokenIdentifier][]string{}
	}
	current := a.Roles[token]
	for _, role := range roles {
		if !slices.Contains(current, role) {
			current = append(current, role)
		}
	}
	sort.Strings(current)
	a.Roles[token] = current
}

// RemoveRoles revokes the given roles for a token.
func (a *Account) RemoveRoles(token fidelio.TokenIdentifier, roles ...string) {
	current := slices.DeleteFunc(slices.Clone(a.Roles[token]), func(role string) bool {
		return slices.Contains(roles, role)
	})
	if len(current) == 0 {
		delete(a.Roles, token)
		return
	}
	a.Roles[token] = current
}

func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	res := *a
	res.Tokens = cloneMap(a.Tokens, func(t *TokenInstance) *TokenInstance { return t.Clone() })
	res.Roles = cloneMap(a.Roles, slices.Clone[[]string])
	res.LastNonces = cloneMap(a.LastNonces, func(n uint64) uint64 { return n })
	res.Storage = a.Storage.Clone()
	res.Code = slices.Clone(a.Code)
	res.CodeMetadata = slices.Clone(a.CodeMetadata)
	res.Username = slices.Clone(a.Username)
	return &res
}

func (a *Account) Equal(other *Account) bool {
	return a.Address == other.Address &&
		a.Nonce == other.Nonce &&
		a.Balance == other.Balance &&
		equalMapsIgnoringZero(a.Tokens, other.Tokens, (*TokenInstance).Equal) &&
		equalMapsIgnoringZero(a.Roles, other.Roles, slices.Equal[[]string]) &&
		equalMapsIgnoringZero(a.LastNonces, other.LastNonces, func(x, y uint64) bool { return x == y }) &&
		a.Storage.Equal(other.Storage) &&
		bytes.Equal(a.Code, other.Code) &&
		bytes.Equal(a.CodeMetadata, other.CodeMetadata) &&
		a.Owner == other.Owner &&
		bytes.Equal(a.Username, other.Username) &&
		a.DeveloperRewards == other.DeveloperRewards
}

func (a *Account) Diff(prefix string, other *Account) []string {
	var res []string
	if a.Nonce != other.Nonce {
		res = append(res, fmt.Sprintf("different nonce: %v != %v", a.Nonce, other.Nonce))
	}
	if a.Balance != other.Balance {
		res = append(res, fmt.Sprintf("different balance: %v != %v", a.Balance, other.Balance))
	}
	if !bytes.Equal(a.Code, other.Code) {
		res = append(res, fmt.Sprintf("different code: %q != %q", a.Code, other.Code))
	}
	if !bytes.Equal(a.CodeMetadata, other.CodeMetadata) {
		res = append(res, fmt.Sprintf("different code metadata: 0x%x != 0x%x", a.CodeMetadata, other.CodeMetadata))
	}
	if a.Owner != other.Owner {
		res = append(res, fmt.Sprintf("different owner: %v != %v", a.Owner, other.Owner))
	}
	if !bytes.Equal(a.Username, other.Username) {
		res = append(res, fmt.Sprintf("different username: %q != %q", a.Username, other.Username))
	}
	if a.DeveloperRewards != other.DeveloperRewards {
		res = append(res, fmt.Sprintf("different developer rewards: %v != %v", a.DeveloperRewards, other.DeveloperRewards))
	}
	res = append(res, diffMaps("Tokens/", a.Tokens, other.Tokens, func(k fidelio.TokenKey, x, y *TokenInstance) []string {
		if x.Equal(y) {
			return nil
		}
		return []string{fmt.Sprintf("different instance of %v: %v != %v", k, x, y)}
	})...)
	res = append(res, diffMaps("Roles/", a.Roles, other.Roles, func(k fidelio.TokenIdentifier, x, y []string) []string {
		if slices.Equal(x, y) {
			return nil
		}
		return []string{fmt.Sprintf("different roles for %v: %v != %v", k, x, y)}
	})...)
	res = append(res, a.Storage.Diff("Storage/", other.Storage)...)
	for i, diff := range res {
		res[i] = prefix + diff
	}
	return res
}

func (a *Account) String() string {
	return fmt.Sprintf("Account{%v, nonce: %d, balance: %v, tokens: %d, storage: %d, code: %q}",
		a.Address, a.Nonce, a.Balance, len(a.Tokens), len(a.Storage), a.Code)
}

// ----------------------------------------------------------------------------
// Tokens
// ----------------------------------------------------------------------------

func (t *TokenInstance) Clone() *TokenInstance {
	if t == nil {
		return nil
	}
	res := *t
	res.Metadata = t.Metadata.Clone()
	return &res
}

func (t *TokenInstance) Equal(other *TokenInstance) bool {
	if t == nil || other == nil {
		return t.isEmpty() && other.isEmpty()
	}
	return t.Balance == other.Balance &&
		t.Frozen == other.Frozen &&
		t.Metadata.Equal(other.Metadata)
}

func (t *TokenInstance) isEmpty() bool {
	return t == nil || (t.Balance.IsZero() && !t.Frozen)
}

func (t *TokenInstance) String() string {
	if t == nil {
		return "none"
	}
	return fmt.Sprintf("{balance: %v, frozen: %t, metadata: %t}", t.Balance, t.Frozen, t.Metadata != nil)
}

func (m *TokenMetadata) Clone() *TokenMetadata {
	if m == nil {
		return nil
	}
	return &TokenMetadata{
		Name:       slices.Clone(m.Name),
		Creator:    m.Creator,
		Royalties:  m.Royalties,
		Hash:       slices.Clone(m.Hash),
		URIs:       fidelio.CloneBytes(m.URIs),
		Attributes: slices.Clone(m.Attributes),
	}
}

func (m *TokenMetadata) Equal(other *TokenMetadata) bool {
	if m == nil || other == nil {
		return m == other
	}
	return bytes.Equal(m.Name, other.Name) &&
		m.Creator == other.Creator &&
		m.Royalties == other.Royalties &&
		bytes.Equal(m.Hash, other.Hash) &&
		slices.EqualFunc(m.URIs, other.URIs, bytes.Equal) &&
		bytes.Equal(m.Attributes, other.Attributes)
}

// ----------------------------------------------------------------------------
// Storage
// ----------------------------------------------------------------------------

// Storage represents the storage of an account. Empty values are ignored.
type Storage map[string][]byte

func (s Storage) Equal(other Storage) bool {
	return equalMapsIgnoringZero(s, other, bytes.Equal)
}

func (s Storage) Clone() Storage {
	return cloneMap(s, slices.Clone[[]byte])
}

// Keys lists the storage keys in ascending order.
func (s Storage) Keys() []string {
	keys := maps.Keys(s)
	sort.Strings(keys)
	return keys
}

func (s Storage) Diff(prefix string, other Storage) []string {
	return diffMaps(prefix, s, other, func(k string, a, b []byte) []string {
		if bytes.Equal(a, b) {
			return nil
		}
		return []string{
			fmt.Sprintf("different value for key 0x%x: 0x%x != 0x%x", k, a, b),
		}
	})
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

func cloneMap[K comparable, V any](m map[K]V, clone func(V) V) map[K]V {
	if m == nil {
		return nil
	}
	res := make(map[K]V, len(m))
	for k, v := range m {
		res[k] = clone(v)
	}
	return res
}

// equalMapsIgnoringZero compares two maps, ignoring zero-valued entries.
func equalMapsIgnoringZero[K comparable, V any](a, b map[K]V, equal func(V, V) bool) bool {
	for k, v := range a {
		if !equal(v, b[k]) {
			return false
		}
	}
	for k, v := range b {
		if !equal(v, a[k]) {
			return false
		}
	}
	return true
}

// diffMaps compares two maps and returns a sorted list of differences.
func diffMaps[K comparable, V any](prefix string, a, b map[K]V, diff func(K, V, V) []string) []string {
	var diffs []string
	for k, v := range a {
		diffs = append(diffs, diff(k, v, b[k])...)
	}
	for k, v := range b {
		if _, overlap := a[k]; !overlap {
			diffs = append(diffs, diff(k, a[k], v)...)
		}
	}
	for i, diff := range diffs {
		diffs[i] = prefix + diff
	}
	sort.Strings(diffs)
	return diffs
}
