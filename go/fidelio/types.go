// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fidelio

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Address represents the 256-bit (32 bytes) address of an account. Smart
// contract addresses start with 8 zero bytes.
type Address [32]byte

// Hash represents the 256-bit (32 bytes) hash of a code, a transaction or
// similar cryptographic summary information.
type Hash [32]byte

// Code represents the code of a contract. Codes are resolved through the
// contract registry, thus any byte sequence naming a registered contract is
// valid code.
type Code []byte

// Data represents the input or output of contract invocations.
type Data []byte

// Value represents an unsigned 256-bit amount of the native currency or of a
// token.
type Value [32]byte

// TokenIdentifier names a token type, e.g. "WEGLD-bd4d79". The native
// currency is named EGLD and carries no random suffix.
type TokenIdentifier string

// TokenKey identifies a token instance held by an account. Fungible tokens
// use nonce 0.
type TokenKey struct {
	Identifier TokenIdentifier
	Nonce      uint64
}

// TokenTransfer is a single token movement attached to a call.
type TokenTransfer struct {
	Token  TokenIdentifier `json:"token"`
	Nonce  uint64          `json:"nonce,omitempty"`
	Amount Value           `json:"amount"`
}

// Payment summarizes the native and token value attached to a call.
type Payment struct {
	EGLD   Value           `json:"egld"`
	Tokens []TokenTransfer `json:"tokens,omitempty"`
}

// BlockInfo describes the block a transaction is executed in.
type BlockInfo struct {
	Nonce      uint64 `json:"nonce"`
	Round      uint64 `json:"round"`
	Epoch      uint64 `json:"epoch"`
	Timestamp  uint64 `json:"timestamp"`
	RandomSeed Hash   `json:"randomSeed"`
}

const NativeToken = TokenIdentifier("EGLD")

// The token roles recognized by the builtin operations.
const (
	RoleLocalMint            = "ESDTRoleLocalMint"
	RoleLocalBurn            = "ESDTRoleLocalBurn"
	RoleNFTCreate            = "ESDTRoleNFTCreate"
	RoleNFTAddQuantity       = "ESDTRoleNFTAddQuantity"
	RoleNFTBurn              = "ESDTRoleNFTBurn"
	RoleNFTUpdateAttributes  = "ESDTRoleNFTUpdateAttributes"
	RoleNFTAddURI            = "ESDTRoleNFTAddURI"
	RoleTransfer             = "ESDTTransferRole"
	maxTokenTickerLength     = 10
	minTokenTickerLength     = 3
	tokenRandomSuffixLength  = 6
	smartContractPrefixBytes = 8
)

var knownRoles = map[string]bool{
	RoleLocalMint:           true,
	RoleLocalBurn:           true,
	RoleNFTCreate:           true,
	RoleNFTAddQuantity:      true,
	RoleNFTBurn:             true,
	RoleNFTUpdateAttributes: true,
	RoleNFTAddURI:           true,
	RoleTransfer:            true,
}

// IsKnownRole reports whether the given role name is one of the token roles
// handled by the builtin operations.
func IsKnownRole(role string) bool {
	return knownRoles[role]
}

// --- Address ---

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return bytesToText(a[:])
}

func (a *Address) UnmarshalText(data []byte) error {
	return textToBytes(a[:], data)
}

// IsSmartContract reports whether the address is in the range reserved for
// contract accounts.
func (a Address) IsSmartContract() bool {
	for _, b := range a[:smartContractPrefixBytes] {
		if b != 0 {
			return false
		}
	}
	return true
}

// AddressFromName produces the address of a user account named in a test
// scenario. The name is padded with underscores, or truncated, to 32 bytes.
func AddressFromName(name string) Address {
	var res Address
	fillName(res[:], name)
	return res
}

// SmartContractAddressFromName produces a contract address for the given
// name, using the reserved zero prefix followed by the padded name.
func SmartContractAddressFromName(name string) Address {
	var res Address
	fillName(res[smartContractPrefixBytes:], name)
	return res
}

func fillName(trg []byte, name string) {
	n := copy(trg, name)
	for i := n; i < len(trg); i++ {
		trg[i] = '_'
	}
}

// AddressFromBytes converts the given byte slice into an address. The slice
// must have exactly 32 bytes.
func AddressFromBytes(data []byte) (Address, error) {
	var res Address
	if len(data) != len(res) {
		return res, fmt.Errorf("%w: address must have %d bytes, got %d", ErrInvalidArguments, len(res), len(data))
	}
	copy(res[:], data)
	return res, nil
}

// --- Hash ---

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return bytesToText(h[:])
}

func (h *Hash) UnmarshalText(data []byte) error {
	return textToBytes(h[:], data)
}

// --- Value ---

// NewValue creates a new Value instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewValue(args ...uint64) (result Value) {
	if len(args) > 4 {
		panic("too many arguments")
	}
	offset := 4 - len(args)
	for i, arg := range args {
		start := (offset + i) * 8
		binary.BigEndian.PutUint64(result[start:start+8], arg)
	}
	return
}

// ValueFromUint256 converts a *uint256.Int to a Value.
// If the input is nil, it returns 0.
func ValueFromUint256(value *uint256.Int) Value {
	if value == nil {
		return Value{}
	}
	return value.Bytes32()
}

// ValueFromBytes interprets the given bytes as a big-endian unsigned number.
// Empty inputs are zero, inputs longer than 32 bytes are rejected.
func ValueFromBytes(data []byte) (Value, error) {
	var res Value
	if len(data) > len(res) {
		return res, fmt.Errorf("%w: amount exceeds %d bytes", ErrInvalidArguments, len(res))
	}
	copy(res[len(res)-len(data):], data)
	return res, nil
}

func (v Value) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(v[:])
}

func (v Value) ToBig() *big.Int {
	return new(big.Int).SetBytes(v[:])
}

// Bytes returns the minimal big-endian encoding of the value. Zero is
// encoded as an empty slice.
func (v Value) Bytes() []byte {
	return v.ToUint256().Bytes()
}

func (v Value) IsZero() bool {
	return v == Value{}
}

func (v Value) Cmp(o Value) int {
	return v.ToUint256().Cmp(o.ToUint256())
}

func (v Value) String() string {
	return v.ToUint256().Dec()
}

// Add computes a + b, wrapping around on overflow.
func Add(a, b Value) Value {
	return ValueFromUint256(new(uint256.Int).Add(a.ToUint256(), b.ToUint256()))
}

// Sub computes a - b, wrapping around on underflow.
func Sub(a, b Value) Value {
	return ValueFromUint256(new(uint256.Int).Sub(a.ToUint256(), b.ToUint256()))
}

// AddChecked computes a + b and reports whether the result overflowed.
func AddChecked(a, b Value) (Value, bool) {
	res, overflow := new(uint256.Int).AddOverflow(a.ToUint256(), b.ToUint256())
	return ValueFromUint256(res), overflow
}

// SubChecked computes a - b and reports whether the result underflowed.
func SubChecked(a, b Value) (Value, bool) {
	res, underflow := new(uint256.Int).SubOverflow(a.ToUint256(), b.ToUint256())
	return ValueFromUint256(res), underflow
}

// MarshalText encodes values as decimal numbers, the way amounts are written
// in scenario files.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts decimal numbers, optionally using '_' or ',' as
// digit separators, and 0x-prefixed hex numbers.
func (v *Value) UnmarshalText(data []byte) error {
	text := strings.NewReplacer("_", "", ",", "").Replace(string(data))
	if text == "" {
		*v = Value{}
		return nil
	}
	base := 10
	if strings.HasPrefix(text, "0x") {
		text, base = text[2:], 16
	}
	parsed, ok := new(big.Int).SetString(text, base)
	if !ok || parsed.Sign() < 0 {
		return fmt.Errorf("invalid value %q", string(data))
	}
	res, overflow := uint256.FromBig(parsed)
	if overflow {
		return fmt.Errorf("invalid value %q: exceeds 256 bits", string(data))
	}
	*v = ValueFromUint256(res)
	return nil
}

// --- Tokens ---

var tokenIdentifierPattern = regexp.MustCompile(`^([A-Z0-9]{3,10})-([0-9a-f]{6})$`)

// Ticker returns the human-readable prefix of the identifier.
func (t TokenIdentifier) Ticker() string {
	ticker, _, _ := strings.Cut(string(t), "-")
	return ticker
}

// Validate checks that the identifier has the form TICKER-abcdef.
func (t TokenIdentifier) Validate() error {
	if !tokenIdentifierPattern.MatchString(string(t)) {
		return fmt.Errorf("%w: invalid token identifier %q", ErrInvalidArguments, string(t))
	}
	return nil
}

// ValidateTicker checks that the given ticker may be used to issue a token.
func ValidateTicker(ticker string) error {
	if len(ticker) < minTokenTickerLength || len(ticker) > maxTokenTickerLength {
		return fmt.Errorf("%w: ticker length must be between %d and %d", ErrInvalidArguments, minTokenTickerLength, maxTokenTickerLength)
	}
	for _, c := range ticker {
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return fmt.Errorf("%w: ticker %q must be upper-case alphanumeric", ErrInvalidArguments, ticker)
		}
	}
	return nil
}

func (k TokenKey) String() string {
	if k.Nonce == 0 {
		return string(k.Identifier)
	}
	return fmt.Sprintf("%s-%02x", k.Identifier, NonceBytes(k.Nonce))
}

// NonceBytes encodes a token nonce as a minimal big-endian byte string, the
// encoding used in log topics. Nonce 0 is encoded as an empty slice.
func NonceBytes(nonce uint64) []byte {
	var buffer [8]byte
	binary.BigEndian.PutUint64(buffer[:], nonce)
	i := 0
	for i < len(buffer) && buffer[i] == 0 {
		i++
	}
	return append([]byte{}, buffer[i:]...)
}

// NonceFromBytes decodes a big-endian nonce of at most 8 bytes.
func NonceFromBytes(data []byte) (uint64, error) {
	if len(data) > 8 {
		return 0, fmt.Errorf("%w: nonce exceeds 8 bytes", ErrInvalidArguments)
	}
	var buffer [8]byte
	copy(buffer[8-len(data):], data)
	return binary.BigEndian.Uint64(buffer[:]), nil
}

func (p Payment) IsEmpty() bool {
	return p.EGLD.IsZero() && len(p.Tokens) == 0
}

func (p Payment) Clone() Payment {
	return Payment{
		EGLD:   p.EGLD,
		Tokens: append([]TokenTransfer(nil), p.Tokens...),
	}
}

// --- Helpers ---

func bytesToText(data []byte) ([]byte, error) {
	return []byte(hexutil.Encode(data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	decoded, err := hexutil.Decode(string(data))
	if err != nil {
		return err
	}
	if want, got := len(trg), len(decoded); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(trg, decoded)
	return nil
}

// CloneBytes creates a deep copy of a list of byte strings.
func CloneBytes(list [][]byte) [][]byte {
	if list == nil {
		return nil
	}
	res := make([][]byte, len(list))
	for i, cur := range list {
		res[i] = append([]byte{}, cur...)
	}
	return res
}
