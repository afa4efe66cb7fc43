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
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/ethereum/go-ethereum/crypto"
)

// VMType is the 2-byte marker embedded in contract addresses naming the
// virtual machine the contract was deployed for.
var VMType = [2]byte{0x05, 0x00}

const (
	numInitialZeroBytes = 8
	numCreatorSuffix    = 2
)

// NewAddressKey identifies a deploy by the creator and the nonce the creator
// had before the deploying transaction.
type NewAddressKey struct {
	Creator fidelio.Address
	Nonce   uint64
}

func (k NewAddressKey) String() string {
	return fmt.Sprintf("%v/%d", k.Creator, k.Nonce)
}

// NewContractAddress derives the address of a contract deployed by the given
// creator using the given pre-increment nonce. The layout is 8 zero bytes,
// the VM type, 20 bytes of Keccak256(creator || nonce), and the last two
// bytes of the creator address.
func NewContractAddress(creator fidelio.Address, nonce uint64) fidelio.Address {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)
	hash := crypto.Keccak256(creator[:], nonceBytes[:])

	var res fidelio.Address
	offset := numInitialZeroBytes
	offset += copy(res[offset:], VMType[:])
	hashPart := len(res) - offset - numCreatorSuffix
	copy(res[offset:], hash[len(hash)-hashPart-numCreatorSuffix:len(hash)-numCreatorSuffix])
	copy(res[len(res)-numCreatorSuffix:], creator[len(creator)-numCreatorSuffix:])
	return res
}

// newTokenIdentifier derives the identifier of the n-th token issued in the
// ledger for the given ticker.
func newTokenIdentifier(ticker string, n uint64) fidelio.TokenIdentifier {
	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], n)
	hash := crypto.Keccak256([]byte(ticker), counter[:])
	return fidelio.TokenIdentifier(ticker + "-" + hex.EncodeToString(hash[:3]))
}
