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
	"sort"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"golang.org/x/exp/maps"
)

// Update is the complete set of changes produced by a transaction. It is
// staged until merged into a World or into a parent Cache.
type Update struct {
	Accounts     map[fidelio.Address]*Account
	NewAddresses map[NewAddressKey]fidelio.Address
	IssuedTokens []fidelio.TokenIdentifier
}

func (u *Update) Empty() bool {
	return u == nil || (len(u.Accounts) == 0 && len(u.NewAddresses) == 0 && len(u.IssuedTokens) == 0)
}

// Addresses lists the modified accounts in ascending order.
func (u *Update) Addresses() []fidelio.Address {
	if u == nil {
		return nil
	}
	res := maps.Keys(u.Accounts)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i][:], res[j][:]) < 0
	})
	return res
}
