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
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
)

// DumpState renders the given accounts as a table. Accounts are listed
// with one row each, followed by one row per token and storage entry.
func DumpState(out io.Writer, title string, accounts []*world.Account) error {
	if title != "" {
		if _, err := fmt.Fprintf(out, "%s\n", title); err != nil {
			return err
		}
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Address", "Nonce", "Balance", "Code", "Entry", "Value"})
	table.SetAutoWrapText(false)
	for _, account := range accounts {
		table.Append([]string{
			account.Address.String(),
			fmt.Sprintf("%d", account.Nonce),
			account.Balance.String(),
			string(account.Code),
			"", "",
		})
		for _, key := range sortedTokenKeys(account.Tokens) {
			instance := account.Tokens[key]
			value := instance.Balance.String()
			if instance.Frozen {
				value += " (frozen)"
			}
			table.Append([]string{"", "", "", "", "token " + key.String(), value})
		}
		tokens := maps.Keys(account.Roles)
		slices.Sort(tokens)
		for _, token := range tokens {
			table.Append([]string{"", "", "", "", "roles " + string(token), strings.Join(account.Roles[token], ",")})
		}
		for _, key := range account.Storage.Keys() {
			table.Append([]string{"", "", "", "",
				"storage " + hexutil.Encode([]byte(key)),
				hexutil.Encode(account.Storage[key]),
			})
		}
	}
	table.SetFooter([]string{"", "", "", "", "Accounts", fmt.Sprintf("%d", len(accounts))})
	table.Render()
	return nil
}
