// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"sort"

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/scenario"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var ListCmd = cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List all registered runners, builtin functions, and contracts",
}

func doList(context *cli.Context) error {
	out := context.App.Writer
	printSection := func(title string, names []string) {
		sort.Strings(names)
		fmt.Fprintf(out, "%s:\n", title)
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	printSection("runners", maps.Keys(scenario.GetAllRegisteredRunners()))
	printSection("builtins", builtin.Default().Names())
	printSection("contracts", maps.Keys(fidelio.GetAllRegisteredContracts()))
	return nil
}
