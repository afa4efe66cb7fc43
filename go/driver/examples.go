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
	"time"

	cliUtils "github.com/Fantom-foundation/Fidelio/go/driver/cli"
	"github.com/Fantom-foundation/Fidelio/go/examples"
	"github.com/Fantom-foundation/Fidelio/go/processor"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

var ExamplesCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doExamples,
	Name:   "examples",
	Usage:  "Run the example contracts and compare their results with reference implementations",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
		cliUtils.ArgFlag,
		cliUtils.IterationsFlag,
	},
})

func doExamples(context *cli.Context) error {
	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}
	argument := cliUtils.ArgFlag.Fetch(context)
	iterations, err := cliUtils.IterationsFlag.Fetch(context)
	if err != nil {
		return err
	}

	p, err := processor.New(processor.Config{})
	if err != nil {
		return err
	}

	out := context.App.Writer
	failed := 0
	for _, example := range examples.GetAllExamples() {
		if !filter.MatchString(example.Name) {
			continue
		}
		want := example.RunReference(argument)
		tstart := time.Now()
		var err error
		for i := 0; i < iterations && err == nil; i++ {
			var res examples.Result
			res, err = example.RunOn(p, argument)
			if err == nil && res.Result != want {
				err = fmt.Errorf("unexpected result, wanted %d, got %d", want, res.Result)
			}
		}
		if err != nil {
			fmt.Fprintf(out, "FAILED: %s(%d): %v\n", example.Name, argument, err)
			failed++
			continue
		}
		rate := float64(iterations) / time.Since(tstart).Seconds()
		fmt.Fprintf(out, "OK: %s(%d) = %d (~%s runs per second)\n",
			example.Name, argument, want, unitconv.FormatPrefix(rate, unitconv.SI, 0))
	}
	if failed > 0 {
		return fmt.Errorf("%d examples failed", failed)
	}
	return nil
}
