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
	"io"
	"math"
	"regexp"
	"sync/atomic"
	"time"

	cliUtils "github.com/Fantom-foundation/Fidelio/go/driver/cli"
	"github.com/Fantom-foundation/Fidelio/go/scenario"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

var ReplayCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doReplay,
	Name:      "replay",
	Usage:     "Replay recorded traces and compare the observed with the recorded responses",
	ArgsUsage: "<trace file or directory>...",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
		cliUtils.JobsFlag,
		cliUtils.MaxErrorsFlag,
	},
})

func doReplay(context *cli.Context) error {
	inputs, err := cliUtils.EnumerateInputs(context.Args().Slice())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no trace files provided")
	}

	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}
	jobCount := cliUtils.JobsFlag.Fetch(context)
	maxErrors := cliUtils.MaxErrorsFlag.Fetch(context)
	if maxErrors <= 0 {
		maxErrors = math.MaxInt
	}

	out := context.App.Writer
	issues := cliUtils.IssuesCollector{}
	var numReplayed atomic.Int32
	var numSkipped atomic.Int32

	printIssueCounts := func(relativeTime time.Duration, rate float64, current int64) {
		fmt.Fprintf(out,
			"[t=%4d:%02d] - Processing ~%s steps per second, total %d, traces %d, skipped %d, found issues %d\n",
			int(relativeTime.Seconds())/60, int(relativeTime.Seconds())%60,
			unitconv.FormatPrefix(rate, unitconv.SI, 0), current,
			numReplayed.Load(), numSkipped.Load(), issues.NumIssues(),
		)
	}

	opReplay := func(input string) (int, bool) {
		steps, replayed, err := replayTrace(input, filter)
		if err != nil {
			issues.AddIssue(input, err)
		} else if replayed {
			numReplayed.Add(1)
		} else {
			numSkipped.Add(1)
		}
		return steps, issues.NumIssues() >= maxErrors
	}

	fmt.Fprintf(out, "Replaying %d traces using %d jobs ...\n", len(inputs), jobCount)
	forEachInput(inputs, opReplay, printIssueCounts, jobCount)

	if numSkipped.Load() > 0 {
		fmt.Fprintf(out, "Number of skipped traces: %d\n", numSkipped.Load())
	}
	if issues.NumIssues() == 0 {
		fmt.Fprintf(out, "All traces replayed successfully!\n")
		return nil
	}
	issues.PrintIssues(out)
	return fmt.Errorf("failed to replay %d traces", issues.NumIssues())
}

// replayTrace replays the trace stored in the given file on a fresh
// in-process runner. It reports the number of executed steps and whether
// the trace was selected by the filter.
func replayTrace(path string, filter *regexp.Regexp) (int, bool, error) {
	trace, err := scenario.LoadTrace(path)
	if err != nil {
		return 0, false, err
	}
	if !filter.MatchString(trace.Name) {
		return 0, false, nil
	}
	runner, err := scenario.NewMockRunner(scenario.Config{DumpWriter: io.Discard})
	if err != nil {
		return 0, false, err
	}
	if err := scenario.Replay(trace, runner); err != nil {
		return 0, true, err
	}
	return len(trace.Steps), true, nil
}
