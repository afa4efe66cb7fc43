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
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	cliUtils "github.com/Fantom-foundation/Fidelio/go/driver/cli"
	"github.com/Fantom-foundation/Fidelio/go/scenario"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var RunCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run scenario traces in order on a single runner session",
	ArgsUsage: "<trace file or directory>...",
	Flags: []cli.Flag{
		cliUtils.BackendFlag,
		cliUtils.BackendCommandFlag,
		cliUtils.RecordFlag,
		cliUtils.FilterFlag,
		cliUtils.MaxErrorsFlag,
	},
})

func doRun(context *cli.Context) error {
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

	maxErrors := cliUtils.MaxErrorsFlag.Fetch(context)
	if maxErrors <= 0 {
		maxErrors = math.MaxInt
	}

	backend := cliUtils.BackendFlag.Fetch(context)
	if scenario.GetRunnerFactory(backend) == nil {
		return fmt.Errorf("invalid backend, use one of: %v", maps.Keys(scenario.GetAllRegisteredRunners()))
	}
	backendRunner, err := scenario.NewRunner(backend, scenario.Config{
		Command:    cliUtils.BackendCommandFlag.Fetch(context),
		DumpWriter: context.App.Writer,
	})
	if err != nil {
		return err
	}
	defer closeRunner(backendRunner)

	runner := backendRunner
	recordPath := cliUtils.RecordFlag.Fetch(context)
	var recorder *scenario.TraceRunner
	if recordPath != "" {
		recorder = scenario.NewTraceRunner(strings.TrimSuffix(filepath.Base(recordPath), filepath.Ext(recordPath)))
		runner = scenario.NewListRunner(backendRunner, recorder)
	}

	out := context.App.Writer
	issues := cliUtils.IssuesCollector{}
	skipped := 0
	fmt.Fprintf(out, "Running %d traces on backend %s ...\n", len(inputs), backend)
	for _, input := range inputs {
		tstart := time.Now()
		trace, err := scenario.LoadTrace(input)
		if err != nil {
			fmt.Fprintf(out, "Failed to load %v: %v\n", input, err)
			issues.AddIssue(input, err)
			continue
		}
		if !filter.MatchString(trace.Name) {
			skipped++
			continue
		}
		if err := scenario.RunSteps(runner, trace.Steps); err != nil {
			fmt.Fprintf(out, "FAILED: %v\n", input)
			issues.AddIssue(input, err)
			if errors.Is(err, scenario.ErrRunnerPoisoned) {
				fmt.Fprintf(out, "Runner is poisoned, skipping remaining traces\n")
				break
			}
			if issues.NumIssues() >= maxErrors {
				fmt.Fprintf(out, "Reached maximum number of errors, skipping remaining traces\n")
				break
			}
			continue
		}
		fmt.Fprintf(out, "OK: %v (%d steps, %v)\n", input, len(trace.Steps), time.Since(tstart).Round(time.Millisecond))
	}

	if recorder != nil {
		if err := recorder.Save(recordPath); err != nil {
			return fmt.Errorf("failed to save recorded trace: %w", err)
		}
		fmt.Fprintf(out, "Recorded %d steps to %s\n", len(recorder.Trace().Steps), recordPath)
	}

	if skipped > 0 {
		fmt.Fprintf(out, "Number of skipped traces: %d\n", skipped)
	}
	if issues.NumIssues() == 0 {
		fmt.Fprintf(out, "All traces passed successfully!\n")
		return nil
	}
	issues.PrintIssues(out)
	return fmt.Errorf("failed to pass %d traces", issues.NumIssues())
}

// closeRunner shuts down runners holding external resources.
func closeRunner(runner scenario.Runner) {
	if closer, ok := runner.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warn("Failed to close runner", "err", err)
		}
	}
}
