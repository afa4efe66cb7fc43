// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

type filterFlagType struct {
	cli.StringFlag
}

var FilterFlag = &filterFlagType{
	cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "process only traces which name matches the given regex",
		Value:   ".*",
	},
}

func (f *filterFlagType) Fetch(context *cli.Context) (*regexp.Regexp, error) {
	return regexp.Compile(context.String(f.Name))
}

type jobsFlagType struct {
	cli.IntFlag
}

var JobsFlag = &jobsFlagType{
	cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "number of jobs run simultaneously",
		Value:   runtime.NumCPU(),
	},
}

func (f *jobsFlagType) Fetch(context *cli.Context) int {
	jobs := context.Int(f.Name)
	if jobs <= 0 {
		return runtime.NumCPU()
	}
	return jobs
}

type maxErrorsFlagType struct {
	cli.IntFlag
}

var MaxErrorsFlag = &maxErrorsFlagType{
	cli.IntFlag{
		Name:  "max-errors",
		Usage: "aborts processing after the given number of issues",
		Value: -1,
	},
}

// Fetch returns the maximum number of issues; zero or less is unlimited.
func (f *maxErrorsFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type argFlagType struct {
	cli.IntFlag
}

var ArgFlag = &argFlagType{
	cli.IntFlag{
		Name:  "arg",
		Usage: "the argument passed to each example",
		Value: 10,
	},
}

func (f *argFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type iterationsFlagType struct {
	cli.IntFlag
}

var IterationsFlag = &iterationsFlagType{
	cli.IntFlag{
		Name:    "iterations",
		Aliases: []string{"n"},
		Usage:   "the number of runs of each example",
		Value:   100,
	},
}

func (f *iterationsFlagType) Fetch(context *cli.Context) (int, error) {
	iterations := context.Int(f.Name)
	if iterations <= 0 {
		return 0, fmt.Errorf("number of iterations must be positive, got %d", iterations)
	}
	return iterations, nil
}

type backendFlagType struct {
	cli.StringFlag
}

var BackendFlag = &backendFlagType{
	cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Usage:   "the runner executing the steps, see the list command for options",
		Value:   "mock",
	},
}

func (f *backendFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type backendCommandFlagType struct {
	cli.StringFlag
}

var BackendCommandFlag = &backendCommandFlagType{
	cli.StringFlag{
		Name:  "backend-cmd",
		Usage: "command line starting the backend process of the exec runner",
	},
}

func (f *backendCommandFlagType) Fetch(context *cli.Context) []string {
	return strings.Fields(context.String(f.Name))
}

type recordFlagType struct {
	cli.StringFlag
}

var RecordFlag = &recordFlagType{
	cli.StringFlag{
		Name:      "record",
		Usage:     "record all executed steps and their responses into the provided trace file",
		TakesFile: true,
	},
}

func (f *recordFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type verbosityFlagType struct {
	cli.IntFlag
}

var VerbosityFlag = &verbosityFlagType{
	cli.IntFlag{
		Name:  "verbosity",
		Usage: "logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	},
}

func (f *verbosityFlagType) Fetch(context *cli.Context) slog.Level {
	return log.FromLegacyLevel(context.Int(f.Name))
}

type cpuProfileType struct {
	cli.StringFlag
}

var CpuProfileFlag = &cpuProfileType{
	cli.StringFlag{
		Name:      "cpuprofile",
		Usage:     "store CPU profile in the provided filename",
		TakesFile: true,
	},
}

func (f *cpuProfileType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

// SetupLogging installs a terminal logger on the standard error stream as
// the default logger. Standard output is reserved for command results.
func SetupLogging(context *cli.Context) error {
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, VerbosityFlag.Fetch(context), false)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

var commonFlags = []cli.Flag{
	CpuProfileFlag,
}

func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {

		if cpuprofileFilename := CpuProfileFlag.Fetch(ctx); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}
