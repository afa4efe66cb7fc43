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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/examples"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/scenario"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

var alice = fidelio.AddressFromName("alice")

// runApp runs the driver with the given arguments and returns its output.
func runApp(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(input)
	err := app.Run(append([]string{"fidelio", "--verbosity", "0"}, args...))
	return out.String(), err
}

func adderSteps(sum byte) []scenario.Step {
	adder := world.NewContractAddress(alice, 0)
	return []scenario.Step{
		&scenario.SetStateStep{Accounts: []scenario.AccountState{{Address: alice}}},
		&scenario.ScDeployStep{ID: "deploy", From: alice, Code: string(examples.AdderCode), Arguments: []hexutil.Bytes{{5}}},
		&scenario.ScCallStep{ID: "add", From: alice, To: adder, Function: "add", Arguments: []hexutil.Bytes{{7}}},
		&scenario.ScQueryStep{ID: "sum", To: adder, Function: "getSum", Expect: scenario.Expect([]byte{sum})},
		&scenario.DumpStateStep{},
	}
}

func writeTrace(t *testing.T, dir, name string, steps []scenario.Step) string {
	t.Helper()
	path := filepath.Join(dir, name+".json")
	require.NoError(t, scenario.SaveTrace(&scenario.Trace{Name: name, Steps: steps}, path))
	return path
}

func TestRun_ExecutesTraces(t *testing.T) {
	path := writeTrace(t, t.TempDir(), "adder", adderSteps(12))
	out, err := runApp(t, "", "run", path)
	require.NoError(t, err, out)
	require.Contains(t, out, "OK: "+path)
	require.Contains(t, out, "All traces passed successfully!")
}

func TestRun_ReportsFailingTraces(t *testing.T) {
	dir := t.TempDir()
	path := writeTrace(t, dir, "adder", adderSteps(13))
	out, err := runApp(t, "", "run", dir)
	require.ErrorContains(t, err, "failed to pass 1 traces")
	require.Contains(t, out, "FAILED: "+path)
	require.Contains(t, out, "want [0x0d], got [0x0c]")
}

func TestRun_StopsAfterMaximumNumberOfErrors(t *testing.T) {
	dir := t.TempDir()
	nonce := uint64(5)
	failing := []scenario.Step{
		&scenario.SetStateStep{Accounts: []scenario.AccountState{{Address: alice}}},
		&scenario.CheckStateStep{Accounts: []scenario.AccountExpect{{Address: alice, Nonce: &nonce}}},
	}
	first := writeTrace(t, dir, "a", failing)
	second := writeTrace(t, dir, "b", failing)

	out, err := runApp(t, "", "run", "--max-errors", "1", first, second)
	require.ErrorContains(t, err, "failed to pass 1 traces")
	require.Contains(t, out, "Reached maximum number of errors")
	require.NotContains(t, out, "FAILED: "+second)

	out, err = runApp(t, "", "run", first, second)
	require.ErrorContains(t, err, "failed to pass 2 traces")
	require.Contains(t, out, "FAILED: "+second)
}

func TestExamples_RejectsNonPositiveIterations(t *testing.T) {
	_, err := runApp(t, "", "examples", "--iterations", "0")
	require.ErrorContains(t, err, "number of iterations must be positive")
}

func TestRun_FilterSkipsTraces(t *testing.T) {
	path := writeTrace(t, t.TempDir(), "adder", adderSteps(13))
	out, err := runApp(t, "", "run", "--filter", "^other$", path)
	require.NoError(t, err, out)
	require.Contains(t, out, "Number of skipped traces: 1")
}

func TestRun_RejectsInvalidInvocations(t *testing.T) {
	path := writeTrace(t, t.TempDir(), "adder", adderSteps(12))
	tests := map[string][]string{
		"no inputs":       {"run"},
		"missing input":   {"run", filepath.Join(t.TempDir(), "missing.json")},
		"unknown backend": {"run", "--backend", "unknown", path},
		"exec no command": {"run", "--backend", "exec", path},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := runApp(t, "", args...); err == nil {
				t.Errorf("expected invocation to fail")
			}
		})
	}
}

func TestRun_RecordedTracesCanBeReplayed(t *testing.T) {
	dir := t.TempDir()
	path := writeTrace(t, dir, "adder", adderSteps(12))
	recorded := filepath.Join(t.TempDir(), "recorded.json")

	out, err := runApp(t, "", "run", "--record", recorded, path)
	require.NoError(t, err, out)
	require.Contains(t, out, "Recorded 5 steps to "+recorded)

	trace, err := scenario.LoadTrace(recorded)
	require.NoError(t, err)
	require.Equal(t, "recorded", trace.Name)
	deploy := trace.Steps[1].(*scenario.ScDeployStep)
	require.NotNil(t, deploy.Response)
	require.Equal(t, world.NewContractAddress(alice, 0), *deploy.Response.NewAddress)

	out, err = runApp(t, "", "replay", "--jobs", "2", recorded)
	require.NoError(t, err, out)
	require.Contains(t, out, "All traces replayed successfully!")
}

func TestReplay_DetectsChangedResponses(t *testing.T) {
	dir := t.TempDir()
	recorded := filepath.Join(dir, "recorded.json")
	_, err := runApp(t, "", "run", "--record", recorded, writeTrace(t, t.TempDir(), "adder", adderSteps(12)))
	require.NoError(t, err)

	trace, err := scenario.LoadTrace(recorded)
	require.NoError(t, err)
	trace.Steps[3].(*scenario.ScQueryStep).Response.Out = []hexutil.Bytes{{42}}
	require.NoError(t, scenario.SaveTrace(trace, recorded))
	writeTrace(t, dir, "unchanged", adderSteps(12))

	out, err := runApp(t, "", "replay", dir)
	require.ErrorContains(t, err, "failed to replay 1 traces")
	require.Contains(t, out, recorded)
	require.Contains(t, out, "step 3 (scQuery)")
}

func TestList_PrintsRegisteredComponents(t *testing.T) {
	out, err := runApp(t, "", "list")
	require.NoError(t, err)
	for _, want := range []string{"runners:", "  mock", "builtins:", "  ESDTLocalMint", "contracts:", "  mxsc:adder", "  mxsc:forwarder"} {
		require.Contains(t, out, want+"\n")
	}
}

func TestServe_RepliesToEveryStep(t *testing.T) {
	out, err := runApp(t, "{\"dumpState\":{}}\n{\"mint\":{}}\n", "serve")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "{}", lines[0])
	require.Contains(t, lines[1], `"kind":"failure"`)
}

func TestExamples_RunAllExamples(t *testing.T) {
	out, err := runApp(t, "", "examples", "--arg", "5", "--iterations", "2")
	require.NoError(t, err, out)
	require.Contains(t, out, "OK: fib(5) = 5")
	require.Contains(t, out, "OK: static_overhead(5) = 5")
}
