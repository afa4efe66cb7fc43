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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

// exampleSteps covers every kind of step the in-process runner records.
func exampleSteps() []Step {
	address := world.NewContractAddress(alice, 0)
	return []Step{
		&SetStateStep{
			Comment: "setup",
			Accounts: []AccountState{
				{Address: alice, Balance: fidelio.NewValue(1_000)},
				{Address: operator},
			},
			CurrentBlockInfo: &fidelio.BlockInfo{Nonce: 7},
		},
		&ScDeployStep{ID: "deploy", From: alice, Code: counterCode, Arguments: []hexutil.Bytes{{1}}},
		&ScCallStep{ID: "increment", From: alice, To: address, Function: "increment", Expect: Expect([]byte{2})},
		&ScCallStep{
			ID:        "mint",
			From:      operator,
			To:        alice,
			Function:  builtin.ESDTLocalMint,
			Arguments: []hexutil.Bytes{[]byte(testToken), fidelio.NewValue(1000).Bytes()},
		},
		&ScCallStep{ID: "failing", From: alice, To: address, Function: "unknown"},
		&ScQueryStep{ID: "get", To: address, Function: "get"},
		&TransferStep{ID: "pay", From: alice, To: bob, Payment: fidelio.Payment{
			EGLD:   fidelio.NewValue(10),
			Tokens: []fidelio.TokenTransfer{{Token: testToken, Amount: fidelio.NewValue(400)}},
		}},
		&ValidatorRewardStep{Address: bob, Reward: fidelio.NewValue(3)},
		&CheckStateStep{Accounts: []AccountExpect{{Address: bob, Nonce: nonce(0)}}},
		&DumpStateStep{},
	}
}

func record(t *testing.T, steps []Step) *Trace {
	t.Helper()
	recorder := NewTraceRunner("example")
	mustRun(t, NewListRunner(newTestRunner(t), recorder), steps...)
	return recorder.Trace()
}

func TestTrace_RecordedRunReplaysIdentically(t *testing.T) {
	require := require.New(t)
	trace := record(t, exampleSteps())
	require.Len(trace.Steps, len(exampleSteps()))

	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(SaveTrace(trace, path))
	loaded, err := LoadTrace(path)
	require.NoError(err)
	require.Equal("example", loaded.Name)

	require.NoError(Replay(loaded, newTestRunner(t)))
}

func TestTrace_RecordingCapturesResponses(t *testing.T) {
	trace := record(t, exampleSteps())
	failing, ok := trace.Steps[4].(*ScCallStep)
	require.True(t, ok)
	require.NotNil(t, failing.Response)
	require.Equal(t, fidelio.UserError, failing.Response.Status)

	deploy := trace.Steps[1].(*ScDeployStep)
	require.Equal(t, world.NewContractAddress(alice, 0), *deploy.Response.NewAddress)
}

func TestTrace_RecordingIsIsolatedFromLaterChanges(t *testing.T) {
	recorder := NewTraceRunner("isolated")
	step := &ScCallStep{From: alice, To: bob, Function: "f"}
	require.NoError(t, recorder.RunScCall(step))
	step.Function = "g"
	require.Equal(t, "f", recorder.Trace().Steps[0].(*ScCallStep).Function)
}

func TestTrace_ReplayDetectsDifferentResponses(t *testing.T) {
	require := require.New(t)
	trace := record(t, exampleSteps())
	trace.Steps[2].(*ScCallStep).Response.Out = []hexutil.Bytes{{42}}

	err := Replay(trace, newTestRunner(t))
	require.ErrorIs(err, ErrExpectationMismatch)
	require.Contains(err.Error(), "step 2")
}

func TestTrace_SerializationIsStable(t *testing.T) {
	require := require.New(t)
	trace := record(t, exampleSteps())

	var first, second bytes.Buffer
	require.NoError(WriteTrace(&first, trace))
	restored, err := ReadTrace(bytes.NewReader(first.Bytes()))
	require.NoError(err)
	require.NoError(WriteTrace(&second, restored))
	require.Equal(first.String(), second.String())

	text := first.String()
	for _, kind := range []StepKind{SetStateKind, ScDeployKind, ScCallKind, ScQueryKind, TransferKind, ValidatorRewardKind, CheckStateKind, DumpStateKind} {
		require.Contains(text, `"`+string(kind)+`": {`)
	}
	require.Contains(text, `"balance": "1000"`)
}

func TestTrace_StepsAreKeyedByKind(t *testing.T) {
	data, err := json.Marshal(&Trace{Name: "n", Steps: []Step{&ExternalStepsStep{Path: "other.json"}}})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"n","steps":[{"externalSteps":{"path":"other.json"}}]}`, string(data))
}

func TestTrace_InvalidDocumentsAreRejected(t *testing.T) {
	tests := map[string]string{
		"unknown field":     `{"name":"n","steps":[],"extra":1}`,
		"unknown kind":      `{"name":"n","steps":[{"mint":{}}]}`,
		"unknown step key":  `{"name":"n","steps":[{"dumpState":{"color":"red"}}]}`,
		"multiple kinds":    `{"name":"n","steps":[{"dumpState":{},"setState":{}}]}`,
		"empty step":        `{"name":"n","steps":[{}]}`,
		"invalid value":     `{"name":"n","steps":[{"validatorReward":{"address":"0x00","reward":"-1"}}]}`,
		"invalid hex bytes": `{"name":"n","steps":[{"scCall":{"from":"0x00","to":"0x00","function":"f","arguments":["zz"],"payment":{"egld":"0"}}}]}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadTrace(strings.NewReader(input)); err == nil {
				t.Errorf("expected document to be rejected")
			}
		})
	}
}

func TestTrace_LoadReportsMissingFiles(t *testing.T) {
	_, err := LoadTrace(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
