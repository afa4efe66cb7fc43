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
	"fmt"
	"io"
	"os"
	"sync"
)

// Trace is an ordered record of scenario steps together with their observed
// responses. Traces are stored as indented JSON documents of the form
//
//	{"name": ..., "steps": [{"<kind>": {...}}, ...]}
//
// where each step is keyed by its kind.
type Trace struct {
	Name  string
	Steps []Step
}

type traceSerializable struct {
	Name  string            `json:"name"`
	Steps []json.RawMessage `json:"steps"`
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	res := traceSerializable{
		Name:  t.Name,
		Steps: make([]json.RawMessage, 0, len(t.Steps)),
	}
	for _, step := range t.Steps {
		encoded, err := encodeStep(step)
		if err != nil {
			return nil, err
		}
		res.Steps = append(res.Steps, encoded)
	}
	return json.Marshal(res)
}

func (t *Trace) UnmarshalJSON(data []byte) error {
	var serialized traceSerializable
	if err := decodeStrict(data, &serialized); err != nil {
		return err
	}
	steps := make([]Step, 0, len(serialized.Steps))
	for i, encoded := range serialized.Steps {
		step, err := decodeStep(encoded)
		if err != nil {
			return fmt.Errorf("invalid step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	t.Name = serialized.Name
	t.Steps = steps
	return nil
}

// encodeStep produces the JSON form of a step, keyed by its kind.
func encodeStep(step Step) ([]byte, error) {
	return json.Marshal(map[StepKind]Step{step.Kind(): step})
}

// decodeStep parses a step produced by encodeStep.
func decodeStep(data []byte) (Step, error) {
	var entry map[StepKind]json.RawMessage
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if len(entry) != 1 {
		return nil, fmt.Errorf("expected a single step kind, got %d", len(entry))
	}
	for kind, body := range entry {
		step, err := newStep(kind)
		if err != nil {
			return nil, err
		}
		if err := decodeStrict(body, step); err != nil {
			return nil, fmt.Errorf("invalid %s step: %w", kind, err)
		}
		return step, nil
	}
	panic("unreachable")
}

func decodeStrict(data []byte, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

// cloneStep creates a deep copy of the given step.
func cloneStep(step Step) (Step, error) {
	encoded, err := encodeStep(step)
	if err != nil {
		return nil, err
	}
	return decodeStep(encoded)
}

// WriteTrace writes the given trace to the given writer as indented JSON.
func WriteTrace(out io.Writer, trace *Trace) error {
	data, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}

// SaveTrace writes the given trace to the given file. If the file already
// exists, it is overwritten.
func SaveTrace(trace *Trace, path string) error {
	var buffer bytes.Buffer
	if err := WriteTrace(&buffer, trace); err != nil {
		return err
	}
	return os.WriteFile(path, buffer.Bytes(), 0644)
}

// ReadTrace parses a trace from the given reader. Unknown fields are
// rejected.
func ReadTrace(in io.Reader) (*Trace, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	res := &Trace{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, err
	}
	return res, nil
}

// LoadTrace reads the trace stored in the given file.
func LoadTrace(path string) (*Trace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	res, err := ReadTrace(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load trace %s: %w", path, err)
	}
	return res, nil
}

// ----------------------------------------------------------------------------
// Recording
// ----------------------------------------------------------------------------

// TraceRunner records every step it is given, including responses filled in
// by runners executing the step before. It does not execute steps itself;
// it is intended to be combined with an executing runner through a
// ListRunner.
type TraceRunner struct {
	mu    sync.Mutex
	trace Trace
}

func NewTraceRunner(name string) *TraceRunner {
	return &TraceRunner{trace: Trace{Name: name}}
}

// Trace obtains a copy of the steps recorded so far.
func (r *TraceRunner) Trace() *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]Step, len(r.trace.Steps))
	copy(steps, r.trace.Steps)
	return &Trace{Name: r.trace.Name, Steps: steps}
}

// Save writes the recorded trace to the given file.
func (r *TraceRunner) Save(path string) error {
	return SaveTrace(r.Trace(), path)
}

func (r *TraceRunner) record(step Step) error {
	clone, err := cloneStep(step)
	if err != nil {
		return fmt.Errorf("failed to record %s step: %w", step.Kind(), err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.Steps = append(r.trace.Steps, clone)
	return nil
}

func (r *TraceRunner) RunSetState(step *SetStateStep) error               { return r.record(step) }
func (r *TraceRunner) RunScCall(step *ScCallStep) error                   { return r.record(step) }
func (r *TraceRunner) RunScDeploy(step *ScDeployStep) error               { return r.record(step) }
func (r *TraceRunner) RunScQuery(step *ScQueryStep) error                 { return r.record(step) }
func (r *TraceRunner) RunTransfer(step *TransferStep) error               { return r.record(step) }
func (r *TraceRunner) RunValidatorReward(step *ValidatorRewardStep) error { return r.record(step) }
func (r *TraceRunner) RunCheckState(step *CheckStateStep) error           { return r.record(step) }
func (r *TraceRunner) RunDumpState(step *DumpStateStep) error             { return r.record(step) }
func (r *TraceRunner) RunExternalSteps(step *ExternalStepsStep) error     { return r.record(step) }

// ----------------------------------------------------------------------------
// Replaying
// ----------------------------------------------------------------------------

// Replay runs the steps of the given trace on the given runner and compares
// the observed responses with the recorded ones. Responses are compared in
// their serialized form. The first failing or mismatching step ends the
// replay.
func Replay(trace *Trace, runner Runner) error {
	for i, recorded := range trace.Steps {
		step, err := cloneStep(withoutResponse(recorded))
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, recorded.Kind(), err)
		}
		if err := RunStep(runner, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, recorded.Kind(), err)
		}
		if err := compareResponses(recorded, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, recorded.Kind(), err)
		}
	}
	return nil
}

func compareResponses(recorded, replayed Step) error {
	want := responseOf(recorded)
	if want == nil {
		return nil
	}
	got := responseOf(replayed)
	wantJSON, err := json.Marshal(want)
	if err != nil {
		return err
	}
	gotJSON, err := json.Marshal(got)
	if err != nil {
		return err
	}
	if bytes.Equal(wantJSON, gotJSON) {
		return nil
	}
	return check(recorded, []string{
		fmt.Sprintf("response: recorded %s, replayed %s", wantJSON, gotJSON),
	})
}
