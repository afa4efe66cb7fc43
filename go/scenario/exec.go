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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// Steps are exchanged with external backends as JSON lines. Each request is
// a single step in its trace encoding; each reply reports the response of
// the step and the error of the backend's runner, if any.

const (
	replyMismatch = "mismatch"
	replyPoisoned = "poisoned"
	replyFailure  = "failure"
)

type reply struct {
	Response *TxResponse `json:"response,omitempty"`
	Error    string      `json:"error,omitempty"`
	Kind     string      `json:"kind,omitempty"`
}

func newReply(step Step, err error) reply {
	res := reply{Response: responseOf(step)}
	if err == nil {
		return res
	}
	res.Error = err.Error()
	switch {
	case errors.Is(err, ErrRunnerPoisoned):
		res.Kind = replyPoisoned
	case errors.Is(err, ErrExpectationMismatch):
		res.Kind = replyMismatch
	default:
		res.Kind = replyFailure
	}
	return res
}

func (r reply) err() error {
	if r.Kind == "" && r.Error == "" {
		return nil
	}
	return &RemoteError{Kind: r.Kind, Message: r.Error}
}

// RemoteError is an error reported by the runner of an external backend.
// Mismatches and poisoned backends match ErrExpectationMismatch and
// ErrRunnerPoisoned respectively.
type RemoteError struct {
	Kind    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend: %s", e.Message)
}

func (e *RemoteError) Is(target error) bool {
	switch e.Kind {
	case replyMismatch:
		return target == ErrExpectationMismatch
	case replyPoisoned:
		return target == ErrRunnerPoisoned
	}
	return false
}

// Serve reads steps from the given input, runs them on the given runner,
// and writes one reply per step to the given output. It returns when the
// input is exhausted. Failing steps do not end the session.
func Serve(runner Runner, in io.Reader, out io.Writer) error {
	decoder := json.NewDecoder(in)
	encoder := json.NewEncoder(out)
	for {
		var encoded json.RawMessage
		if err := decoder.Decode(&encoded); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read step: %w", err)
		}
		var res reply
		if step, err := decodeStep(encoded); err != nil {
			res = reply{Error: err.Error(), Kind: replyFailure}
		} else {
			res = newReply(step, RunStep(runner, step))
		}
		if err := encoder.Encode(res); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}
}

// StreamRunner forwards steps to a backend serving them on the other end
// of a pair of streams.
type StreamRunner struct {
	mu      sync.Mutex
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewStreamRunner creates a runner writing steps to the given output and
// reading replies from the given input.
func NewStreamRunner(in io.Reader, out io.Writer) *StreamRunner {
	return &StreamRunner{
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(in),
	}
}

func (r *StreamRunner) forward(step Step) error {
	encoded, err := encodeStep(withoutResponse(step))
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.encoder.Encode(json.RawMessage(encoded)); err != nil {
		return fmt.Errorf("failed to send %s step: %w", step.Kind(), err)
	}
	var res reply
	if err := r.decoder.Decode(&res); err != nil {
		return fmt.Errorf("failed to receive reply for %s step: %w", step.Kind(), err)
	}
	if res.Response != nil {
		setResponse(step, res.Response)
	}
	return res.err()
}

func (r *StreamRunner) RunSetState(step *SetStateStep) error               { return r.forward(step) }
func (r *StreamRunner) RunScCall(step *ScCallStep) error                   { return r.forward(step) }
func (r *StreamRunner) RunScDeploy(step *ScDeployStep) error               { return r.forward(step) }
func (r *StreamRunner) RunScQuery(step *ScQueryStep) error                 { return r.forward(step) }
func (r *StreamRunner) RunTransfer(step *TransferStep) error               { return r.forward(step) }
func (r *StreamRunner) RunValidatorReward(step *ValidatorRewardStep) error { return r.forward(step) }
func (r *StreamRunner) RunCheckState(step *CheckStateStep) error           { return r.forward(step) }
func (r *StreamRunner) RunDumpState(step *DumpStateStep) error             { return r.forward(step) }
func (r *StreamRunner) RunExternalSteps(step *ExternalStepsStep) error     { return r.forward(step) }

// ExecRunner runs steps on a backend process started from the configured
// command. The process receives steps on its standard input and replies on
// its standard output.
type ExecRunner struct {
	*StreamRunner
	cmd   *exec.Cmd
	stdin io.WriteCloser
	log   log.Logger
}

func StartExecRunner(config Config) (*ExecRunner, error) {
	if len(config.Command) == 0 {
		return nil, fmt.Errorf("no backend command configured")
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New("module", "scenario")
	}
	cmd := exec.Command(config.Command[0], config.Command[1:]...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start backend %s: %w", config.Command[0], err)
	}
	logger.Info("Backend started", "command", config.Command, "pid", cmd.Process.Pid)
	return &ExecRunner{
		StreamRunner: NewStreamRunner(stdout, stdin),
		cmd:          cmd,
		stdin:        stdin,
		log:          logger,
	}, nil
}

// Close ends the session and waits for the backend process to terminate.
func (r *ExecRunner) Close() error {
	if err := r.stdin.Close(); err != nil {
		return err
	}
	err := r.cmd.Wait()
	r.log.Info("Backend stopped", "err", err)
	return err
}
