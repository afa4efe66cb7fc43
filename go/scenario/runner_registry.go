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
	"strings"
	"sync"

	"github.com/Fantom-foundation/Fidelio/go/processor"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/exp/maps"
)

// This file provides a registry for Runner implementations. The runners of
// this package are registered by its init code; other packages may add
// their own, e.g. runners forwarding steps to external engines.

func init() {
	MustRegisterRunnerFactory("mock", func(config Config) (Runner, error) {
		runner, err := NewMockRunner(config)
		if err != nil {
			return nil, err
		}
		return runner, nil
	})
	MustRegisterRunnerFactory("trace", func(config Config) (Runner, error) {
		return NewTraceRunner(config.TraceName), nil
	})
	MustRegisterRunnerFactory("exec", func(config Config) (Runner, error) {
		runner, err := StartExecRunner(config)
		if err != nil {
			return nil, err
		}
		return runner, nil
	})
}

// Config summarizes the options of the runners of this package. Zero values
// are replaced by defaults.
type Config struct {
	// Processor configures the engine of in-process runners.
	Processor processor.Config
	// DumpWriter receives the output of dump-state steps. Defaults to
	// os.Stdout.
	DumpWriter io.Writer
	// TraceName is the name of traces recorded by trace runners.
	TraceName string
	// Command is the backend started by exec runners, followed by its
	// arguments.
	Command []string
	Logger  log.Logger
}

// RunnerFactory is the type of a function creating a Runner for the given
// configuration.
type RunnerFactory func(Config) (Runner, error)

// NewRunner performs a lookup for the given name (case-insensitive) in the
// registry and creates a new Runner. An error is returned if no factory was
// registered under the given name.
func NewRunner(name string, config Config) (Runner, error) {
	factory := GetRunnerFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("runner not found: %s", name)
	}
	return factory(config)
}

// GetRunnerFactory performs a lookup for the given name (case-insensitive) in
// the registry. The result is nil if no factory was registered under the
// given name.
func GetRunnerFactory(name string) RunnerFactory {
	runnerRegistryLock.Lock()
	defer runnerRegistryLock.Unlock()
	return runnerRegistry[strings.ToLower(name)]
}

// GetAllRegisteredRunners obtains all registered implementations.
func GetAllRegisteredRunners() map[string]RunnerFactory {
	runnerRegistryLock.Lock()
	defer runnerRegistryLock.Unlock()
	return maps.Clone(runnerRegistry)
}

// RegisterRunnerFactory registers a new Runner implementation under the given
// name. The name is not case-sensitive. An error is returned if a factory was
// bound to the same name before, or the factory is nil.
func RegisterRunnerFactory(name string, factory RunnerFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	runnerRegistryLock.Lock()
	defer runnerRegistryLock.Unlock()
	if _, found := runnerRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	runnerRegistry[key] = factory
	return nil
}

// MustRegisterRunnerFactory is like RegisterRunnerFactory but panics on
// failure. It is intended for package initialization code.
func MustRegisterRunnerFactory(name string, factory RunnerFactory) {
	if err := RegisterRunnerFactory(name, factory); err != nil {
		panic(err)
	}
}

// runnerRegistry is a global registry for Runner factories.
var runnerRegistry = map[string]RunnerFactory{}

// runnerRegistryLock to protect access to the registry.
var runnerRegistryLock sync.Mutex
