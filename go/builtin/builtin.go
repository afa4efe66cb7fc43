// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package builtin implements the system operations executed natively by the
// engine, like minting and burning tokens, freezing balances, assigning
// roles, or managing account ownership.
package builtin

import (
	"fmt"
	"sort"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/world"
	"github.com/ethereum/go-ethereum/log"
)

// Function is a builtin operation identified by its wire name.
type Function interface {
	// Name is the wire name used for dispatching and in emitted logs.
	Name() string
	// Execute applies the operation to the given cache. Modeled failures are
	// reported through the status of the returned result and leave the cache
	// unmodified. The error is reserved for engine invariant violations.
	Execute(input fidelio.TxInput, cache *world.Cache, config Config) (fidelio.TxResult, error)
}

// Config summarizes options affecting the execution of builtin operations.
type Config struct {
	// EnforceRoles makes token operations check that the account acted upon
	// holds the corresponding ESDT role.
	EnforceRoles bool
	// Logger receives a trace of the executed operations. Defaults to the
	// root logger.
	Logger log.Logger
}

// Registry maps wire names to builtin operations.
type Registry struct {
	functions map[string]Function
}

func NewRegistry() *Registry {
	return &Registry{functions: map[string]Function{}}
}

// Register adds a function to the registry. Names are case-sensitive and
// must be unique.
func (r *Registry) Register(function Function) error {
	if function == nil {
		return fmt.Errorf("invalid initialization: nil function")
	}
	name := function.Name()
	if _, found := r.functions[name]; found {
		return fmt.Errorf("multiple builtin functions registered for name %s", name)
	}
	r.functions[name] = function
	return nil
}

// Lookup obtains the function registered for the given name. Unknown names
// result in an error wrapping ErrNotBuiltin.
func (r *Registry) Lookup(name string) (Function, error) {
	function, found := r.functions[name]
	if !found {
		return nil, fmt.Errorf("%w: %q", fidelio.ErrNotBuiltin, name)
	}
	return function, nil
}

// IsBuiltin reports whether a function is registered for the given name.
func (r *Registry) IsBuiltin(name string) bool {
	_, found := r.functions[name]
	return found
}

// Names lists the names of all registered functions in sorted order.
func (r *Registry) Names() []string {
	res := make([]string, 0, len(r.functions))
	for name := range r.functions {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Wire names of the builtin operations.
const (
	ESDTLocalMint           = "ESDTLocalMint"
	ESDTLocalBurn           = "ESDTLocalBurn"
	ESDTNFTCreate           = "ESDTNFTCreate"
	ESDTNFTAddQuantity      = "ESDTNFTAddQuantity"
	ESDTNFTBurn             = "ESDTNFTBurn"
	ESDTNFTUpdateAttributes = "ESDTNFTUpdateAttributes"
	ESDTFreeze              = "ESDTFreeze"
	ESDTUnFreeze            = "ESDTUnFreeze"
	ESDTWipe                = "ESDTWipe"
	ESDTSetRole             = "ESDTSetRole"
	ESDTUnSetRole           = "ESDTUnSetRole"
	ESDTSetRolesForAll      = "ESDTSetRolesForAll"
	ESDTTransfer            = "ESDTTransfer"
	ESDTNFTTransfer         = "ESDTNFTTransfer"
	MultiESDTNFTTransfer    = "MultiESDTNFTTransfer"
	ChangeOwnerAddress      = "ChangeOwnerAddress"
	SetUserName             = "SetUserName"
	DeleteUserName          = "DeleteUserName"
	ClaimDeveloperRewards   = "ClaimDeveloperRewards"
)

// Default creates a registry containing all builtin operations.
func Default() *Registry {
	res := NewRegistry()
	for _, function := range []*function{
		{ESDTLocalMint, localMint},
		{ESDTLocalBurn, localBurn},
		{ESDTNFTCreate, nftCreate},
		{ESDTNFTAddQuantity, nftAddQuantity},
		{ESDTNFTBurn, nftBurn},
		{ESDTNFTUpdateAttributes, nftUpdateAttributes},
		{ESDTFreeze, freeze},
		{ESDTUnFreeze, unfreeze},
		{ESDTWipe, wipe},
		{ESDTSetRole, setRole},
		{ESDTUnSetRole, unsetRole},
		{ESDTSetRolesForAll, setRolesForAll},
		{ESDTTransfer, transfer},
		{ESDTNFTTransfer, transfer},
		{MultiESDTNFTTransfer, transfer},
		{ChangeOwnerAddress, changeOwnerAddress},
		{SetUserName, setUserName},
		{DeleteUserName, deleteUserName},
		{ClaimDeveloperRewards, claimDeveloperRewards},
	} {
		if err := res.Register(function); err != nil {
			panic(fmt.Sprintf("failed to register builtin function: %v", err))
		}
	}
	return res
}

// ----------------------------------------------------------------------------
//                             Execution
// ----------------------------------------------------------------------------

// function adapts an operation implementation to the Function interface.
type function struct {
	name string
	run  func(*call) error
}

func (f *function) Name() string {
	return f.name
}

func (f *function) Execute(input fidelio.TxInput, cache *world.Cache, config Config) (fidelio.TxResult, error) {
	child := cache.Child()
	call := &call{
		name:   f.name,
		input:  input,
		cache:  child,
		config: config,
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Root()
	}
	if err := f.run(call); err != nil {
		child.Discard()
		if fidelio.IsInvariantViolation(err) {
			return fidelio.TxResult{}, err
		}
		logger.Trace("Builtin operation failed", "name", f.name, "to", input.To, "err", err)
		return fidelio.FailureFromError(fmt.Errorf("%s: %w", f.name, err)), nil
	}
	update, err := child.IntoUpdate()
	if err != nil {
		return fidelio.TxResult{}, err
	}
	if err := cache.Merge(update); err != nil {
		return fidelio.TxResult{}, err
	}
	logger.Trace("Builtin operation executed", "name", f.name, "to", input.To, "logs", len(call.logs))
	return fidelio.TxResult{
		Status: fidelio.Ok,
		Output: call.output,
		Logs:   call.logs,
	}, nil
}

// call is the state of a single builtin operation execution.
type call struct {
	name   string
	input  fidelio.TxInput
	cache  *world.Cache
	config Config
	output [][]byte
	logs   []fidelio.TxLog
}

func (c *call) emit(address fidelio.Address, topics ...[]byte) *fidelio.TxLog {
	c.logs = append(c.logs, fidelio.TxLog{
		Address:    address,
		Identifier: c.name,
		Topics:     topics,
	})
	return &c.logs[len(c.logs)-1]
}

func (c *call) requireRole(account *world.Account, token fidelio.TokenIdentifier, role string) error {
	if !c.config.EnforceRoles || account.HasRole(token, role) {
		return nil
	}
	return fmt.Errorf("%w: %v does not hold %s for %v", fidelio.ErrMissingRole, account.Address, role, token)
}

// ----------------------------------------------------------------------------
//                             Arguments
// ----------------------------------------------------------------------------

func expectArgs(args [][]byte, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		if min == max {
			return fmt.Errorf("%w: expected %d arguments, got %d", fidelio.ErrInvalidArguments, min, len(args))
		}
		return fmt.Errorf("%w: expected at least %d arguments, got %d", fidelio.ErrInvalidArguments, min, len(args))
	}
	return nil
}

func parseToken(data []byte) (fidelio.TokenIdentifier, error) {
	res := fidelio.TokenIdentifier(data)
	return res, res.Validate()
}

func parseNonce(data []byte) (uint64, error) {
	return fidelio.NonceFromBytes(data)
}

func parseAmount(data []byte) (fidelio.Value, error) {
	res, err := fidelio.ValueFromBytes(data)
	if err != nil {
		return res, err
	}
	if res.IsZero() {
		return res, fmt.Errorf("%w: amount must be positive", fidelio.ErrInvalidArguments)
	}
	return res, nil
}

func parseAddress(data []byte) (fidelio.Address, error) {
	return fidelio.AddressFromBytes(data)
}

// parseTokenKey parses a token identifier followed by an optional nonce.
func parseTokenKey(args [][]byte) (fidelio.TokenKey, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return fidelio.TokenKey{}, err
	}
	token, err := parseToken(args[0])
	if err != nil {
		return fidelio.TokenKey{}, err
	}
	var nonce uint64
	if len(args) == 2 {
		if nonce, err = parseNonce(args[1]); err != nil {
			return fidelio.TokenKey{}, err
		}
	}
	return fidelio.TokenKey{Identifier: token, Nonce: nonce}, nil
}
