// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fidelio

import (
	"errors"
	"fmt"
)

// ConstErr is an error type that can be used to define error constants.
type ConstErr string

func (e ConstErr) Error() string {
	return string(e)
}

// Errors modeling blockchain failures. They abort the current transaction
// and are reported through a result status, never through a runner error.
const (
	ErrInvalidArguments  = ConstErr("invalid arguments")
	ErrAccountNotFound   = ConstErr("account not found")
	ErrNotBuiltin        = ConstErr("not a builtin operation")
	ErrUnknownToken      = ConstErr("unknown token")
	ErrInsufficientFunds = ConstErr("insufficient funds")
	ErrFrozen            = ConstErr("token is frozen")
	ErrMissingRole       = ConstErr("action is not allowed")
	ErrReadOnly          = ConstErr("write in read-only mode")
	ErrNotOwner          = ConstErr("caller is not the owner")
)

// ErrInvariantViolation marks misuses of the engine itself, e.g. requesting
// a new address before the creator's nonce was incremented. Such errors are
// fatal for the runner that encountered them.
const ErrInvariantViolation = ConstErr("engine invariant violated")

// InvariantError creates an error wrapping ErrInvariantViolation with the
// given description.
func InvariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// IsInvariantViolation reports whether the given error, or any error it
// wraps, marks an engine invariant violation.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}

// ReturnCodeOf maps a modeled failure to the result status it is reported
// with.
func ReturnCodeOf(err error) ReturnCode {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, ErrInsufficientFunds):
		return OutOfFunds
	case errors.Is(err, ErrMissingRole), errors.Is(err, ErrNotOwner):
		return UserError
	default:
		return ExecutionFailed
	}
}
