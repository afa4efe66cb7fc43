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
	"testing"
)

func TestConstErr_Error(t *testing.T) {
	const myError = ConstErr("this is a constant error")

	if myError.Error() != "this is a constant error" {
		t.Errorf("expected 'this is a constant error', got '%s'", myError.Error())
	}
	if !errors.Is(myError, ConstErr("this is a constant error")) {
		t.Errorf("expected true, got false")
	}
}

func TestInvariantError_IsDetectedThroughWrapping(t *testing.T) {
	err := InvariantError("address for %v requested twice", Address{1})
	if !IsInvariantViolation(err) {
		t.Errorf("expected invariant violation, got %v", err)
	}
	wrapped := fmt.Errorf("failed to deploy: %w", err)
	if !IsInvariantViolation(wrapped) {
		t.Errorf("expected wrapped invariant violation, got %v", wrapped)
	}
	if IsInvariantViolation(ErrAccountNotFound) {
		t.Errorf("lookup errors must not be invariant violations")
	}
}

func TestReturnCodeOf_ClassifiesModeledErrors(t *testing.T) {
	tests := map[string]struct {
		err  error
		want ReturnCode
	}{
		"nil":                {nil, Ok},
		"insufficient funds": {fmt.Errorf("burn: %w", ErrInsufficientFunds), OutOfFunds},
		"missing role":       {ErrMissingRole, UserError},
		"not owner":          {ErrNotOwner, UserError},
		"invalid arguments":  {ErrInvalidArguments, ExecutionFailed},
		"account not found":  {ErrAccountNotFound, ExecutionFailed},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, ReturnCodeOf(test.err); want != got {
				t.Errorf("unexpected code, wanted %v, got %v", want, got)
			}
		})
	}
}
