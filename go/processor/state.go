// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"fmt"

	"github.com/Fantom-foundation/Fidelio/go/fidelio"
)

// TxState is the lifecycle state of a transaction being processed.
type TxState int

const (
	// Resolving determines the type and target of the transaction.
	Resolving TxState = iota
	// Invoking executes the target, including nested and async calls.
	Invoking
	// Finalizing decides between committing and rolling back.
	Finalizing
	// Committed transactions have their changes exported.
	Committed
	// RolledBack transactions had all their changes discarded.
	RolledBack
)

func (s TxState) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Invoking:
		return "invoking"
	case Finalizing:
		return "finalizing"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled-back"
	}
	return fmt.Sprintf("TxState(%d)", int(s))
}

// IsFinal reports whether no further transitions are possible.
func (s TxState) IsFinal() bool {
	return s == Committed || s == RolledBack
}

// CanTransitionTo reports whether the lifecycle permits moving from this
// state to the given one.
func (s TxState) CanTransitionTo(next TxState) bool {
	switch s {
	case Resolving:
		return next == Invoking || next == Finalizing
	case Invoking:
		return next == Finalizing
	case Finalizing:
		return next == Committed || next == RolledBack
	}
	return false
}

// transition moves the transaction into the given state.
func (t *transaction) transition(next TxState) error {
	if !t.state.CanTransitionTo(next) {
		return fidelio.InvariantError("invalid transaction state transition from %v to %v", t.state, next)
	}
	t.log.Trace("Transaction state changed", "from", t.state, "to", next)
	t.state = next
	return nil
}
