// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package outcome extracts typed results of token operations from the logs
// of processed transactions. Events are searched in the transaction's own
// logs first and then in the logs of the calls generated while processing
// it, e.g. the builtin calls issued by the ESDT system contract.
package outcome

import (
	"fmt"
	"strings"

	"github.com/Fantom-foundation/Fidelio/go/builtin"
	"github.com/Fantom-foundation/Fidelio/go/fidelio"
	"github.com/Fantom-foundation/Fidelio/go/processor"
)

const (
	ErrEventNotFound  = fidelio.ConstErr("event not found")
	ErrMalformedTopic = fidelio.ConstErr("malformed topic")
	ErrTxFailed       = fidelio.ConstErr("transaction failed")
)

// EventNotFoundError is produced if none of the logs of a transaction
// carries one of the expected identifiers.
type EventNotFoundError struct {
	Identifier string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrEventNotFound, e.Identifier)
}

func (e *EventNotFoundError) Is(target error) bool {
	return target == ErrEventNotFound
}

// MalformedTopicError is produced if a topic of a found event can not be
// decoded.
type MalformedTopicError struct {
	Identifier string
	Index      int
	Reason     string
}

func (e *MalformedTopicError) Error() string {
	return fmt.Sprintf("%v %d of %s: %s", ErrMalformedTopic, e.Index, e.Identifier, e.Reason)
}

func (e *MalformedTopicError) Is(target error) bool {
	return target == ErrMalformedTopic
}

// TxFailedError is produced when parsing the result of a failed
// transaction. Failed transactions carry no events.
type TxFailedError struct {
	Status  fidelio.ReturnCode
	Message string
}

func (e *TxFailedError) Error() string {
	return fmt.Sprintf("%v with status %v: %s", ErrTxFailed, e.Status, e.Message)
}

func (e *TxFailedError) Is(target error) bool {
	return target == ErrTxFailed
}

// --- Outcomes ---

// Roles lists the roles granted to or revoked from an account.
type Roles struct {
	Address fidelio.Address
	Token   fidelio.TokenIdentifier
	Roles   []string
}

// NFTCreate describes a newly created token instance.
type NFTCreate struct {
	Address    fidelio.Address
	Token      fidelio.TokenIdentifier
	Nonce      uint64
	Quantity   fidelio.Value
	Attributes []byte
}

// Supply describes a change of the supply of a fungible token.
type Supply struct {
	Address fidelio.Address
	Token   fidelio.TokenIdentifier
	Amount  fidelio.Value
}

// Control describes the effect of freezing, unfreezing, or wiping a token
// balance of an account.
type Control struct {
	Address fidelio.Address
	Token   fidelio.TokenIdentifier
	Nonce   uint64
	Balance fidelio.Value
}

// Attributes describes an update of the attributes of a token instance.
type Attributes struct {
	Address    fidelio.Address
	Token      fidelio.TokenIdentifier
	Nonce      uint64
	Attributes []byte
}

// Quantity describes a change of the quantity of a token instance.
type Quantity struct {
	Address  fidelio.Address
	Token    fidelio.TokenIdentifier
	Nonce    uint64
	Quantity fidelio.Value
}

// --- Parsers ---

// ParseIssue extracts the identifier of the token issued by the given
// transaction.
func ParseIssue(result fidelio.TxResult) (fidelio.TokenIdentifier, error) {
	ids, err := ParseIssued(result)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// ParseIssued extracts the identifiers of all tokens issued by the given
// transaction, in the order of issuance.
func ParseIssued(result fidelio.TxResult) ([]fidelio.TokenIdentifier, error) {
	logs, err := findAll(result,
		processor.IssueFunction,
		processor.IssueSemiFungibleFunction,
		processor.IssueNonFungibleFunction,
		processor.RegisterMetaESDTFunction,
	)
	if err != nil {
		return nil, err
	}
	res := make([]fidelio.TokenIdentifier, 0, len(logs))
	for _, log := range logs {
		t := topics{log: log}
		id := t.token(0)
		if t.err != nil {
			return nil, t.err
		}
		res = append(res, id)
	}
	return res, nil
}

// ParseSetRoles extracts the roles granted by the given transaction.
func ParseSetRoles(result fidelio.TxResult) (Roles, error) {
	return parseRoles(result, builtin.ESDTSetRole)
}

// ParseUnsetRoles extracts the roles revoked by the given transaction.
func ParseUnsetRoles(result fidelio.TxResult) (Roles, error) {
	return parseRoles(result, builtin.ESDTUnSetRole)
}

func parseRoles(result fidelio.TxResult, identifier string) (Roles, error) {
	log, err := find(result, identifier)
	if err != nil {
		return Roles{}, err
	}
	t := topics{log: log}
	res := Roles{Address: log.Address, Token: t.token(0)}
	for i := 3; i < len(log.Topics); i++ {
		res.Roles = append(res.Roles, string(log.Topics[i]))
	}
	if t.err == nil && len(res.Roles) == 0 {
		t.fail(3, "no roles listed")
	}
	return res, t.err
}

// ParseNFTCreate extracts the token instance created by the given
// transaction.
func ParseNFTCreate(result fidelio.TxResult) (NFTCreate, error) {
	log, err := find(result, builtin.ESDTNFTCreate)
	if err != nil {
		return NFTCreate{}, err
	}
	t := topics{log: log}
	res := NFTCreate{
		Address:  log.Address,
		Token:    t.token(0),
		Nonce:    t.nonce(1),
		Quantity: t.value(2),
	}
	if len(log.Data) > 0 {
		res.Attributes = append([]byte{}, log.Data[0]...)
	}
	return res, t.err
}

// ParseLocalMint extracts the amount minted by the given transaction.
func ParseLocalMint(result fidelio.TxResult) (Supply, error) {
	return parseSupply(result, builtin.ESDTLocalMint)
}

// ParseLocalBurn extracts the amount burned by the given transaction.
func ParseLocalBurn(result fidelio.TxResult) (Supply, error) {
	return parseSupply(result, builtin.ESDTLocalBurn)
}

func parseSupply(result fidelio.TxResult, identifier string) (Supply, error) {
	log, err := find(result, identifier)
	if err != nil {
		return Supply{}, err
	}
	t := topics{log: log}
	res := Supply{
		Address: log.Address,
		Token:   t.token(0),
		Amount:  t.value(2),
	}
	return res, t.err
}

// ParseFreeze extracts the balance frozen by the given transaction.
func ParseFreeze(result fidelio.TxResult) (Control, error) {
	return parseControl(result, builtin.ESDTFreeze)
}

// ParseUnfreeze extracts the balance unfrozen by the given transaction.
func ParseUnfreeze(result fidelio.TxResult) (Control, error) {
	return parseControl(result, builtin.ESDTUnFreeze)
}

// ParseWipe extracts the balance wiped by the given transaction.
func ParseWipe(result fidelio.TxResult) (Control, error) {
	return parseControl(result, builtin.ESDTWipe)
}

func parseControl(result fidelio.TxResult, identifier string) (Control, error) {
	log, err := find(result, identifier)
	if err != nil {
		return Control{}, err
	}
	t := topics{log: log}
	res := Control{
		Token:   t.token(0),
		Nonce:   t.nonce(1),
		Balance: t.value(2),
		Address: t.address(3),
	}
	return res, t.err
}

// ParseUpdateAttributes extracts the attributes set by the given
// transaction.
func ParseUpdateAttributes(result fidelio.TxResult) (Attributes, error) {
	log, err := find(result, builtin.ESDTNFTUpdateAttributes)
	if err != nil {
		return Attributes{}, err
	}
	t := topics{log: log}
	res := Attributes{
		Address:    log.Address,
		Token:      t.token(0),
		Nonce:      t.nonce(1),
		Attributes: append([]byte{}, t.raw(3)...),
	}
	return res, t.err
}

// ParseAddQuantity extracts the quantity added by the given transaction.
func ParseAddQuantity(result fidelio.TxResult) (Quantity, error) {
	return parseQuantity(result, builtin.ESDTNFTAddQuantity)
}

// ParseBurnQuantity extracts the quantity burned by the given transaction.
func ParseBurnQuantity(result fidelio.TxResult) (Quantity, error) {
	return parseQuantity(result, builtin.ESDTNFTBurn)
}

func parseQuantity(result fidelio.TxResult, identifier string) (Quantity, error) {
	log, err := find(result, identifier)
	if err != nil {
		return Quantity{}, err
	}
	t := topics{log: log}
	res := Quantity{
		Address:  log.Address,
		Token:    t.token(0),
		Nonce:    t.nonce(1),
		Quantity: t.value(2),
	}
	return res, t.err
}

// --- Search ---

// find locates the first log carrying one of the given identifiers.
func find(result fidelio.TxResult, identifiers ...string) (fidelio.TxLog, error) {
	logs, err := findAll(result, identifiers...)
	if err != nil {
		return fidelio.TxLog{}, err
	}
	return logs[0], nil
}

// findAll lists all logs carrying one of the given identifiers. At least
// one log is returned unless an error is reported.
func findAll(result fidelio.TxResult, identifiers ...string) ([]fidelio.TxLog, error) {
	if !result.Succeeded() {
		return nil, &TxFailedError{Status: result.Status, Message: result.Message}
	}
	var res []fidelio.TxLog
	for _, log := range result.AllLogs() {
		for _, identifier := range identifiers {
			if log.Identifier == identifier {
				res = append(res, log)
				break
			}
		}
	}
	if len(res) == 0 {
		return nil, &EventNotFoundError{Identifier: strings.Join(identifiers, "|")}
	}
	return res, nil
}

// topics decodes the topics of a log. The first decoding failure is
// retained; later accesses yield zero values.
type topics struct {
	log fidelio.TxLog
	err error
}

func (t *topics) fail(index int, format string, args ...any) {
	if t.err == nil {
		t.err = &MalformedTopicError{
			Identifier: t.log.Identifier,
			Index:      index,
			Reason:     fmt.Sprintf(format, args...),
		}
	}
}

func (t *topics) raw(index int) []byte {
	if index >= len(t.log.Topics) {
		t.fail(index, "missing, log has %d topics", len(t.log.Topics))
		return nil
	}
	return t.log.Topics[index]
}

func (t *topics) token(index int) fidelio.TokenIdentifier {
	res := fidelio.TokenIdentifier(t.raw(index))
	if t.err != nil {
		return ""
	}
	if err := res.Validate(); err != nil {
		t.fail(index, "%v", err)
		return ""
	}
	return res
}

func (t *topics) nonce(index int) uint64 {
	data := t.raw(index)
	if t.err != nil {
		return 0
	}
	res, err := fidelio.NonceFromBytes(data)
	if err != nil {
		t.fail(index, "%v", err)
	}
	return res
}

func (t *topics) value(index int) fidelio.Value {
	data := t.raw(index)
	if t.err != nil {
		return fidelio.Value{}
	}
	res, err := fidelio.ValueFromBytes(data)
	if err != nil {
		t.fail(index, "%v", err)
	}
	return res
}

func (t *topics) address(index int) fidelio.Address {
	data := t.raw(index)
	if t.err != nil {
		return fidelio.Address{}
	}
	res, err := fidelio.AddressFromBytes(data)
	if err != nil {
		t.fail(index, "%v", err)
	}
	return res
}
