package domain

import (
	"errors"
	"fmt"
)

// ExitError is a categorical rejection of an inbound message. Its code is
// surfaced as the exit code of the transaction that processed the message.
type ExitError struct {
	Code uint32
	Name string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s (exit code 0x%x)", e.Name, e.Code)
}

const (
	// ExitCodeSuccess is the exit code of an accepted message.
	ExitCodeSuccess uint32 = 0
	// ExitCodeFailure is the exit code of a message rejected for a reason
	// outside of the categorical errors below, like a storage failure.
	ExitCodeFailure uint32 = 1
)

var (
	// ErrAccessDenied is returned when the sender is not allowed to perform
	// the requested operation.
	ErrAccessDenied = &ExitError{0xffa0, "access denied"}
	// ErrInvalidAmount is returned for amounts, durations or limits outside
	// of the accepted range.
	ErrInvalidAmount = &ExitError{0xffa2, "invalid amount"}
	// ErrNoClaimable is returned when claiming with nothing unlocked.
	ErrNoClaimable = &ExitError{0xffa3, "nothing to claim"}
	// ErrMaxWalletsReached is returned when the registry is at capacity.
	ErrMaxWalletsReached = &ExitError{0xffa4, "max wallets reached"}
	// ErrMaxSplitsReached is returned when an account exhausted its splits.
	ErrMaxSplitsReached = &ExitError{0xffa5, "max splits reached"}
	// ErrInvalidSeqno is returned for external messages with a stale or
	// future sequence number.
	ErrInvalidSeqno = &ExitError{0xffa6, "invalid seqno"}
	// ErrExpired is returned for external messages past their validity.
	ErrExpired = &ExitError{0xffa7, "message expired"}
	// ErrInvalidOp is returned for unknown or undecodable operations.
	ErrInvalidOp = &ExitError{0xffff, "invalid op"}
)

var (
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address must be in the form <workchain>:<64 hex chars>")
	// ErrNullAddress is returned when an address is required but the null
	// sentinel is given.
	ErrNullAddress = errors.New("address must not be null")
	// ErrInvalidSchedule is returned for vesting schedules with zero
	// duration or period, or with cliff/period longer than the duration.
	ErrInvalidSchedule = errors.New("invalid vesting schedule")
	// ErrInvalidPermission is returned for permission flags outside 0-3.
	ErrInvalidPermission = errors.New("permission must be between 0 and 3")
	// ErrInvalidTotalAmount is returned for non positive or oversized totals.
	ErrInvalidTotalAmount = errors.New("total amount must be a positive 128 bit integer")
	// ErrEmptyTemplate is returned when setting an empty account template.
	ErrEmptyTemplate = errors.New("account template must not be empty")
	// ErrInvalidTemplate is returned when the account template is the code
	// of another kind of contract.
	ErrInvalidTemplate = errors.New("account template must not be a built-in code")
	// ErrInvalidRegistryIndex is returned when listing wallets by an unknown
	// dimension.
	ErrInvalidRegistryIndex = errors.New("index must be one of issuer, owner, recipient, auto-claim")
	// ErrContractNotFound is returned when no contract is deployed at the
	// given address.
	ErrContractNotFound = errors.New("contract not found")
	// ErrContractAlreadyExists is returned when deploying to a taken address.
	ErrContractAlreadyExists = errors.New("contract already deployed at address")
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("vesting account not found")
	// ErrFactoryNotFound ...
	ErrFactoryNotFound = errors.New("factory not found")
	// ErrRegistryNotFound ...
	ErrRegistryNotFound = errors.New("registry not found")
	// ErrAssetWalletNotFound ...
	ErrAssetWalletNotFound = errors.New("asset wallet not found")
	// ErrTransactionNotFound ...
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ExitCodeOf maps err to the exit code of the transaction it aborted.
func ExitCodeOf(err error) uint32 {
	if err == nil {
		return ExitCodeSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCodeFailure
}
