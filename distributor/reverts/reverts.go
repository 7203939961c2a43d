// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a rejected ledger operation, so that callers can tell a
// malformed request from one that may succeed later.
type Kind uint8

const (
	KindInvalidAmount Kind = iota + 1
	KindInsufficientBalance
	KindUnknownAsset
	KindDuplicateAsset
	KindAssetNotFound
	KindNotAuthorized
	KindWithdrawalNotReleased
	KindNoShareSupply
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidAmount:
		return "invalid amount"
	case KindInsufficientBalance:
		return "insufficient balance"
	case KindUnknownAsset:
		return "unknown asset"
	case KindDuplicateAsset:
		return "duplicate asset"
	case KindAssetNotFound:
		return "asset not found"
	case KindNotAuthorized:
		return "not authorized"
	case KindWithdrawalNotReleased:
		return "withdrawal not released"
	case KindNoShareSupply:
		return "no share supply"
	default:
		return "unknown"
	}
}

// ErrRevert is a rejected ledger operation. It never wraps infrastructure
// failures, only rule violations.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Kind returns the failure class.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// IsRevertErr tells whether err is a rule violation rather than an
// infrastructure failure.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf extracts the failure class from err.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}
