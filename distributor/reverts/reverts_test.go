// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	err := New(KindInvalidAmount, "Distributor: Invalid amount")
	assert.True(t, IsRevertErr(err))
	assert.Equal(t, "Distributor: Invalid amount", err.Error())

	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("io failure")))
	assert.False(t, IsRevertErr("not an error"))

	// survives wrapping
	assert.True(t, IsRevertErr(errors.WithMessage(err, "claim")))
}

func TestKindOf(t *testing.T) {
	err := New(KindWithdrawalNotReleased, "StakedDistributor: not released")

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindWithdrawalNotReleased, kind)

	kind, ok = KindOf(errors.Wrap(err, "withdraw"))
	assert.True(t, ok)
	assert.Equal(t, KindWithdrawalNotReleased, kind)

	_, ok = KindOf(errors.New("io failure"))
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid amount", KindInvalidAmount.String())
	assert.Equal(t, "no share supply", KindNoShareSupply.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
