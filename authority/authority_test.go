// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mare-finance/staked-distributor/mare"
)

func TestAuthority(t *testing.T) {
	admin := mare.BytesToAddress([]byte("admin"))
	other := mare.BytesToAddress([]byte("other"))

	auth := New([]mare.Address{admin})
	assert.True(t, auth.IsAuthorized(admin, "add-token"))
	assert.False(t, auth.IsAuthorized(other, "add-token"))

	auth.Grant(other)
	assert.True(t, auth.IsAuthorized(other, "add-reward"))

	auth.Revoke(admin)
	assert.False(t, auth.IsAuthorized(admin, "add-token"))
}
