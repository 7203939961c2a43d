// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package authority is an allowlist authorizer. Admins may perform every
// gated action; role storage beyond the allowlist is out of the ledger's
// scope.
package authority

import (
	"sync"

	"github.com/mare-finance/staked-distributor/mare"
)

// Authority implements the distributor's Authorizer.
type Authority struct {
	mu     sync.RWMutex
	admins map[mare.Address]bool
}

// New create a new instance with the given admin set.
func New(admins []mare.Address) *Authority {
	set := make(map[mare.Address]bool, len(admins))
	for _, admin := range admins {
		set[admin] = true
	}
	return &Authority{admins: set}
}

// IsAuthorized tells whether the caller may perform the action.
func (a *Authority) IsAuthorized(caller mare.Address, _ string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.admins[caller]
}

// Grant adds an admin.
func (a *Authority) Grant(admin mare.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.admins[admin] = true
}

// Revoke removes an admin.
func (a *Authority) Revoke(admin mare.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.admins, admin)
}
