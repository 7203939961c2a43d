// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry maintains the bounded set of reward assets eligible for
// distribution. Entries keep their registration order, and removal only
// deactivates an entry so historical accumulator values stay reachable.
package registry

import (
	"github.com/mare-finance/staked-distributor/distributor/reverts"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
)

var slotTokens = mare.Blake2b([]byte("registry-tokens"))

// Entry is one registered reward asset.
type Entry struct {
	Token  mare.Address
	Active bool
}

// Service is the reward asset registry.
type Service struct {
	state *state.State
}

// New create a new instance.
func New(st *state.State) *Service {
	return &Service{state: st}
}

// Tokens lists all registered entries in registration order.
func (s *Service) Tokens() ([]Entry, error) {
	var entries []Entry
	if err := s.state.GetStorage(slotTokens, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// IsActive tells whether the token is registered and active.
func (s *Service) IsActive(token mare.Address) (bool, error) {
	entries, err := s.Tokens()
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.Token == token {
			return entry.Active, nil
		}
	}
	return false, nil
}

// Add registers the token, or reactivates it if it was removed before.
// A reactivated token resumes its historical counters.
func (s *Service) Add(token mare.Address) error {
	if token.IsZero() {
		return reverts.New(reverts.KindUnknownAsset, "Distributor: Invalid token")
	}
	entries, err := s.Tokens()
	if err != nil {
		return err
	}
	for i, entry := range entries {
		if entry.Token == token {
			if entry.Active {
				return reverts.New(reverts.KindDuplicateAsset, "Distributor: token already added")
			}
			entries[i].Active = true
			return s.state.SetStorage(slotTokens, entries)
		}
	}
	entries = append(entries, Entry{Token: token, Active: true})
	return s.state.SetStorage(slotTokens, entries)
}

// Remove deactivates the token. The entry itself is kept, since
// already-checkpointed participants still need its accumulator history.
func (s *Service) Remove(token mare.Address) error {
	entries, err := s.Tokens()
	if err != nil {
		return err
	}
	for i, entry := range entries {
		if entry.Token == token && entry.Active {
			entries[i].Active = false
			return s.state.SetStorage(slotTokens, entries)
		}
	}
	return reverts.New(reverts.KindAssetNotFound, "Distributor: token not found")
}
