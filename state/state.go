// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/mare-finance/staked-distributor/kv"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/stackedmap"
)

// ledgerBucket is the namespace of ledger slots inside the kv store.
const ledgerBucket = kv.Bucket("ls")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the ledger state.
//
// All reads go through a revision stack, so that any range of mutations can
// be checkpointed and reverted without touching the underlying store. Nothing
// reaches the store until a Stage is committed.
type State struct {
	store kv.GetPutter
	cache map[mare.Bytes32][]byte // slots loaded from the store
	sm    *stackedmap.StackedMap  // keeps revisions of slot values
}

// New create state object, backed by the given store.
func New(store kv.GetPutter) *State {
	state := State{
		store: ledgerBucket.NewGetPutter(store),
		cache: make(map[mare.Bytes32][]byte),
	}
	state.sm = stackedmap.New(func(key interface{}) (interface{}, bool, error) {
		return state.cacheGetter(key.(mare.Bytes32))
	})
	// the bottom-most checkpoint, for ad-hoc mutations outside any transaction
	state.sm.Push()
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key mare.Bytes32) (interface{}, bool, error) {
	if raw, ok := s.cache[key]; ok {
		return raw, true, nil
	}
	raw, err := s.store.Get(key.Bytes())
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, false, &Error{err}
		}
		raw = nil
	}
	s.cache[key] = raw
	return raw, true, nil
}

// GetRawStorage returns the raw rlp-encoded value of the given slot.
// An absent slot yields an empty value.
func (s *State) GetRawStorage(key mare.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(key)
	if err != nil {
		return nil, err
	}
	return raw.([]byte), nil
}

// SetRawStorage sets the raw value of the given slot.
// Setting an empty value deletes the slot on commit.
func (s *State) SetRawStorage(key mare.Bytes32, raw []byte) {
	s.sm.Put(key, raw)
}

// GetStorage decodes the slot value into val.
// An absent slot leaves val at its zero value.
func (s *State) GetStorage(key mare.Bytes32, val interface{}) error {
	raw, err := s.GetRawStorage(key)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := rlp.DecodeBytes(raw, val); err != nil {
		return &Error{err}
	}
	return nil
}

// SetStorage encodes val into the slot.
func (s *State) SetStorage(key mare.Bytes32, val interface{}) error {
	raw, err := rlp.EncodeToBytes(val)
	if err != nil {
		return &Error{err}
	}
	s.sm.Put(key, raw)
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns the checkpoint to be passed to RevertTo.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts the state to the given checkpoint.
// All mutations made after the checkpoint are discarded.
func (s *State) RevertTo(checkpoint int) {
	s.sm.PopTo(checkpoint)
}

// Stage collects all uncommitted mutations into a batch ready for commit.
type Stage struct {
	state   *State
	batch   kv.Batch
	changes map[mare.Bytes32][]byte
}

// Stage makes a stage out of all uncommitted mutations.
func (s *State) Stage() *Stage {
	changes := make(map[mare.Bytes32][]byte)
	s.sm.Journal(func(key, value interface{}) bool {
		changes[key.(mare.Bytes32)] = value.([]byte)
		return true
	})

	batch := s.store.NewBatch()
	for key, raw := range changes {
		if len(raw) == 0 {
			_ = batch.Delete(key.Bytes())
		} else {
			_ = batch.Put(key.Bytes(), raw)
		}
	}
	return &Stage{state: s, batch: batch, changes: changes}
}

// Commit writes the staged mutations into the store, then flattens the
// revision stack so the committed values become the new baseline.
func (st *Stage) Commit() error {
	if err := st.batch.Write(); err != nil {
		return &Error{err}
	}
	for key, raw := range st.changes {
		st.state.cache[key] = raw
	}
	st.state.sm.PopTo(0)
	st.state.sm.Push()
	return nil
}
