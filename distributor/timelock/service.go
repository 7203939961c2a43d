// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timelock holds, per participant, at most one pending withdrawal
// produced by burning shares. Release is a data-driven gate compared against
// the stored release time on the next withdraw call; no timer fires.
package timelock

import (
	"math/big"

	"github.com/mare-finance/staked-distributor/distributor/reverts"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
)

var slotDelay = mare.Blake2b([]byte("timelock-delay"))

func pendingKey(addr mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("timelock-pending"), addr.Bytes())
}

// Withdrawal is a pending withdrawal record.
type Withdrawal struct {
	Amount      *big.Int
	ReleaseTime uint64 // unix seconds
}

// Service is the withdrawal timelock queue.
type Service struct {
	state *state.State
}

// New create a new instance.
func New(st *state.State) *Service {
	return &Service{state: st}
}

// Delay returns the withdrawal delay in seconds.
func (s *Service) Delay() (uint64, error) {
	var delay uint64
	if err := s.state.GetStorage(slotDelay, &delay); err != nil {
		return 0, err
	}
	return delay, nil
}

// SetDelay updates the withdrawal delay. It applies to future withdrawal
// requests only, never retroactively to already-pending ones.
func (s *Service) SetDelay(seconds uint64) error {
	return s.state.SetStorage(slotDelay, seconds)
}

// Pending returns the participant's pending withdrawal, or nil if none.
func (s *Service) Pending(addr mare.Address) (*Withdrawal, error) {
	raw, err := s.state.GetRawStorage(pendingKey(addr))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var w Withdrawal
	if err := s.state.GetStorage(pendingKey(addr), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Request records a withdrawal of amount releasable at now+delay. A request
// made while one is already pending accumulates the amounts and pushes the
// release time out to the new request's release time.
func (s *Service) Request(addr mare.Address, amount *big.Int, now uint64) error {
	delay, err := s.Delay()
	if err != nil {
		return err
	}

	total := new(big.Int).Set(amount)
	if pending, err := s.Pending(addr); err != nil {
		return err
	} else if pending != nil {
		total.Add(total, pending.Amount)
	}

	return s.state.SetStorage(pendingKey(addr), &Withdrawal{
		Amount:      total,
		ReleaseTime: now + delay,
	})
}

// Withdraw consumes the pending record and returns its amount. It fails when
// there is no pending record or the release time has not passed.
func (s *Service) Withdraw(addr mare.Address, now uint64) (*big.Int, error) {
	pending, err := s.Pending(addr)
	if err != nil {
		return nil, err
	}
	if pending == nil || now < pending.ReleaseTime {
		return nil, reverts.New(reverts.KindWithdrawalNotReleased, "StakedDistributor: not released")
	}

	s.state.SetRawStorage(pendingKey(addr), nil)
	return pending.Amount, nil
}
