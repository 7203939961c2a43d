// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards maintains, per reward asset, a monotonic reward-per-share
// accumulator and, per participant, a settlement checkpoint plus an
// accrued-but-unclaimed balance. Division always floors, so rounding dust
// stays in the pool and is never over-allocated to a participant.
package rewards

import (
	"math/big"

	"github.com/mare-finance/staked-distributor/distributor/reverts"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
)

// Scale is the fixed-point multiplier of the reward-per-share accumulator.
var Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

func indexKey(token mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("rewards-index"), token.Bytes())
}

func distributedKey(token mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("rewards-distributed"), token.Bytes())
}

func claimedKey(token mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("rewards-claimed"), token.Bytes())
}

func checkpointKey(token, addr mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("rewards-checkpoint"), token.Bytes(), addr.Bytes())
}

func accruedKey(token, addr mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("rewards-accrued"), token.Bytes(), addr.Bytes())
}

// Service is the reward accumulator.
type Service struct {
	state *state.State
}

// New create a new instance.
func New(st *state.State) *Service {
	return &Service{state: st}
}

func (s *Service) getBig(key mare.Bytes32) (*big.Int, error) {
	v := new(big.Int)
	if err := s.state.GetStorage(key, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Index returns the cumulative reward-per-share of the token, scaled by Scale.
func (s *Service) Index(token mare.Address) (*big.Int, error) {
	return s.getBig(indexKey(token))
}

// Distributed returns lifetime deposits of the token.
func (s *Service) Distributed(token mare.Address) (*big.Int, error) {
	return s.getBig(distributedKey(token))
}

// Claimed returns the historically claimed total of the token.
func (s *Service) Claimed(token mare.Address) (*big.Int, error) {
	return s.getBig(claimedKey(token))
}

// Accrued returns the participant's claimable-but-not-yet-claimed balance.
func (s *Service) Accrued(token, addr mare.Address) (*big.Int, error) {
	return s.getBig(accruedKey(token, addr))
}

// Checkpoint returns the accumulator value last settled against the participant.
func (s *Service) Checkpoint(token, addr mare.Address) (*big.Int, error) {
	return s.getBig(checkpointKey(token, addr))
}

// Add allocates a new deposit across the current share supply by growing the
// accumulator. A deposit with no shares outstanding cannot be allocated and
// must fail rather than silently burn value.
func (s *Service) Add(token mare.Address, amount, totalShares *big.Int) error {
	if totalShares.Sign() == 0 {
		return reverts.New(reverts.KindNoShareSupply, "Distributor: no shares staked")
	}

	index, err := s.Index(token)
	if err != nil {
		return err
	}
	growth := new(big.Int).Mul(amount, Scale)
	growth.Div(growth, totalShares)
	if err := s.state.SetStorage(indexKey(token), index.Add(index, growth)); err != nil {
		return err
	}

	distributed, err := s.Distributed(token)
	if err != nil {
		return err
	}
	return s.state.SetStorage(distributedKey(token), distributed.Add(distributed, amount))
}

// unsettled computes the participant's accrual since their last checkpoint,
// against the given share balance.
func (s *Service) unsettled(token, addr mare.Address, shareBalance *big.Int) (*big.Int, error) {
	index, err := s.Index(token)
	if err != nil {
		return nil, err
	}
	checkpoint, err := s.Checkpoint(token, addr)
	if err != nil {
		return nil, err
	}

	delta := new(big.Int).Sub(index, checkpoint)
	delta.Mul(delta, shareBalance)
	return delta.Div(delta, Scale), nil
}

// Settle crystallizes the participant's accrual under their current share
// balance and moves their checkpoint up to the accumulator. It must be called
// with the pre-mutation balance before any share balance change. It is a
// no-op when the balance is zero or the checkpoint is already current.
func (s *Service) Settle(token, addr mare.Address, shareBalance *big.Int) error {
	delta, err := s.unsettled(token, addr, shareBalance)
	if err != nil {
		return err
	}
	if delta.Sign() > 0 {
		accrued, err := s.Accrued(token, addr)
		if err != nil {
			return err
		}
		if err := s.state.SetStorage(accruedKey(token, addr), accrued.Add(accrued, delta)); err != nil {
			return err
		}
	}

	index, err := s.Index(token)
	if err != nil {
		return err
	}
	return s.state.SetStorage(checkpointKey(token, addr), index)
}

// Claimable is a pure projection of what Claim would pay out. It never
// mutates state.
func (s *Service) Claimable(token, addr mare.Address, shareBalance *big.Int) (*big.Int, error) {
	delta, err := s.unsettled(token, addr, shareBalance)
	if err != nil {
		return nil, err
	}
	accrued, err := s.Accrued(token, addr)
	if err != nil {
		return nil, err
	}
	return accrued.Add(accrued, delta), nil
}

// Claim settles, then atomically zeroes the participant's accrued balance
// and returns the amount to pay out. A zero claim is a valid no-op.
func (s *Service) Claim(token, addr mare.Address, shareBalance *big.Int) (*big.Int, error) {
	if err := s.Settle(token, addr, shareBalance); err != nil {
		return nil, err
	}

	amount, err := s.Accrued(token, addr)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return amount, nil
	}

	if err := s.state.SetStorage(accruedKey(token, addr), new(big.Int)); err != nil {
		return nil, err
	}
	claimed, err := s.Claimed(token)
	if err != nil {
		return nil, err
	}
	if err := s.state.SetStorage(claimedKey(token), claimed.Add(claimed, amount)); err != nil {
		return nil, err
	}
	return amount, nil
}
