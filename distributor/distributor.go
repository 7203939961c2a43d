// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package distributor implements the staking ledger engine. Participants
// deposit the staked asset for proportional shares, reward assets accrue to
// shareholders via a reward-per-share accumulator, and burned shares become
// pending withdrawals released after a configurable delay.
package distributor

import (
	"math/big"
	"sync"

	"github.com/mare-finance/staked-distributor/distributor/registry"
	"github.com/mare-finance/staked-distributor/distributor/reverts"
	"github.com/mare-finance/staked-distributor/distributor/rewards"
	"github.com/mare-finance/staked-distributor/distributor/shares"
	"github.com/mare-finance/staked-distributor/distributor/timelock"
	"github.com/mare-finance/staked-distributor/log"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/metrics"
	"github.com/mare-finance/staked-distributor/state"
)

var (
	logger = log.WithContext("pkg", "distributor")

	metricOps         = metrics.LazyLoadCounterVec("staking_ops_total", []string{"op", "status"})
	metricTotalShares = metrics.LazyLoadGauge("staking_total_shares")
	metricTokens      = metrics.LazyLoadGauge("staking_registered_tokens")
)

// Admin-gated actions checked against the Authorizer.
const (
	ActionAddToken           = "add-token"
	ActionRemoveToken        = "remove-token"
	ActionAddReward          = "add-reward"
	ActionSetWithdrawalDelay = "set-withdrawal-delay"
)

// TransferEngine moves asset value in and out of the ledger's custody.
// Calls either fully succeed or fail atomically; they are never retried.
type TransferEngine interface {
	Pull(asset, from mare.Address, amount *big.Int) error
	Push(asset, to mare.Address, amount *big.Int) error
}

// Authorizer gates admin operations. The ledger treats it as a boolean
// oracle and does not implement role storage itself.
type Authorizer interface {
	IsAuthorized(caller mare.Address, action string) bool
}

// Payout is one asset transfer produced by a claim.
type Payout struct {
	Token  mare.Address
	Amount *big.Int
}

// Distributor composes the share ledger, reward registry, reward accumulator
// and withdrawal timelock into one single-writer state machine. Every
// mutating operation runs as an atomic transaction: it either commits fully
// to the underlying store or leaves no trace.
type Distributor struct {
	mu sync.Mutex

	state       *state.State
	stakedAsset mare.Address
	transfers   TransferEngine
	auth        Authorizer
	now         func() uint64

	sharesService   *shares.Service
	registryService *registry.Service
	rewardsService  *rewards.Service
	timelockService *timelock.Service
}

// New create a new instance. now supplies the current unix time in seconds.
func New(
	st *state.State,
	stakedAsset mare.Address,
	transfers TransferEngine,
	auth Authorizer,
	now func() uint64,
) *Distributor {
	return &Distributor{
		state:       st,
		stakedAsset: stakedAsset,
		transfers:   transfers,
		auth:        auth,
		now:         now,

		sharesService:   shares.New(st),
		registryService: registry.New(st),
		rewardsService:  rewards.New(st),
		timelockService: timelock.New(st),
	}
}

// run executes fn as an atomic transaction: on any error all state mutations
// are reverted, on success they are committed to the store in one batch.
func (d *Distributor) run(op string, fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	checkpoint := d.state.NewCheckpoint()
	if err := fn(); err != nil {
		d.state.RevertTo(checkpoint)
		status := "failed"
		if reverts.IsRevertErr(err) {
			status = "reverted"
		}
		metricOps().AddWithLabel(1, map[string]string{"op": op, "status": status})
		return err
	}
	if err := d.state.Stage().Commit(); err != nil {
		metricOps().AddWithLabel(1, map[string]string{"op": op, "status": "failed"})
		return err
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "status": "ok"})
	return nil
}

// settleAll crystallizes the participant's accrual for every registered
// token against their pre-mutation share balance. Inactive tokens settle
// too; their frozen index makes it a cheap no-op, and it keeps checkpoints
// valid if a token is later reactivated.
func (d *Distributor) settleAll(addr mare.Address) error {
	balance, err := d.sharesService.Get(addr)
	if err != nil {
		return err
	}
	entries, err := d.registryService.Tokens()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := d.rewardsService.Settle(entry.Token, addr, balance); err != nil {
			return err
		}
	}
	return nil
}

func (d *Distributor) updateShareGauge() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if supply, err := d.sharesService.TotalSupply(); err == nil && supply.IsInt64() {
		metricTotalShares().Set(supply.Int64())
	}
}

func (d *Distributor) updateTokenGauge() {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries, err := d.registryService.Tokens()
	if err != nil {
		return
	}
	var active int64
	for _, entry := range entries {
		if entry.Active {
			active++
		}
	}
	metricTokens().Set(active)
}

//
// Setters - state change
//

// Stake pulls amount of the staked asset from the caller and mints the same
// amount of shares to them.
func (d *Distributor) Stake(caller mare.Address, amount *big.Int) error {
	logger.Debug("staking", "caller", caller, "amount", amount)

	err := d.run("stake", func() error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.New(reverts.KindInvalidAmount, "Distributor: Invalid amount")
		}
		if err := d.settleAll(caller); err != nil {
			return err
		}
		if err := d.sharesService.Mint(caller, amount); err != nil {
			return err
		}
		return d.transfers.Pull(d.stakedAsset, caller, amount)
	})
	if err != nil {
		logger.Info("stake failed", "caller", caller, "error", err)
		return err
	}

	d.updateShareGauge()
	logger.Info("staked", "caller", caller, "amount", amount)
	return nil
}

// Unstake burns amount of the caller's shares and enqueues a withdrawal
// releasable after the configured delay. A pending withdrawal accumulates
// and its release time moves out to now+delay.
func (d *Distributor) Unstake(caller mare.Address, amount *big.Int) error {
	logger.Debug("unstaking", "caller", caller, "amount", amount)

	err := d.run("unstake", func() error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.New(reverts.KindInvalidAmount, "Distributor: Invalid amount")
		}
		if err := d.settleAll(caller); err != nil {
			return err
		}
		if err := d.sharesService.Burn(caller, amount); err != nil {
			return err
		}
		return d.timelockService.Request(caller, amount, d.now())
	})
	if err != nil {
		logger.Info("unstake failed", "caller", caller, "error", err)
		return err
	}

	d.updateShareGauge()
	logger.Info("unstaked", "caller", caller, "amount", amount)
	return nil
}

// Withdraw pays out the caller's pending withdrawal once released.
func (d *Distributor) Withdraw(caller mare.Address) (*big.Int, error) {
	logger.Debug("withdrawing", "caller", caller)

	var amount *big.Int
	err := d.run("withdraw", func() error {
		var err error
		if amount, err = d.timelockService.Withdraw(caller, d.now()); err != nil {
			return err
		}
		return d.transfers.Push(d.stakedAsset, caller, amount)
	})
	if err != nil {
		logger.Info("withdraw failed", "caller", caller, "error", err)
		return nil, err
	}

	logger.Info("withdrew", "caller", caller, "amount", amount)
	return amount, nil
}

// AddReward pulls amount of the reward token from the caller and allocates
// it across the current share supply.
func (d *Distributor) AddReward(caller, token mare.Address, amount *big.Int) error {
	logger.Debug("adding reward", "caller", caller, "token", token, "amount", amount)

	err := d.run("add_reward", func() error {
		if !d.auth.IsAuthorized(caller, ActionAddReward) {
			return reverts.New(reverts.KindNotAuthorized, "Distributor: not authorized")
		}
		active, err := d.registryService.IsActive(token)
		if err != nil {
			return err
		}
		if !active {
			return reverts.New(reverts.KindUnknownAsset, "Distributor: Invalid token")
		}
		if amount == nil || amount.Sign() <= 0 {
			return reverts.New(reverts.KindInvalidAmount, "Distributor: Invalid amount")
		}
		supply, err := d.sharesService.TotalSupply()
		if err != nil {
			return err
		}
		if err := d.rewardsService.Add(token, amount, supply); err != nil {
			return err
		}
		return d.transfers.Pull(token, caller, amount)
	})
	if err != nil {
		logger.Info("add reward failed", "token", token, "error", err)
		return err
	}

	logger.Info("added reward", "token", token, "amount", amount)
	return nil
}

// Claim settles and pays out the caller's accrued balance of the token.
// Claiming a zero balance is a valid no-op, including for addresses that
// never staked.
func (d *Distributor) Claim(caller, token mare.Address) (*big.Int, error) {
	logger.Debug("claiming", "caller", caller, "token", token)

	var amount *big.Int
	err := d.run("claim", func() error {
		var err error
		amount, err = d.claimOne(caller, token)
		return err
	})
	if err != nil {
		logger.Info("claim failed", "caller", caller, "token", token, "error", err)
		return nil, err
	}

	logger.Info("claimed", "caller", caller, "token", token, "amount", amount)
	return amount, nil
}

func (d *Distributor) claimOne(caller, token mare.Address) (*big.Int, error) {
	active, err := d.registryService.IsActive(token)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, reverts.New(reverts.KindUnknownAsset, "Distributor: Invalid token")
	}
	balance, err := d.sharesService.Get(caller)
	if err != nil {
		return nil, err
	}
	amount, err := d.rewardsService.Claim(token, caller, balance)
	if err != nil {
		return nil, err
	}
	if amount.Sign() > 0 {
		if err := d.transfers.Push(token, caller, amount); err != nil {
			return nil, err
		}
	}
	return amount, nil
}

// ClaimAll claims every active token in registration order. The operation
// is atomic: one failing transfer reverts the whole claim.
func (d *Distributor) ClaimAll(caller mare.Address) ([]Payout, error) {
	logger.Debug("claiming all", "caller", caller)

	var payouts []Payout
	err := d.run("claim_all", func() error {
		entries, err := d.registryService.Tokens()
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if !entry.Active {
				continue
			}
			amount, err := d.claimOne(caller, entry.Token)
			if err != nil {
				return err
			}
			if amount.Sign() > 0 {
				payouts = append(payouts, Payout{Token: entry.Token, Amount: amount})
			}
		}
		return nil
	})
	if err != nil {
		logger.Info("claim all failed", "caller", caller, "error", err)
		return nil, err
	}

	logger.Info("claimed all", "caller", caller, "payouts", len(payouts))
	return payouts, nil
}

// AddToken registers a reward token, or reactivates a removed one resuming
// its historical counters.
func (d *Distributor) AddToken(caller, token mare.Address) error {
	err := d.run("add_token", func() error {
		if !d.auth.IsAuthorized(caller, ActionAddToken) {
			return reverts.New(reverts.KindNotAuthorized, "Distributor: not authorized")
		}
		return d.registryService.Add(token)
	})
	if err != nil {
		logger.Info("add token failed", "token", token, "error", err)
		return err
	}

	d.updateTokenGauge()
	logger.Info("added token", "token", token)
	return nil
}

// RemoveToken deactivates a reward token. Its accumulator history is kept so
// already-checkpointed participants still settle correctly.
func (d *Distributor) RemoveToken(caller, token mare.Address) error {
	err := d.run("remove_token", func() error {
		if !d.auth.IsAuthorized(caller, ActionRemoveToken) {
			return reverts.New(reverts.KindNotAuthorized, "Distributor: not authorized")
		}
		return d.registryService.Remove(token)
	})
	if err != nil {
		logger.Info("remove token failed", "token", token, "error", err)
		return err
	}

	d.updateTokenGauge()
	logger.Info("removed token", "token", token)
	return nil
}

// SetWithdrawalDelay updates the withdrawal delay for future requests.
func (d *Distributor) SetWithdrawalDelay(caller mare.Address, seconds uint64) error {
	err := d.run("set_withdrawal_delay", func() error {
		if !d.auth.IsAuthorized(caller, ActionSetWithdrawalDelay) {
			return reverts.New(reverts.KindNotAuthorized, "Distributor: not authorized")
		}
		return d.timelockService.SetDelay(seconds)
	})
	if err != nil {
		logger.Info("set withdrawal delay failed", "error", err)
		return err
	}

	logger.Info("set withdrawal delay", "seconds", seconds)
	return nil
}

//
// Getters - no state change
//

// SharesOf returns the share balance of the participant.
func (d *Distributor) SharesOf(addr mare.Address) (*big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sharesService.Get(addr)
}

// TotalShares returns total shares outstanding.
func (d *Distributor) TotalShares() (*big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sharesService.TotalSupply()
}

// GetClaimable projects what a claim of the token would pay the participant,
// without mutating state. Like Claim, it rejects tokens not currently
// registered.
func (d *Distributor) GetClaimable(token, addr mare.Address) (*big.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	active, err := d.registryService.IsActive(token)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, reverts.New(reverts.KindUnknownAsset, "Distributor: Invalid token")
	}

	balance, err := d.sharesService.Get(addr)
	if err != nil {
		return nil, err
	}
	return d.rewardsService.Claimable(token, addr, balance)
}

// PendingWithdrawal returns the participant's pending withdrawal, or nil.
func (d *Distributor) PendingWithdrawal(addr mare.Address) (*timelock.Withdrawal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timelockService.Pending(addr)
}

// Tokens lists all registered reward tokens in registration order.
func (d *Distributor) Tokens() ([]registry.Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registryService.Tokens()
}

// WithdrawalDelay returns the withdrawal delay in seconds.
func (d *Distributor) WithdrawalDelay() (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timelockService.Delay()
}
