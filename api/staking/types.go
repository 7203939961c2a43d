// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/mare-finance/staked-distributor/distributor"
	"github.com/mare-finance/staked-distributor/distributor/registry"
	"github.com/mare-finance/staked-distributor/distributor/timelock"
	"github.com/mare-finance/staked-distributor/mare"
)

// Supply is the outstanding share supply.
type Supply struct {
	TotalShares *math.HexOrDecimal256 `json:"totalShares"`
}

// Token is one registered reward token.
type Token struct {
	Address mare.Address `json:"address"`
	Active  bool         `json:"active"`
}

func convertTokens(entries []registry.Entry) []Token {
	tokens := make([]Token, len(entries))
	for i, entry := range entries {
		tokens[i] = Token{Address: entry.Token, Active: entry.Active}
	}
	return tokens
}

// Withdrawal is a pending withdrawal waiting out its timelock.
type Withdrawal struct {
	Amount      *math.HexOrDecimal256 `json:"amount"`
	ReleaseTime uint64                `json:"releaseTime"`
}

// Account is the staking position of one participant.
type Account struct {
	Shares     *math.HexOrDecimal256 `json:"shares"`
	Withdrawal *Withdrawal           `json:"withdrawal"`
}

func convertAccount(shares *big.Int, pending *timelock.Withdrawal) *Account {
	acc := &Account{Shares: (*math.HexOrDecimal256)(shares)}
	if pending != nil {
		acc.Withdrawal = &Withdrawal{
			Amount:      (*math.HexOrDecimal256)(pending.Amount),
			ReleaseTime: pending.ReleaseTime,
		}
	}
	return acc
}

// Amount carries a single asset amount.
type Amount struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// ClaimRequest asks to claim one token, or every active token when Token
// is unset.
type ClaimRequest struct {
	Token *mare.Address `json:"token,omitempty"`
}

// Payout is one asset transfer produced by a claim.
type Payout struct {
	Token  mare.Address          `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func convertPayouts(payouts []distributor.Payout) []Payout {
	out := make([]Payout, len(payouts))
	for i, p := range payouts {
		out[i] = Payout{Token: p.Token, Amount: (*math.HexOrDecimal256)(p.Amount)}
	}
	return out
}

// TokenRequest asks an admin to register a reward token.
type TokenRequest struct {
	Caller mare.Address `json:"caller"`
	Token  mare.Address `json:"token"`
}

// RewardRequest asks an admin to allocate amount of a reward token.
type RewardRequest struct {
	Caller mare.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// DelayRequest asks an admin to update the withdrawal delay.
type DelayRequest struct {
	Caller  mare.Address `json:"caller"`
	Seconds uint64       `json:"seconds"`
}
