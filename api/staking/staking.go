// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mare-finance/staked-distributor/api/restutil"
	"github.com/mare-finance/staked-distributor/distributor"
	"github.com/mare-finance/staked-distributor/mare"
)

type Staking struct {
	dist *distributor.Distributor
}

func New(dist *distributor.Distributor) *Staking {
	return &Staking{dist}
}

func pathAddress(req *http.Request, name string) (mare.Address, error) {
	addr, err := mare.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return mare.Address{}, restutil.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

func (s *Staking) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	supply, err := s.dist.TotalShares()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Supply{TotalShares: (*math.HexOrDecimal256)(supply)})
}

func (s *Staking) handleGetTokens(w http.ResponseWriter, _ *http.Request) error {
	entries, err := s.dist.Tokens()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertTokens(entries))
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := pathAddress(req, "address")
	if err != nil {
		return err
	}
	shares, err := s.dist.SharesOf(addr)
	if err != nil {
		return err
	}
	pending, err := s.dist.PendingWithdrawal(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertAccount(shares, pending))
}

func (s *Staking) handleGetClaimable(w http.ResponseWriter, req *http.Request) error {
	addr, err := pathAddress(req, "address")
	if err != nil {
		return err
	}
	token, err := pathAddress(req, "token")
	if err != nil {
		return err
	}
	amount, err := s.dist.GetClaimable(token, addr)
	if err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, &Amount{Amount: (*math.HexOrDecimal256)(amount)})
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := pathAddress(req, "address")
	if err != nil {
		return err
	}
	var body Amount
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.dist.Stake(addr, (*big.Int)(body.Amount)); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	addr, err := pathAddress(req, "address")
	if err != nil {
		return err
	}
	var body Amount
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.dist.Unstake(addr, (*big.Int)(body.Amount)); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, err := pathAddress(req, "address")
	if err != nil {
		return err
	}
	amount, err := s.dist.Withdraw(addr)
	if err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, &Amount{Amount: (*math.HexOrDecimal256)(amount)})
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := pathAddress(req, "address")
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Token != nil {
		amount, err := s.dist.Claim(addr, *body.Token)
		if err != nil {
			return restutil.RevertError(err)
		}
		payouts := []Payout{}
		if amount.Sign() > 0 {
			payouts = append(payouts, Payout{Token: *body.Token, Amount: (*math.HexOrDecimal256)(amount)})
		}
		return restutil.WriteJSON(w, payouts)
	}
	payouts, err := s.dist.ClaimAll(addr)
	if err != nil {
		return restutil.RevertError(err)
	}
	return restutil.WriteJSON(w, convertPayouts(payouts))
}

func (s *Staking) handleAddToken(w http.ResponseWriter, req *http.Request) error {
	var body TokenRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.dist.AddToken(body.Caller, body.Token); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Staking) handleRemoveToken(w http.ResponseWriter, req *http.Request) error {
	token, err := pathAddress(req, "token")
	if err != nil {
		return err
	}
	caller, err := mare.ParseAddress(req.URL.Query().Get("caller"))
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "caller"))
	}
	if err := s.dist.RemoveToken(*caller, token); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Staking) handleAddReward(w http.ResponseWriter, req *http.Request) error {
	token, err := pathAddress(req, "token")
	if err != nil {
		return err
	}
	var body RewardRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.dist.AddReward(body.Caller, token, (*big.Int)(body.Amount)); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Staking) handleGetDelay(w http.ResponseWriter, _ *http.Request) error {
	delay, err := s.dist.WithdrawalDelay()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"seconds": delay})
}

func (s *Staking) handleSetDelay(w http.ResponseWriter, req *http.Request) error {
	var body DelayRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.dist.SetWithdrawalDelay(body.Caller, body.Seconds); err != nil {
		return restutil.RevertError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/supply").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetSupply))
	sub.Path("/tokens").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetTokens))
	sub.Path("/tokens").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleAddToken))
	sub.Path("/tokens/{token}").Methods(http.MethodDelete).HandlerFunc(restutil.WrapHandlerFunc(s.handleRemoveToken))
	sub.Path("/tokens/{token}/rewards").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleAddReward))
	sub.Path("/accounts/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/accounts/{address}/claimable/{token}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetClaimable))
	sub.Path("/accounts/{address}/stake").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleStake))
	sub.Path("/accounts/{address}/unstake").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/accounts/{address}/withdraw").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/accounts/{address}/claims").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(s.handleClaim))
	sub.Path("/config/withdrawal-delay").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetDelay))
	sub.Path("/config/withdrawal-delay").Methods(http.MethodPut).HandlerFunc(restutil.WrapHandlerFunc(s.handleSetDelay))
}
