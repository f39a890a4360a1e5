// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/metanode/stake/api/utils"
	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/ledger"
)

// Pools serves pool and position queries and, in solo mode, user operations.
type Pools struct {
	ledger *ledger.Ledger
	solo   bool
}

func New(l *ledger.Ledger, solo bool) *Pools {
	return &Pools{
		ledger: l,
		solo:   solo,
	}
}

func (p *Pools) handleGetGlobal(w http.ResponseWriter, req *http.Request) error {
	var global *Global
	if err := p.ledger.View(req.Context(), func(tx *ledger.Tx) error {
		g, err := tx.Staker.Global()
		if err != nil {
			return err
		}
		n, err := tx.Staker.PoolLength()
		if err != nil {
			return err
		}
		global = convertGlobal(tx.Block, n, g)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, global)
}

func (p *Pools) handleGetPools(w http.ResponseWriter, req *http.Request) error {
	list := make([]*Pool, 0)
	if err := p.ledger.View(req.Context(), func(tx *ledger.Tx) error {
		n, err := tx.Staker.PoolLength()
		if err != nil {
			return err
		}
		for pid := range n {
			pl, err := tx.Staker.Pool(pid)
			if err != nil {
				return err
			}
			list = append(list, convertPool(pid, pl))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var pool *Pool
	if err := p.ledger.View(req.Context(), func(tx *ledger.Tx) error {
		pl, err := tx.Staker.Pool(pid)
		if err != nil {
			return err
		}
		pool = convertPool(pid, pl)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (p *Pools) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	user, err := utils.Address(req, "user")
	if err != nil {
		return err
	}
	var position *Position
	if err := p.ledger.View(req.Context(), func(tx *ledger.Tx) error {
		pos, err := tx.Staker.Position(pid, user)
		if err != nil {
			return err
		}
		pending, err := tx.Staker.PendingReward(pid, user)
		if err != nil {
			return err
		}
		requested, unlocked, err := tx.Staker.WithdrawAmount(pid, user)
		if err != nil {
			return err
		}
		position = convertPosition(pid, user, tx.Block, pos, pending, requested, unlocked)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, position)
}

func (p *Pools) requireSolo() error {
	if !p.solo {
		return utils.Forbidden(errors.New("unsigned operations are only served in solo mode"))
	}
	return nil
}

func (p *Pools) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	if err := p.requireSolo(); err != nil {
		return err
	}
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var body DepositRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount := fixedpoint.OrZero(body.Amount)

	receipt, err := p.ledger.Execute(req.Context(), "deposit", func(tx *ledger.Tx) error {
		value := body.Value
		if value == nil {
			value = new(uint256.Int)
			pl, err := tx.Staker.Pool(pid)
			if err != nil {
				return err
			}
			if pl.IsNative() {
				value.Set(amount)
			}
		}
		return tx.Staker.Deposit(pid, body.Caller, amount, value)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt, nil))
}

func (p *Pools) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	if err := p.requireSolo(); err != nil {
		return err
	}
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var body UnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := p.ledger.Execute(req.Context(), "requestUnstake", func(tx *ledger.Tx) error {
		return tx.Staker.RequestUnstake(pid, body.Caller, fixedpoint.OrZero(body.Amount))
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt, nil))
}

func (p *Pools) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	return p.handlePayout(w, req, "withdraw", func(tx *ledger.Tx, pid uint32, body *CallRequest) (*uint256.Int, error) {
		return tx.Staker.Withdraw(pid, body.Caller)
	})
}

func (p *Pools) handleClaim(w http.ResponseWriter, req *http.Request) error {
	return p.handlePayout(w, req, "claim", func(tx *ledger.Tx, pid uint32, body *CallRequest) (*uint256.Int, error) {
		return tx.Staker.Claim(pid, body.Caller)
	})
}

func (p *Pools) handlePayout(
	w http.ResponseWriter,
	req *http.Request,
	op string,
	f func(tx *ledger.Tx, pid uint32, body *CallRequest) (*uint256.Int, error),
) error {
	if err := p.requireSolo(); err != nil {
		return err
	}
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var body CallRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var amount *uint256.Int
	receipt, err := p.ledger.Execute(req.Context(), op, func(tx *ledger.Tx) (err error) {
		amount, err = f(tx, pid, &body)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt, amount))
}

func (p *Pools) handleMassUpdate(w http.ResponseWriter, req *http.Request) error {
	if err := p.requireSolo(); err != nil {
		return err
	}
	receipt, err := p.ledger.Execute(req.Context(), "massUpdatePools", func(tx *ledger.Tx) error {
		return tx.Staker.MassUpdatePools()
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt, nil))
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/global").
		Methods(http.MethodGet).
		Name("GET /global").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetGlobal))
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/pools/update").
		Methods(http.MethodPost).
		Name("POST /pools/update").
		HandlerFunc(utils.WrapHandlerFunc(p.handleMassUpdate))
	sub.Path("/pools/{pid:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /pools/{pid}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/pools/{pid:[0-9]+}/positions/{user}").
		Methods(http.MethodGet).
		Name("GET /pools/{pid}/positions/{user}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPosition))
	sub.Path("/pools/{pid:[0-9]+}/deposit").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/deposit").
		HandlerFunc(utils.WrapHandlerFunc(p.handleDeposit))
	sub.Path("/pools/{pid:[0-9]+}/unstake").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(p.handleUnstake))
	sub.Path("/pools/{pid:[0-9]+}/withdraw").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/pools/{pid:[0-9]+}/claim").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/claim").
		HandlerFunc(utils.WrapHandlerFunc(p.handleClaim))
}
