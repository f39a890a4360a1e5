// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/metanode/stake/api/pools"
	"github.com/metanode/stake/api/utils"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking"
)

// Admin serves administrative operations. The caller must hold the admin role.
type Admin struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Admin {
	return &Admin{ledger: l}
}

func (a *Admin) execute(w http.ResponseWriter, req *http.Request, op string, f func(tx *ledger.Tx) error) error {
	receipt, err := a.ledger.Execute(req.Context(), op, f)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pools.ConvertReceipt(receipt, nil))
}

func parseBody(req *http.Request, v any) error {
	if err := utils.ParseJSON(req.Body, v); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return nil
}

func (a *Admin) handleAddPool(w http.ResponseWriter, req *http.Request) error {
	var body AddPoolRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	var pid uint32
	if _, err := a.ledger.Execute(req.Context(), "addPool", func(tx *ledger.Tx) (err error) {
		pid, err = tx.Staker.AddPool(body.Caller, staking.PoolConfig{
			Asset:             body.Asset,
			Weight:            body.Weight,
			MinDeposit:        body.MinDeposit,
			UnstakeLockBlocks: body.UnstakeLockBlocks,
			WithUpdate:        body.WithUpdate,
		})
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &AddPoolResponse{ID: pid})
}

func (a *Admin) handleSetWeight(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var body WeightRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return a.execute(w, req, "setPoolWeight", func(tx *ledger.Tx) error {
		return tx.Staker.SetPoolWeight(body.Caller, pid, body.Weight)
	})
}

func (a *Admin) handleUpdatePool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.PoolID(req)
	if err != nil {
		return err
	}
	var body PoolConfigRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return a.execute(w, req, "updatePool", func(tx *ledger.Tx) error {
		return tx.Staker.UpdatePool(body.Caller, pid, body.MinDeposit, body.UnstakeLockBlocks)
	})
}

func (a *Admin) handlePoolPause(paused bool) utils.HandlerFunc {
	op := "unpausePool"
	if paused {
		op = "pausePool"
	}
	return func(w http.ResponseWriter, req *http.Request) error {
		pid, err := utils.PoolID(req)
		if err != nil {
			return err
		}
		var body CallerRequest
		if err := parseBody(req, &body); err != nil {
			return err
		}
		return a.execute(w, req, op, func(tx *ledger.Tx) error {
			return tx.Staker.SetPoolPaused(body.Caller, pid, paused)
		})
	}
}

// handleGlobalPause toggles a global pause flag through set.
func (a *Admin) handleGlobalPause(op string, set func(s *staking.Staker, caller meta.Address) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body CallerRequest
		if err := parseBody(req, &body); err != nil {
			return err
		}
		return a.execute(w, req, op, func(tx *ledger.Tx) error {
			return set(tx.Staker, body.Caller)
		})
	}
}

func (a *Admin) handleEmission(w http.ResponseWriter, req *http.Request) error {
	var body EmissionRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if body.RewardPerBlock == nil && body.StartBlock == nil && body.EndBlock == nil {
		return utils.BadRequest(errors.New("nothing to change"))
	}
	return a.execute(w, req, "setEmission", func(tx *ledger.Tx) error {
		if body.RewardPerBlock != nil {
			if err := tx.Staker.SetRewardPerBlock(body.Caller, body.RewardPerBlock); err != nil {
				return err
			}
		}
		if body.StartBlock != nil {
			if err := tx.Staker.SetStartBlock(body.Caller, *body.StartBlock); err != nil {
				return err
			}
		}
		if body.EndBlock != nil {
			if err := tx.Staker.SetEndBlock(body.Caller, *body.EndBlock); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/pools").
		Methods(http.MethodPost).
		Name("POST /admin/pools").
		HandlerFunc(utils.WrapHandlerFunc(a.handleAddPool))
	sub.Path("/pools/{pid:[0-9]+}/weight").
		Methods(http.MethodPost).
		Name("POST /admin/pools/{pid}/weight").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetWeight))
	sub.Path("/pools/{pid:[0-9]+}/config").
		Methods(http.MethodPost).
		Name("POST /admin/pools/{pid}/config").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUpdatePool))
	sub.Path("/pools/{pid:[0-9]+}/pause").
		Methods(http.MethodPost).
		Name("POST /admin/pools/{pid}/pause").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePoolPause(true)))
	sub.Path("/pools/{pid:[0-9]+}/unpause").
		Methods(http.MethodPost).
		Name("POST /admin/pools/{pid}/unpause").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePoolPause(false)))
	sub.Path("/withdraw/pause").
		Methods(http.MethodPost).
		Name("POST /admin/withdraw/pause").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGlobalPause("pauseWithdraw", func(s *staking.Staker, caller meta.Address) error {
			return s.SetWithdrawPaused(caller, true)
		})))
	sub.Path("/withdraw/unpause").
		Methods(http.MethodPost).
		Name("POST /admin/withdraw/unpause").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGlobalPause("unpauseWithdraw", func(s *staking.Staker, caller meta.Address) error {
			return s.SetWithdrawPaused(caller, false)
		})))
	sub.Path("/claim/pause").
		Methods(http.MethodPost).
		Name("POST /admin/claim/pause").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGlobalPause("pauseClaim", func(s *staking.Staker, caller meta.Address) error {
			return s.SetClaimPaused(caller, true)
		})))
	sub.Path("/claim/unpause").
		Methods(http.MethodPost).
		Name("POST /admin/claim/unpause").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGlobalPause("unpauseClaim", func(s *staking.Staker, caller meta.Address) error {
			return s.SetClaimPaused(caller, false)
		})))
	sub.Path("/emission").
		Methods(http.MethodPost).
		Name("POST /admin/emission").
		HandlerFunc(utils.WrapHandlerFunc(a.handleEmission))
}
