// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/metanode/stake/api/pools"
	"github.com/metanode/stake/api/utils"
	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking"
)

// Assets serves balances of the asset ledger and, in solo mode, approvals and transfers.
type Assets struct {
	ledger *ledger.Ledger
	solo   bool
}

func New(l *ledger.Ledger, solo bool) *Assets {
	return &Assets{
		ledger: l,
		solo:   solo,
	}
}

func (a *Assets) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.Asset(req)
	if err != nil {
		return err
	}
	owner, err := utils.Address(req, "owner")
	if err != nil {
		return err
	}
	res := &Balance{Asset: asset, Owner: owner}
	if err := a.ledger.View(req.Context(), func(tx *ledger.Tx) (err error) {
		res.Block = tx.Block
		res.Balance, err = tx.Assets.BalanceOf(asset, owner)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *Assets) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.Asset(req)
	if err != nil {
		return err
	}
	owner, err := utils.Address(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.Address(req, "spender")
	if err != nil {
		return err
	}
	res := &Allowance{Asset: asset, Owner: owner, Spender: spender}
	if err := a.ledger.View(req.Context(), func(tx *ledger.Tx) (err error) {
		res.Allowance, err = tx.Assets.Allowance(asset, owner, spender)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *Assets) handleGetFee(w http.ResponseWriter, req *http.Request) error {
	asset, err := utils.Asset(req)
	if err != nil {
		return err
	}
	res := &Fee{Asset: asset}
	if err := a.ledger.View(req.Context(), func(tx *ledger.Tx) (err error) {
		res.FeeBps, err = tx.Assets.Fee(asset)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *Assets) handleApprove(w http.ResponseWriter, req *http.Request) error {
	if !a.solo {
		return utils.Forbidden(errors.New("unsigned operations are only served in solo mode"))
	}
	asset, err := utils.Asset(req)
	if err != nil {
		return err
	}
	if asset == meta.NativeAsset {
		return utils.BadRequest(errors.New("native value is attached, not approved"))
	}
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	spender := staking.Address
	if body.Spender != nil {
		spender = *body.Spender
	}
	receipt, err := a.ledger.Execute(req.Context(), "approve", func(tx *ledger.Tx) error {
		return tx.Assets.Approve(asset, body.Caller, spender, fixedpoint.OrZero(body.Amount))
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pools.ConvertReceipt(receipt, body.Amount))
}

func (a *Assets) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	if !a.solo {
		return utils.Forbidden(errors.New("unsigned operations are only served in solo mode"))
	}
	asset, err := utils.Asset(req)
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount := fixedpoint.OrZero(body.Amount)
	receipt, err := a.ledger.Execute(req.Context(), "transfer", func(tx *ledger.Tx) error {
		if asset == meta.NativeAsset {
			return tx.Assets.TransferNative(body.Caller, body.To, amount)
		}
		return tx.Assets.Transfer(asset, body.Caller, body.To, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pools.ConvertReceipt(receipt, amount))
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}/balances/{owner}").
		Methods(http.MethodGet).
		Name("GET /assets/{asset}/balances/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	sub.Path("/{asset}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /assets/{asset}/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAllowance))
	sub.Path("/{asset}/fee").
		Methods(http.MethodGet).
		Name("GET /assets/{asset}/fee").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetFee))
	sub.Path("/{asset}/approve").
		Methods(http.MethodPost).
		Name("POST /assets/{asset}/approve").
		HandlerFunc(utils.WrapHandlerFunc(a.handleApprove))
	sub.Path("/{asset}/transfer").
		Methods(http.MethodPost).
		Name("POST /assets/{asset}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))
}
