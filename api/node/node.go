// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/metanode/stake/api/utils"
	"github.com/metanode/stake/clock"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/meta"
)

// Head is the last committed transaction together with the clock.
type Head struct {
	Block        uint32       `json:"block"`
	CurrentBlock uint32       `json:"currentBlock"`
	Txs          uint64       `json:"txs"`
	Digest       meta.Bytes32 `json:"digest"`
}

type Snapshot struct {
	Head   *Head        `json:"head"`
	Digest meta.Bytes32 `json:"digest"`
}

type Node struct {
	ledger *ledger.Ledger
	clock  clock.Clock
}

func New(l *ledger.Ledger, clk clock.Clock) *Node {
	return &Node{
		l,
		clk,
	}
}

func (n *Node) head() *Head {
	h := n.ledger.Head()
	return &Head{
		Block:        h.Block,
		CurrentBlock: n.clock.CurrentBlock(),
		Txs:          h.Txs,
		Digest:       h.Digest,
	}
}

func (n *Node) handleGetHead(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.head())
}

// handleGetSnapshot hashes every committed record. The head may move while hashing.
func (n *Node) handleGetSnapshot(w http.ResponseWriter, _ *http.Request) error {
	digest, err := n.ledger.Snapshot()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Snapshot{Head: n.head(), Digest: digest})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/head").
		Methods(http.MethodGet).
		Name("GET /node/head").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetHead))
	sub.Path("/snapshot").
		Methods(http.MethodGet).
		Name("GET /node/snapshot").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetSnapshot))
}
