// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	v1 "github.com/ravenlabs/blockchain/business/web/v1"
	"github.com/ravenlabs/blockchain/foundation/blockchain/block"
	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
	"github.com/ravenlabs/blockchain/foundation/blockchain/state"
	"github.com/ravenlabs/blockchain/foundation/events"
	"github.com/ravenlabs/blockchain/foundation/web"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	tx, err := req.toTx()
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "kind", req.Kind, "from", req.From, "to", req.To, "amount", req.Amount)
	if err := h.State.SubmitTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.QueryMempool()

	trans := make([]block.TxData, len(mempool))
	for i, tx := range mempool {
		trans[i] = block.NewTxData(tx)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Accounts returns the current state of one account or of the full ledger.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accounts map[ledger.AccountID]ledger.Account
	switch accountID := ledger.AccountID(web.Param(r, "account")); accountID {
	case "":
		accounts = h.State.QueryAccounts()

	default:
		account, exists := h.State.QueryAccount(accountID)
		if !exists {
			return v1.NewRequestError(ledger.ErrUnknownAccount, http.StatusNotFound)
		}
		accounts = map[ledger.AccountID]ledger.Account{accountID: account}
	}

	acts := make([]info, 0, len(accounts))
	for id, account := range accounts {
		acts = append(acts, newInfo(id, account))
	}

	ai := actInfo{
		LatestBlock: h.State.LastBlockHash(),
		Uncommitted: h.State.QueryMempoolLength(),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// Blocks returns all the blocks and their details.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.QueryBlocks()
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	out := make([]block.BlockData, len(blocks))
	for i, blk := range blocks {
		out[i] = block.NewBlockData(blk)
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// Validate walks the chain and reports the first inconsistency found.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.Validate(); err != nil {
		return v1.NewRequestError(err, http.StatusConflict)
	}

	resp := struct {
		Status string `json:"status"`
		Blocks int    `json:"blocks"`
	}{
		Status: "chain validated",
		Blocks: h.State.ChainLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// LatestBlockHash returns the hash of the block at the head of the chain.
func (h Handlers) LatestBlockHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Hash string `json:"hash"`
	}{
		Hash: h.State.LastBlockHash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Target returns the current proof of work settings.
func (h Handlers) Target(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := chainInfo{
		Length:     h.State.ChainLength(),
		Target:     h.State.CurrentTarget().String(),
		Difficulty: h.State.CurrentDifficulty(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
