// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/validate"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

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
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information and block.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gi := genesisInfo{
		Genesis: h.State.RetrieveGenesis(),
		Block:   h.State.RetrieveGenesisBlock(),
	}

	return web.Respond(ctx, w, gi, http.StatusOK)
}

// Blocks returns the full chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// LatestBlock returns the head of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveLatestBlock(), http.StatusOK)
}

// MineBlock mines the next block for the node's wallet and returns it once
// it's part of the chain.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("mine block", "traceid", v.TraceID, "difficulty", h.State.RetrieveDifficulty())

	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		return errs.Rejected(err)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Address returns the address of the node's wallet.
func (h Handlers) Address(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := h.State.RetrieveAccount()

	resp := address{
		Address: addr,
		Name:    h.NS.Lookup(addr),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balance returns the balance of the specified address or the node's wallet
// when no address is provided.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := web.Param(r, "address")
	if addr == "" {
		addr = h.State.RetrieveAccount()
	}

	resp := balance{
		Address: addr,
		Name:    h.NS.Lookup(addr),
		Balance: h.State.RetrieveBalance(addr),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Unspent returns the unspent outputs owned by the address. Wallets use
// these to build transactions.
func (h Handlers) Unspent(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := web.Param(r, "address")

	resp := unspent{
		Address: addr,
		Outputs: h.State.RetrieveUnspent(addr),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// SendTransaction pays an amount from the node's wallet.
func (h Handlers) SendTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st sendTx
	if err := web.Decode(r, &st); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(st); err != nil {
		return err
	}

	h.Log.Infow("send tran", "traceid", v.TraceID, "to", st.To, "amount", st.Amount)

	tx, err := h.State.SubmitWalletTransaction(st.To, st.Amount)
	if err != nil {
		return errs.Rejected(err)
	}

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// SubmitTransaction adds a transaction signed by a wallet to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx ledger.Tx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(tx); err != nil {
		return err
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", tx)

	if err := h.State.SubmitNodeTransaction(tx); err != nil {
		return errs.Rejected(err)
	}

	return web.Respond(ctx, w, status{Status: "transaction added to mempool"}, http.StatusOK)
}
