package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/powchain/app/services/node/handlers"
	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const to = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"

type muxes struct {
	public  http.Handler
	private http.Handler
}

func newMuxes(t *testing.T) muxes {
	log, err := logger.New("TEST")
	if err != nil {
		t.Fatalf("Should be able to construct the logger: %s", err)
	}
	t.Cleanup(func() { log.Sync() })

	key, err := crypto.HexToECDSA("8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0")
	if err != nil {
		t.Fatalf("Should be able to load the private key: %s", err)
	}

	ev := func(v string, args ...any) {
		log.Debugf(v, args...)
	}

	st, err := state.New(state.Config{
		Wallet:     wallet.New(key),
		Host:       "localhost:9080",
		Genesis:    genesis.Default(),
		KnownPeers: peer.NewPeerSet(),
		EvHandler:  ev,
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	worker.Run(st, worker.Config{}, ev)
	t.Cleanup(func() { st.Shutdown() })

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	cfg := handlers.MuxConfig{
		Shutdown:    make(chan os.Signal, 1),
		Log:         log,
		State:       st,
		NS:          ns,
		Evts:        events.New(),
		CorsOrigins: []string{"http://viewer.local"},
	}

	return muxes{
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
	}
}

func call(mux http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}

	r := httptest.NewRequest(method, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	return w
}

// =============================================================================

func Test_PublicAPI(t *testing.T) {
	m := newMuxes(t)

	t.Log("Given the need to mine and send through the public api.")
	{
		w := call(m.public, http.MethodPost, "/v1/blocks/mine", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to mine a block: %d: %s", failed, w.Code, w.Body)
		}

		var block database.Block
		if err := json.NewDecoder(w.Body).Decode(&block); err != nil || block.Index != 1 {
			t.Fatalf("\t%s\tShould get back the mined block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		w = call(m.public, http.MethodGet, "/v1/balance", nil)

		var bal struct {
			Balance uint64 `json:"balance"`
		}
		if err := json.NewDecoder(w.Body).Decode(&bal); err != nil || bal.Balance != genesis.Default().Reward {
			t.Fatalf("\t%s\tShould have the reward as the balance: %d: %v", failed, bal.Balance, err)
		}
		t.Logf("\t%s\tShould have the reward as the balance.", success)

		w = call(m.public, http.MethodPost, "/v1/tx/send", map[string]any{"to": to, "amount": 20})
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to send a transaction: %d: %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould be able to send a transaction.", success)

		w = call(m.public, http.MethodGet, "/v1/tx/uncommitted/list", nil)

		var txs []ledger.Tx
		if err := json.NewDecoder(w.Body).Decode(&txs); err != nil || len(txs) != 1 {
			t.Fatalf("\t%s\tShould have the transaction in the mempool: %v", failed, err)
		}
		t.Logf("\t%s\tShould have the transaction in the mempool.", success)

		w = call(m.public, http.MethodPost, "/v1/tx/send", map[string]any{"to": to})

		var er errs.Response
		if err := json.NewDecoder(w.Body).Decode(&er); err != nil || w.Code != http.StatusBadRequest || er.Fields["amount"] == "" {
			t.Fatalf("\t%s\tShould reject a request missing the amount: %d: %v", failed, w.Code, er)
		}
		t.Logf("\t%s\tShould reject a request missing the amount.", success)

		w = call(m.public, http.MethodPost, "/v1/tx/send", map[string]any{"to": to, "amount": 1000})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject an overspend: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould reject an overspend.", success)
	}
}

func Test_PrivateAPI(t *testing.T) {
	m := newMuxes(t)

	t.Log("Given the need to talk to other nodes through the private api.")
	{
		w := call(m.private, http.MethodGet, "/v1/node/chain", nil)

		var chain []database.Block
		if err := json.NewDecoder(w.Body).Decode(&chain); err != nil || len(chain) != 1 {
			t.Fatalf("\t%s\tShould get back the genesis chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould get back the genesis chain.", success)

		w = call(m.private, http.MethodPost, "/v1/node/block/propose", chain[0])
		if w.Code != http.StatusNotAcceptable {
			t.Fatalf("\t%s\tShould not accept the genesis block again: %d: %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould not accept the genesis block again.", success)

		w = call(m.private, http.MethodPost, "/v1/node/chain/propose", chain)
		if w.Code != http.StatusNotAcceptable {
			t.Fatalf("\t%s\tShould not accept a chain without more work: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould not accept a chain without more work.", success)

		w = call(m.private, http.MethodPost, "/v1/node/peers", peer.New("localhost:9180"))
		if w.Code != http.StatusNoContent {
			t.Fatalf("\t%s\tShould be able to add a peer: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould be able to add a peer.", success)

		w = call(m.private, http.MethodGet, "/v1/node/status", nil)

		var ps peer.PeerStatus
		if err := json.NewDecoder(w.Body).Decode(&ps); err != nil || ps.LatestBlockHash != chain[0].Hash || ps.TotalWork != "1" {
			t.Fatalf("\t%s\tShould get back the node status: %v: %+v", failed, err, ps)
		}
		t.Logf("\t%s\tShould get back the node status.", success)

		found := false
		for _, pr := range ps.KnownPeers {
			if pr.Host == "localhost:9180" {
				found = true
			}
		}
		if !found {
			t.Fatalf("\t%s\tShould list the added peer.", failed)
		}
		t.Logf("\t%s\tShould list the added peer.", success)

		w = call(m.private, http.MethodGet, "/v1/node/block/list/0/latest", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to list blocks: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould be able to list blocks.", success)

		w = call(m.private, http.MethodGet, "/v1/node/block/list/5/2", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject a backwards range: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould reject a backwards range.", success)
	}
}

func Test_Cors(t *testing.T) {
	m := newMuxes(t)

	t.Log("Given the need to answer browser preflight requests.")
	{
		r := httptest.NewRequest(http.MethodOptions, "/v1/genesis", nil)
		r.Header.Set("Origin", "http://viewer.local")
		w := httptest.NewRecorder()
		m.public.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("\t%s\tShould receive a 204 for the preflight: %d", failed, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://viewer.local" {
			t.Fatalf("\t%s\tShould allow the configured origin: %q", failed, got)
		}
		t.Logf("\t%s\tShould allow the configured origin.", success)

		r = httptest.NewRequest(http.MethodGet, "/v1/genesis", nil)
		r.Header.Set("Origin", "http://other.local")
		w = httptest.NewRecorder()
		m.public.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould still serve the request: %d", failed, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("\t%s\tShould not allow an unknown origin: %q", failed, got)
		}
		t.Logf("\t%s\tShould not allow an unknown origin.", success)
	}
}
