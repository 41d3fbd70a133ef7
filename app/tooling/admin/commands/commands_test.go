package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ardanlabs/powchain/app/tooling/admin/commands"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const miner = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"

func newNode(t *testing.T, chain []database.Block) commands.Node {
	gen := genesis.Default()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/genesis", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"genesis": gen,
			"block":   chain[0],
		})
	})
	mux.HandleFunc("/v1/node/chain", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chain)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return commands.Node{
		PublicURL:  srv.URL,
		PrivateURL: srv.URL,
	}
}

func newChain(t *testing.T) []database.Block {
	gen := genesis.Default()
	genBlock := database.GenesisBlock(gen)

	args := database.MineArgs{
		Index:      1,
		PrevHash:   genBlock.Hash,
		Timestamp:  genBlock.Timestamp + 10,
		Data:       []ledger.Tx{ledger.New(gen.Reward).Coinbase(miner, 1)},
		Difficulty: 4,
	}

	block, err := database.MineBlock(context.Background(), args)
	if err != nil {
		t.Fatalf("Should be able to mine a block: %s", err)
	}

	return []database.Block{genBlock, block}
}

// =============================================================================

func Test_Audit(t *testing.T) {
	t.Log("Given the need to audit the chain of a node.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a valid chain.", testID)
		{
			node := newNode(t, newChain(t))

			var buf bytes.Buffer
			if err := commands.Audit(&buf, node); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to audit the chain: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to audit the chain.", success, testID)

			out := buf.String()
			if !strings.Contains(out, "Chain: valid") || !strings.Contains(out, "Work: 17") {
				t.Logf("\t\tTest %d:\tgot: %s", testID, out)
				t.Fatalf("\t%s\tTest %d:\tShould report the work of the chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report the work of the chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen handling a tampered chain.", testID)
		{
			chain := newChain(t)
			chain[1].Nonce++

			node := newNode(t, chain)

			var buf bytes.Buffer
			if err := commands.Audit(&buf, node); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the chain.", success, testID)
		}
	}
}

func Test_Balances(t *testing.T) {
	t.Log("Given the need to rebuild balances from the chain of a node.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen filtering by the miner address.", testID)
		{
			node := newNode(t, newChain(t))

			var buf bytes.Buffer
			if err := commands.Balances(&buf, node, strings.ToLower(miner)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to get balances: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to get balances.", success, testID)

			out := buf.String()
			if !strings.Contains(out, "Balance: 50") || strings.Contains(out, genesis.Default().Founder) {
				t.Logf("\t\tTest %d:\tgot: %s", testID, out)
				t.Fatalf("\t%s\tTest %d:\tShould only report the miner balance.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould only report the miner balance.", success, testID)
		}
	}
}
