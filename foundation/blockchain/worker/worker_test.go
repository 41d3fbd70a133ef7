package worker_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ethereum/go-ethereum/crypto"
)

func Test_AutoMine(t *testing.T) {
	key, err := crypto.HexToECDSA("8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0")
	if err != nil {
		t.Fatalf("Should be able to load the private key: %s", err)
	}

	st, err := state.New(state.Config{
		Wallet:  wallet.New(key),
		Host:    "localhost:9080",
		Genesis: genesis.Default(),
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	worker.Run(st, worker.Config{AutoMine: true}, func(v string, args ...any) {})

	deadline := time.Now().Add(10 * time.Second)
	for st.RetrieveLatestBlock().Index < 3 {
		if time.Now().After(deadline) {
			st.Shutdown()
			t.Fatalf("Should mine blocks in the background: head[%d]", st.RetrieveLatestBlock().Index)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := st.Shutdown(); err != nil {
		t.Fatalf("Should be able to shutdown: %s", err)
	}

	head := st.RetrieveLatestBlock().Index
	time.Sleep(50 * time.Millisecond)

	if st.RetrieveLatestBlock().Index != head {
		t.Fatalf("Should stop mining after shutdown.")
	}
}
