package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "node.ecdsa")

	t.Log("Given the need to keep the same identity across restarts.")
	{
		w1, err := wallet.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create a new key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to create a new key.", success)

		w2, err := wallet.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the saved key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the saved key.", success)

		if w1.Address() != w2.Address() {
			t.Logf("\t%s\tgot: %s", failed, w2.Address())
			t.Logf("\t%s\texp: %s", failed, w1.Address())
			t.Fatalf("\t%s\tShould get back the same address.", failed)
		}
		t.Logf("\t%s\tShould get back the same address.", success)

		lgr := ledger.New(50)
		set, err := lgr.ApplyTransactions([]ledger.Tx{lgr.Coinbase(w1.Address(), 0)}, nil, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to apply a coinbase: %s", failed, err)
		}

		if bal := wallet.Balance(w1.Address(), set); bal != 50 {
			t.Fatalf("\t%s\tShould have the coinbase balance: got %d", failed, bal)
		}
		t.Logf("\t%s\tShould have the coinbase balance.", success)
	}
}
