package mempool_test

import (
	"crypto/ecdsa"
	"errors"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	reward = 50
	to     = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
)

func setup(t *testing.T) (*ledger.Ledger, *ecdsa.PrivateKey, ledger.UnspentSet) {
	pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		t.Fatalf("Should be able to load the private key: %s", err)
	}

	lgr := ledger.New(reward)

	coinbase := lgr.Coinbase(signature.PublicKeyToAddress(pk.PublicKey), 0)
	set, err := lgr.ApplyTransactions([]ledger.Tx{coinbase}, ledger.UnspentSet{}, 0)
	if err != nil {
		t.Fatalf("Should be able to apply the coinbase: %s", err)
	}

	return lgr, pk, set
}

func TestInsert(t *testing.T) {
	lgr, pk, set := setup(t)

	t.Log("Given the need to hold pending transactions.")
	{
		mp := mempool.New(lgr)

		tx, err := ledger.Build(to, 20, pk, set, mp.Pending())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to build a transaction.", success)

		n, err := mp.Insert(tx, set)
		if err != nil || n != 1 {
			t.Fatalf("\t%s\tShould be able to insert the transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to insert the transaction.", success)

		if _, err := mp.Insert(tx, set); !errors.Is(err, mempool.ErrExists) {
			t.Fatalf("\t%s\tShould reject the same transaction twice: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject the same transaction twice.", success)

		conflict, err := ledger.Build(to, 10, pk, set, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a second transaction: %s", failed, err)
		}

		if _, err := mp.Insert(conflict, set); !errors.Is(err, mempool.ErrConflict) {
			t.Fatalf("\t%s\tShould reject a transaction spending a claimed output: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a transaction spending a claimed output.", success)

		if _, err := ledger.Build(to, 10, pk, set, mp.Pending()); !errors.Is(err, ledger.ErrInsufficientFunds) {
			t.Fatalf("\t%s\tShould not build over outputs claimed in the pool: %v", failed, err)
		}
		t.Logf("\t%s\tShould not build over outputs claimed in the pool.", success)

		bad := tx
		bad.TxOuts = []ledger.TxOut{{Address: to, Amount: 1}}
		if _, err := mp.Insert(bad, set); err == nil {
			t.Fatalf("\t%s\tShould reject an invalid transaction.", failed)
		}
		t.Logf("\t%s\tShould reject an invalid transaction.", success)

		if mp.Count() != 1 {
			t.Fatalf("\t%s\tShould have one transaction in the pool: got %d", failed, mp.Count())
		}
		t.Logf("\t%s\tShould have one transaction in the pool.", success)

		mp.Truncate()
		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould be able to truncate the pool.", failed)
		}
		t.Logf("\t%s\tShould be able to truncate the pool.", success)
	}
}

func TestReconcile(t *testing.T) {
	lgr, pk, set := setup(t)

	t.Log("Given the need to drop transactions after the chain changes.")
	{
		mp := mempool.New(lgr)

		tx, err := ledger.Build(to, 20, pk, set, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a transaction: %s", failed, err)
		}

		if _, err := mp.Insert(tx, set); err != nil {
			t.Fatalf("\t%s\tShould be able to insert the transaction: %s", failed, err)
		}

		mp.Reconcile(set)
		if mp.Count() != 1 {
			t.Fatalf("\t%s\tShould keep transactions that are still valid.", failed)
		}
		t.Logf("\t%s\tShould keep transactions that are still valid.", success)

		txs := []ledger.Tx{lgr.Coinbase(to, 1), tx}
		next, err := lgr.ApplyTransactions(txs, set, 1)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to apply the block: %s", failed, err)
		}

		mp.Reconcile(next)
		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould drop transactions included in a block.", failed)
		}
		t.Logf("\t%s\tShould drop transactions included in a block.", success)
	}
}

func TestPickBest(t *testing.T) {
	lgr, pk, set := setup(t)

	t.Log("Given the need to pick transactions in arrival order.")
	{
		mp := mempool.New(lgr)

		first, err := ledger.Build(to, 20, pk, set, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a transaction: %s", failed, err)
		}
		if _, err := mp.Insert(first, set); err != nil {
			t.Fatalf("\t%s\tShould be able to insert the transaction: %s", failed, err)
		}

		// Spend the change of the first transaction once it is mined.
		next, err := lgr.ApplyTransactions([]ledger.Tx{lgr.Coinbase(to, 1), first}, set, 1)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to apply the block: %s", failed, err)
		}

		second, err := ledger.Build(to, 5, pk, next, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a second transaction: %s", failed, err)
		}
		if _, err := mp.Insert(second, next); err != nil {
			t.Fatalf("\t%s\tShould be able to insert the second transaction: %s", failed, err)
		}

		best := mp.PickBest(1)
		if len(best) != 1 || best[0].ID != first.ID {
			t.Fatalf("\t%s\tShould pick the oldest transaction first.", failed)
		}
		t.Logf("\t%s\tShould pick the oldest transaction first.", success)

		if all := mp.Pending(); len(all) != 2 || all[1].ID != second.ID {
			t.Fatalf("\t%s\tShould return every transaction in order.", failed)
		}
		t.Logf("\t%s\tShould return every transaction in order.", success)

		mp.Delete(first.ID)
		if mp.Count() != 1 {
			t.Fatalf("\t%s\tShould be able to delete a transaction.", failed)
		}
		t.Logf("\t%s\tShould be able to delete a transaction.", success)
	}
}
