package state

import (
	"errors"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
)

// SubmitWalletTransaction builds a transaction paying the amount from this
// node's wallet, adds it to the mempool and shares it with the network.
func (s *State) SubmitWalletTransaction(to string, amount uint64) (ledger.Tx, error) {
	s.evHandler("state: SubmitWalletTransaction: started: to[%s]: amount[%d]", to, amount)
	defer s.evHandler("state: SubmitWalletTransaction: completed")

	set := s.db.CopyUnspent()

	tx, err := ledger.Build(to, amount, s.wallet.PrivateKey(), set, s.mempool.Pending())
	if err != nil {
		return ledger.Tx{}, err
	}

	if _, err := s.mempool.Insert(tx, set); err != nil {
		return ledger.Tx{}, err
	}

	s.Worker.SignalShareTx(tx)

	return tx, nil
}

// SubmitNodeTransaction accepts a transaction from a peer or a client and
// adds it to the mempool. Only transactions new to this node are shared.
func (s *State) SubmitNodeTransaction(tx ledger.Tx) error {
	s.evHandler("state: SubmitNodeTransaction: started: tx[%s]", tx)
	defer s.evHandler("state: SubmitNodeTransaction: completed")

	n, err := s.mempool.Insert(tx, s.db.CopyUnspent())
	if err != nil {
		if errors.Is(err, mempool.ErrExists) {
			return nil
		}
		return err
	}

	s.evHandler("state: SubmitNodeTransaction: mempool: len[%d]", n)

	s.Worker.SignalShareTx(tx)

	return nil
}

// UpsertMempool adds a transaction retrieved from a peer without sharing it
// any further.
func (s *State) UpsertMempool(tx ledger.Tx) error {
	_, err := s.mempool.Insert(tx, s.db.CopyUnspent())
	return err
}
