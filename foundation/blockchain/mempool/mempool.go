// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// Set of error variables for inserting transactions.
var (
	ErrExists   = errors.New("transaction already in the mempool")
	ErrConflict = errors.New("transaction spends an output already claimed in the mempool")
)

// Mempool represents a cache of pending transactions keyed by the
// transaction id and kept in the order they arrived.
type Mempool struct {
	lgr   *ledger.Ledger
	mu    sync.RWMutex
	pool  map[string]ledger.Tx
	order []string
}

// New constructs a new mempool that validates transactions with the
// specified ledger.
func New(lgr *ledger.Ledger) *Mempool {
	return &Mempool{
		lgr:  lgr,
		pool: make(map[string]ledger.Tx),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Insert validates the transaction against the unspent output set and adds
// it to the pool. The number of transactions in the pool is returned.
func (mp *Mempool) Insert(tx ledger.Tx, set ledger.UnspentSet) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.ID]; exists {
		return len(mp.pool), fmt.Errorf("%w: %s", ErrExists, tx.ID)
	}

	if err := mp.lgr.ValidateTx(tx, set); err != nil {
		return len(mp.pool), err
	}

	claimed := mp.claimed()
	for _, in := range tx.TxIns {
		if id, exists := claimed[outpoint(in)]; exists {
			return len(mp.pool), fmt.Errorf("%w: %s:%d claimed by %s", ErrConflict, in.TxOutID, in.TxOutIndex, id)
		}
	}

	mp.pool[tx.ID] = tx
	mp.order = append(mp.order, tx.ID)

	return len(mp.pool), nil
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(txID string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.remove(map[string]bool{txID: true})
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]ledger.Tx)
	mp.order = nil
}

// Pending returns a copy of every transaction in the pool in the order
// they arrived.
func (mp *Mempool) Pending() []ledger.Tx {
	return mp.PickBest(-1)
}

// PickBest returns the next set of transactions for the next block. The
// oldest transactions are picked first. A value of -1 picks them all.
func (mp *Mempool) PickBest(howMany int) []ledger.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany < 0 || howMany > len(mp.order) {
		howMany = len(mp.order)
	}

	txs := make([]ledger.Tx, howMany)
	for i, id := range mp.order[:howMany] {
		txs[i] = mp.pool[id]
	}

	return txs
}

// Reconcile drops every transaction that is no longer valid against the
// specified unspent output set. This happens when a block that spends the
// same outputs is added or the chain is replaced.
func (mp *Mempool) Reconcile(set ledger.UnspentSet) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	drop := make(map[string]bool)
	claimed := make(map[string]string)

	for _, id := range mp.order {
		tx := mp.pool[id]

		if err := mp.lgr.ValidateTx(tx, set); err != nil {
			drop[id] = true
			continue
		}

		for _, in := range tx.TxIns {
			if _, exists := claimed[outpoint(in)]; exists {
				drop[id] = true
				break
			}
		}
		if drop[id] {
			continue
		}

		for _, in := range tx.TxIns {
			claimed[outpoint(in)] = id
		}
	}

	mp.remove(drop)
}

// =============================================================================

// remove deletes the specified transactions keeping the arrival order of
// the rest. The lock must be held.
func (mp *Mempool) remove(ids map[string]bool) {
	if len(ids) == 0 {
		return
	}

	order := make([]string, 0, len(mp.order))
	for _, id := range mp.order {
		if ids[id] {
			delete(mp.pool, id)
			continue
		}
		order = append(order, id)
	}
	mp.order = order
}

// claimed returns the outputs spent by pooled transactions mapped to the
// id of the spending transaction. The lock must be held.
func (mp *Mempool) claimed() map[string]string {
	m := make(map[string]string)
	for id, tx := range mp.pool {
		for _, in := range tx.TxIns {
			m[outpoint(in)] = id
		}
	}
	return m
}

// outpoint is used to generate the map key for a spent output.
func outpoint(in ledger.TxIn) string {
	return fmt.Sprintf("%s:%d", in.TxOutID, in.TxOutIndex)
}
