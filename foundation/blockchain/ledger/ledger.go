// Package ledger implements the unspent transaction output model used to
// derive balances from the transactions recorded on the chain.
package ledger

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// Set of error variables for transaction processing.
var (
	ErrInvalidCoinbase   = errors.New("invalid coinbase transaction")
	ErrInvalidTx         = errors.New("invalid transaction")
	ErrUnknownInput      = errors.New("input references unknown output")
	ErrDoubleSpend       = errors.New("output spent more than once")
	ErrBadSignature      = errors.New("input signature does not match output owner")
	ErrAmountMismatch    = errors.New("inputs do not equal outputs")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Ledger applies transactions to an unspent output set.
type Ledger struct {
	reward uint64
}

// New constructs a ledger that pays the specified reward for each block.
func New(reward uint64) *Ledger {
	return &Ledger{
		reward: reward,
	}
}

// Reward returns the amount paid by a coinbase transaction.
func (l *Ledger) Reward() uint64 {
	return l.reward
}

// Coinbase constructs the reward transaction for the block at the
// specified index.
func (l *Ledger) Coinbase(recipient string, blockIndex uint64) Tx {
	tx := Tx{
		TxIns: []TxIn{
			{TxOutID: "", TxOutIndex: blockIndex},
		},
		TxOuts: []TxOut{
			{Address: recipient, Amount: l.reward},
		},
	}
	tx.ID = tx.ComputeID()

	return tx
}

// ApplyTransactions validates the transactions of a block against the set
// and returns the set that results from applying them. The provided set is
// never modified.
func (l *Ledger) ApplyTransactions(txs []Tx, set UnspentSet, blockIndex uint64) (UnspentSet, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: block has no transactions", ErrInvalidCoinbase)
	}

	if err := l.validateCoinbase(txs[0], blockIndex); err != nil {
		return nil, err
	}

	spent := make(map[outpoint]struct{})
	for _, tx := range txs[1:] {
		if err := l.ValidateTx(tx, set); err != nil {
			return nil, err
		}

		for _, in := range tx.TxIns {
			if _, exists := spent[in.outpoint()]; exists {
				return nil, fmt.Errorf("%w: tx[%s]", ErrDoubleSpend, tx.ID)
			}
			spent[in.outpoint()] = struct{}{}
		}
	}

	newSet := make(UnspentSet, 0, len(set))
	for _, utxo := range set {
		if _, exists := spent[outpoint{id: utxo.TxOutID, index: utxo.TxOutIndex}]; !exists {
			newSet = append(newSet, utxo)
		}
	}

	for _, tx := range txs {
		for i, out := range tx.TxOuts {
			utxo := UnspentTxOut{
				TxOutID:    tx.ID,
				TxOutIndex: uint64(i),
				Address:    out.Address,
				Amount:     out.Amount,
			}
			newSet = append(newSet, utxo)
		}
	}

	return newSet, nil
}

// ValidateTx checks a regular transaction against the set of outputs it
// claims to spend.
func (l *Ledger) ValidateTx(tx Tx, set UnspentSet) error {
	if len(tx.TxIns) == 0 || len(tx.TxOuts) == 0 {
		return fmt.Errorf("%w: tx[%s] must have inputs and outputs", ErrInvalidTx, tx.ID)
	}

	if tx.ID != tx.ComputeID() {
		return fmt.Errorf("%w: tx[%s] id does not match contents", ErrInvalidTx, tx.ID)
	}

	var totalOut uint64
	for _, out := range tx.TxOuts {
		if out.Address == "" || out.Amount == 0 {
			return fmt.Errorf("%w: tx[%s] has an empty output", ErrInvalidTx, tx.ID)
		}
		if totalOut+out.Amount < totalOut {
			return fmt.Errorf("%w: tx[%s] output overflow", ErrInvalidTx, tx.ID)
		}
		totalOut += out.Amount
	}

	var totalIn uint64
	seen := make(map[outpoint]struct{})
	for _, in := range tx.TxIns {
		if _, exists := seen[in.outpoint()]; exists {
			return fmt.Errorf("%w: tx[%s]", ErrDoubleSpend, tx.ID)
		}
		seen[in.outpoint()] = struct{}{}

		utxo, found := set.Find(in.TxOutID, in.TxOutIndex)
		if !found {
			return fmt.Errorf("%w: tx[%s] input[%s:%d]", ErrUnknownInput, tx.ID, in.TxOutID, in.TxOutIndex)
		}

		from, err := signature.FromAddress(tx.ID, in.Signature)
		if err != nil || !sameAddress(from, utxo.Address) {
			return fmt.Errorf("%w: tx[%s] input[%s:%d]", ErrBadSignature, tx.ID, in.TxOutID, in.TxOutIndex)
		}

		totalIn += utxo.Amount
	}

	if totalIn != totalOut {
		return fmt.Errorf("%w: tx[%s] in[%d] out[%d]", ErrAmountMismatch, tx.ID, totalIn, totalOut)
	}

	return nil
}

// validateCoinbase checks the first transaction of a block pays exactly
// the reward for this block index.
func (l *Ledger) validateCoinbase(tx Tx, blockIndex uint64) error {
	switch {
	case tx.ID != tx.ComputeID():
		return fmt.Errorf("%w: id does not match contents", ErrInvalidCoinbase)
	case len(tx.TxIns) != 1 || len(tx.TxOuts) != 1:
		return fmt.Errorf("%w: must have one input and one output", ErrInvalidCoinbase)
	case tx.TxIns[0].TxOutID != "":
		return fmt.Errorf("%w: input must not reference an output", ErrInvalidCoinbase)
	case tx.TxIns[0].TxOutIndex != blockIndex:
		return fmt.Errorf("%w: input index[%d] is not the block index[%d]", ErrInvalidCoinbase, tx.TxIns[0].TxOutIndex, blockIndex)
	case tx.TxOuts[0].Amount != l.reward:
		return fmt.Errorf("%w: amount[%d] is not the reward[%d]", ErrInvalidCoinbase, tx.TxOuts[0].Amount, l.reward)
	case tx.TxOuts[0].Address == "":
		return fmt.Errorf("%w: missing recipient", ErrInvalidCoinbase)
	}

	return nil
}
