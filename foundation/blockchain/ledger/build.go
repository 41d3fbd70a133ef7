package ledger

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// Build constructs and signs a transaction paying the amount to the recipient
// from the outputs owned by the private key. Outputs already claimed by a
// pending transaction are not used.
func Build(recipient string, amount uint64, privateKey *ecdsa.PrivateKey, set UnspentSet, pending []Tx) (Tx, error) {
	if recipient == "" || amount == 0 {
		return Tx{}, fmt.Errorf("%w: recipient and amount are required", ErrInvalidTx)
	}

	from := signature.PublicKeyToAddress(privateKey.PublicKey)

	claimed := make(map[outpoint]struct{})
	for _, tx := range pending {
		for _, in := range tx.TxIns {
			claimed[in.outpoint()] = struct{}{}
		}
	}

	var tx Tx
	var total uint64
	for _, utxo := range set.ForAddress(from) {
		if _, exists := claimed[outpoint{id: utxo.TxOutID, index: utxo.TxOutIndex}]; exists {
			continue
		}

		tx.TxIns = append(tx.TxIns, TxIn{TxOutID: utxo.TxOutID, TxOutIndex: utxo.TxOutIndex})
		total += utxo.Amount

		if total >= amount {
			break
		}
	}

	if total < amount {
		return Tx{}, fmt.Errorf("%w: available[%d] requested[%d]", ErrInsufficientFunds, total, amount)
	}

	tx.TxOuts = []TxOut{{Address: recipient, Amount: amount}}
	if change := total - amount; change > 0 {
		tx.TxOuts = append(tx.TxOuts, TxOut{Address: from, Amount: change})
	}
	tx.ID = tx.ComputeID()

	for i := range tx.TxIns {
		sig, err := signature.Sign(tx.ID, privateKey)
		if err != nil {
			return Tx{}, fmt.Errorf("signing input %d: %w", i, err)
		}
		tx.TxIns[i].Signature = sig
	}

	return tx, nil
}
