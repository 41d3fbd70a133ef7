package ledger

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// TxIn references an unspent output being consumed by a transaction.
type TxIn struct {
	TxOutID    string `json:"txOutId"`    // Id of the transaction that created the output.
	TxOutIndex uint64 `json:"txOutIndex"` // Position of the output in that transaction. Block index for a coinbase.
	Signature  string `json:"signature"`  // Signature of the transaction id by the owner of the output.
}

// TxOut represents an amount of coin assigned to an address.
type TxOut struct {
	Address string `json:"address" validate:"required"`
	Amount  uint64 `json:"amount" validate:"required"`
}

// Tx represents a transaction recorded inside a block.
type Tx struct {
	ID     string  `json:"id" validate:"required"`
	TxIns  []TxIn  `json:"txIns" validate:"required,min=1,dive"`
	TxOuts []TxOut `json:"txOuts" validate:"required,min=1,dive"`
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	id := tx.ID
	if len(id) > 10 {
		id = id[:10]
	}

	return fmt.Sprintf("%s:ins[%d]:outs[%d]", id, len(tx.TxIns), len(tx.TxOuts))
}

// ComputeID calculates the id for the transaction. Signatures are not part
// of the id since the id is what gets signed.
func (tx Tx) ComputeID() string {
	type outpoint struct {
		TxOutID    string `json:"txOutId"`
		TxOutIndex uint64 `json:"txOutIndex"`
	}

	ins := make([]outpoint, len(tx.TxIns))
	for i, in := range tx.TxIns {
		ins[i] = outpoint{TxOutID: in.TxOutID, TxOutIndex: in.TxOutIndex}
	}

	content := struct {
		Ins  []outpoint `json:"ins"`
		Outs []TxOut    `json:"outs"`
	}{
		Ins:  ins,
		Outs: tx.TxOuts,
	}

	return signature.Hash(content)
}

// Copy returns a transaction that shares no memory with the original.
func (tx Tx) Copy() Tx {
	cpy := tx
	if tx.TxIns != nil {
		cpy.TxIns = make([]TxIn, len(tx.TxIns))
		copy(cpy.TxIns, tx.TxIns)
	}
	if tx.TxOuts != nil {
		cpy.TxOuts = make([]TxOut, len(tx.TxOuts))
		copy(cpy.TxOuts, tx.TxOuts)
	}
	return cpy
}

// Total returns the sum of the outputs.
func (tx Tx) Total() uint64 {
	var total uint64
	for _, out := range tx.TxOuts {
		total += out.Amount
	}
	return total
}

// =============================================================================

// outpoint uniquely identifies an output on the chain.
type outpoint struct {
	id    string
	index uint64
}

func (in TxIn) outpoint() outpoint {
	return outpoint{id: in.TxOutID, index: in.TxOutIndex}
}

// sameAddress compares addresses ignoring the checksum casing.
func sameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
