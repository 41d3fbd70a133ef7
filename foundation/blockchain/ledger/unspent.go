package ledger

// UnspentTxOut is an output that has not been consumed by any transaction.
type UnspentTxOut struct {
	TxOutID    string `json:"txOutId"`
	TxOutIndex uint64 `json:"txOutIndex"`
	Address    string `json:"address"`
	Amount     uint64 `json:"amount"`
}

// UnspentSet represents the spendable outputs derived from a chain.
type UnspentSet []UnspentTxOut

// Copy returns a copy of the set that shares no memory with the original.
func (us UnspentSet) Copy() UnspentSet {
	if us == nil {
		return UnspentSet{}
	}

	cpy := make(UnspentSet, len(us))
	copy(cpy, us)
	return cpy
}

// Find locates the output identified by the transaction id and index.
func (us UnspentSet) Find(txOutID string, txOutIndex uint64) (UnspentTxOut, bool) {
	for _, utxo := range us {
		if utxo.TxOutID == txOutID && utxo.TxOutIndex == txOutIndex {
			return utxo, true
		}
	}
	return UnspentTxOut{}, false
}

// ForAddress returns the outputs owned by the specified address.
func (us UnspentSet) ForAddress(address string) UnspentSet {
	var owned UnspentSet
	for _, utxo := range us {
		if sameAddress(utxo.Address, address) {
			owned = append(owned, utxo)
		}
	}
	return owned
}

// Balance folds the outputs owned by the specified address.
func (us UnspentSet) Balance(address string) uint64 {
	var balance uint64
	for _, utxo := range us.ForAddress(address) {
		balance += utxo.Amount
	}
	return balance
}
