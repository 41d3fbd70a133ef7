package database

import "math/big"

// Work calculates the accumulated proof of work for the chain. Each block
// contributes 2^difficulty, the expected number of hashes to mine it.
func Work(chain []Block) *big.Int {
	total := new(big.Int)
	for _, block := range chain {
		total.Add(total, blockWork(block))
	}
	return total
}

// blockWork calculates the proof of work for a single block.
func blockWork(block Block) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), block.Difficulty)
}
