package database

import "github.com/ardanlabs/powchain/foundation/blockchain/genesis"

// NextDifficulty calculates the difficulty the next block on this chain
// must be mined with. The difficulty is only retargeted when the newest block
// closes an adjustment window, and then only by a single step.
func NextDifficulty(chain []Block, gen genesis.Genesis) uint {
	if len(chain) == 0 {
		return 0
	}

	newest := chain[len(chain)-1]
	interval := gen.AdjustmentInterval

	if newest.Index == 0 || interval == 0 || newest.Index%interval != 0 {
		return newest.Difficulty
	}

	// The chain starts at genesis so a block's index is its position.
	if newest.Index < interval || uint64(len(chain)) <= newest.Index {
		return newest.Difficulty
	}
	windowStart := chain[newest.Index-interval]

	expected := gen.BlockInterval * interval
	var actual uint64
	if newest.Timestamp > windowStart.Timestamp {
		actual = newest.Timestamp - windowStart.Timestamp
	}

	switch {
	case 2*actual < expected:
		return newest.Difficulty + 1

	case actual > 2*expected:
		if newest.Difficulty == 0 {
			return 0
		}
		return newest.Difficulty - 1
	}

	return newest.Difficulty
}
