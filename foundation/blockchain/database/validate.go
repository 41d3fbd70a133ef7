package database

import (
	"fmt"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// MaxFutureDrift is how far ahead of the local clock a block's timestamp
// is allowed to be.
const MaxFutureDrift = 60 * time.Second

// TxApplier represents the behavior required to fold the transactions of a
// block into an unspent output set.
type TxApplier interface {
	ApplyTransactions(txs []ledger.Tx, set ledger.UnspentSet, blockIndex uint64) (ledger.UnspentSet, error)
}

// ValidateBlock takes a block and validates it can follow the predecessor
// block in the chain. The checks short circuit on the first failure.
func ValidateBlock(candidate Block, predecessor Block, now time.Time) error {
	if err := candidate.checkStructure(); err != nil {
		return err
	}

	if candidate.Index != predecessor.Index+1 {
		return fmt.Errorf("%w: got %d, exp %d", ErrDiscontinuousIndex, candidate.Index, predecessor.Index+1)
	}

	if candidate.PrevHash != predecessor.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrBrokenLinkage, candidate.PrevHash, predecessor.Hash)
	}

	hash, err := candidate.ComputeHash()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBlock, err)
	}

	if hash != candidate.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrHashIntegrity, candidate.Hash, hash)
	}

	if !isHashSolved(candidate.Difficulty, candidate.Hash) {
		return fmt.Errorf("%w: %s does not solve difficulty %d", ErrHashIntegrity, candidate.Hash, candidate.Difficulty)
	}

	if candidate.Timestamp <= predecessor.Timestamp {
		return fmt.Errorf("%w: block %d is not after parent %d", ErrInvalidTimestamp, candidate.Timestamp, predecessor.Timestamp)
	}

	// Compared as unsigned seconds. Timestamps past 2^63 don't fit a time.Time.
	limit := uint64(max(now.Unix(), 0)) + uint64(MaxFutureDrift/time.Second)
	if candidate.Timestamp >= limit {
		return fmt.Errorf("%w: block %d is too far ahead of %d", ErrInvalidTimestamp, candidate.Timestamp, now.Unix())
	}

	return nil
}

// ValidateChain validates every block of a candidate chain and folds its
// transactions from an empty set. On success the unspent output set that
// results from the chain is returned.
func ValidateChain(chain []Block, genesisBlock Block, applier TxApplier, now time.Time) (ledger.UnspentSet, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: chain is empty", ErrMalformedBlock)
	}

	if !chain[0].Equal(genesisBlock) {
		return nil, fmt.Errorf("%w: got %s, exp %s", ErrForeignGenesis, chain[0].Hash, genesisBlock.Hash)
	}

	set := ledger.UnspentSet{}
	for i, block := range chain {
		if i > 0 {
			if err := ValidateBlock(block, chain[i-1], now); err != nil {
				return nil, fmt.Errorf("block[%d]: %w", i, err)
			}
		}

		next, err := applier.ApplyTransactions(block.Data, set, block.Index)
		if err != nil {
			return nil, fmt.Errorf("block[%d]: %w: %w", i, ErrTransactionApplication, err)
		}
		set = next
	}

	return set, nil
}

// checkStructure validates the shape of the block before any of its
// content is trusted.
func (b Block) checkStructure() error {
	switch {
	case !signature.IsHash(b.Hash):
		return fmt.Errorf("%w: hash %q is not a hash", ErrMalformedBlock, b.Hash)
	case !signature.IsHash(b.PrevHash):
		return fmt.Errorf("%w: previous hash %q is not a hash", ErrMalformedBlock, b.PrevHash)
	case b.Data == nil:
		return fmt.Errorf("%w: data is missing", ErrMalformedBlock)
	}

	return nil
}
