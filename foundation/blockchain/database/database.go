// Package database implements the consensus core of the blockchain: hashing,
// mining, difficulty, validation and the single authority that owns the
// canonical chain and its unspent output set.
package database

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// Reconciler represents the behavior required to drop pending transactions
// that are no longer valid after the unspent output set changes.
type Reconciler interface {
	Reconcile(set ledger.UnspentSet)
}

// Config represents the configuration required to construct the database.
type Config struct {
	Genesis    genesis.Genesis
	Applier    TxApplier
	Reconciler Reconciler
	EvHandler  func(v string, args ...any)
	Now        func() time.Time
}

// Head represents a consistent view of the chain head for mining.
type Head struct {
	Block      Block           // Newest block in the chain.
	Difficulty uint            // Difficulty for the next block.
	Changed    <-chan struct{} // Closed when this head is replaced.
}

// Database manages the canonical chain and the unspent output set derived
// from it. Both are only ever changed together under the lock.
type Database struct {
	mu sync.RWMutex

	genesis      genesis.Genesis
	genesisBlock Block
	applier      TxApplier
	reconciler   Reconciler
	evHandler    func(v string, args ...any)
	now          func() time.Time

	blocks      []Block
	unspent     ledger.UnspentSet
	work        *big.Int
	headChanged chan struct{}
}

// New constructs a database holding only the genesis block.
func New(cfg Config) (*Database, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	applier := cfg.Applier
	if applier == nil {
		applier = ledger.New(cfg.Genesis.Reward)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	genesisBlock := GenesisBlock(cfg.Genesis)

	unspent, err := applier.ApplyTransactions(genesisBlock.Data, ledger.UnspentSet{}, genesisBlock.Index)
	if err != nil {
		return nil, fmt.Errorf("applying genesis transactions: %w", err)
	}

	db := Database{
		genesis:      cfg.Genesis,
		genesisBlock: genesisBlock,
		applier:      applier,
		reconciler:   cfg.Reconciler,
		evHandler:    ev,
		now:          now,

		blocks:      []Block{genesisBlock},
		unspent:     unspent,
		work:        Work([]Block{genesisBlock}),
		headChanged: make(chan struct{}),
	}

	ev("database: New: genesis[%s]", genesisBlock.Hash)

	return &db, nil
}

// AppendBlock validates the block against the current head and if that
// passes, adds the block to the chain and applies its transactions.
func (db *Database) AppendBlock(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	head := db.blocks[len(db.blocks)-1]

	db.evHandler("database: AppendBlock: validate: blk[%d]: head[%d]", block.Index, head.Index)

	if err := ValidateBlock(block, head, db.now()); err != nil {
		db.evHandler("database: AppendBlock: REJECTED: blk[%d]: %s", block.Index, err)
		return err
	}

	unspent, err := db.applier.ApplyTransactions(block.Data, db.unspent, block.Index)
	if err != nil {
		db.evHandler("database: AppendBlock: REJECTED: blk[%d]: %s", block.Index, err)
		return fmt.Errorf("%w: %w", ErrTransactionApplication, err)
	}

	db.blocks = append(db.blocks, block.Copy())
	db.unspent = unspent
	db.work = new(big.Int).Add(db.work, blockWork(block))

	db.evHandler("database: AppendBlock: ACCEPTED: blk[%s]", block)

	db.commitHead()

	return nil
}

// ReplaceChain validates the candidate chain and replaces the canonical
// chain with it only if the candidate has strictly more accumulated work.
// Validation happens without holding the lock.
func (db *Database) ReplaceChain(chain []Block) error {
	db.evHandler("database: ReplaceChain: validate: blocks[%d]", len(chain))

	unspent, err := ValidateChain(chain, db.genesisBlock, db.applier, db.now())
	if err != nil {
		db.evHandler("database: ReplaceChain: REJECTED: %s", err)
		return err
	}

	work := Work(chain)

	db.mu.Lock()
	defer db.mu.Unlock()

	if work.Cmp(db.work) <= 0 {
		db.evHandler("database: ReplaceChain: REJECTED: work[%s]: current[%s]", work, db.work)
		return fmt.Errorf("%w: got %s, current %s", ErrInsufficientWork, work, db.work)
	}

	blocks := copyBlocks(chain)

	db.blocks = blocks
	db.unspent = unspent
	db.work = work

	db.evHandler("database: ReplaceChain: ACCEPTED: head[%s]: work[%s]", blocks[len(blocks)-1], work)

	db.commitHead()

	return nil
}

// commitHead reconciles the pending transactions with the new set and wakes
// up anyone waiting on the previous head. The lock must be held.
func (db *Database) commitHead() {
	if db.reconciler != nil {
		db.reconciler.Reconcile(db.unspent.Copy())
	}

	close(db.headChanged)
	db.headChanged = make(chan struct{})
}

// =============================================================================

// Genesis returns the genesis information used by the database.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// GenesisBlock returns the first block of the chain.
func (db *Database) GenesisBlock() Block {
	return db.genesisBlock.Copy()
}

// LatestBlock returns the newest block in the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].Copy()
}

// Head returns the newest block with the difficulty for the next block and
// a channel that is closed when this head is replaced.
func (db *Database) Head() Head {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return Head{
		Block:      db.blocks[len(db.blocks)-1].Copy(),
		Difficulty: NextDifficulty(db.blocks, db.genesis),
		Changed:    db.headChanged,
	}
}

// NextDifficulty returns the difficulty the next block must be mined with.
func (db *Database) NextDifficulty() uint {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return NextDifficulty(db.blocks, db.genesis)
}

// Work returns the accumulated work of the canonical chain.
func (db *Database) Work() *big.Int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return new(big.Int).Set(db.work)
}

// CopyChain returns a deep copy of the canonical chain.
func (db *Database) CopyChain() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return copyBlocks(db.blocks)
}

// CopyUnspent returns a point in time copy of the unspent output set.
func (db *Database) CopyUnspent() ledger.UnspentSet {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.unspent.Copy()
}

// QueryBlocksByNumber returns the set of blocks between the from and to
// indexes inclusive.
func (db *Database) QueryBlocksByNumber(from uint64, to uint64) []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	last := uint64(len(db.blocks) - 1)
	if to > last {
		to = last
	}

	if from > to {
		return nil
	}

	return copyBlocks(db.blocks[from : to+1])
}

func copyBlocks(blocks []Block) []Block {
	cpy := make([]Block, len(blocks))
	for i, block := range blocks {
		cpy[i] = block.Copy()
	}
	return cpy
}
