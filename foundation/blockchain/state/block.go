package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain. The block pays the reward to this
// node's wallet and carries the pending transactions. If another block
// becomes the head while searching, mining starts over on the new head.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	var reconciled bool

	for {
		head := s.db.Head()

		s.evHandler("state: MineNewBlock: MINING: prepare: head[%s]: difficulty[%d]", head.Block, head.Difficulty)

		// The timestamp must move forward from the parent without getting
		// ahead of the clock, so wait for the clock to pass the parent.
		if wait := time.Until(time.Unix(int64(head.Block.Timestamp)+1, 0)); wait > 0 {
			s.evHandler("state: MineNewBlock: MINING: waiting[%v] for the clock to pass the head", wait)

			select {
			case <-time.After(wait):
			case <-head.Changed:
			case <-ctx.Done():
				return database.Block{}, ctx.Err()
			}
			continue
		}

		index := head.Block.Index + 1
		txs := append([]ledger.Tx{s.ledger.Coinbase(s.wallet.Address(), index)}, s.mempool.PickBest(s.txPerBlock)...)

		timestamp := uint64(time.Now().Unix())
		if timestamp <= head.Block.Timestamp {
			timestamp = head.Block.Timestamp + 1
		}

		block, err := s.mine(ctx, head, database.MineArgs{
			Index:      index,
			PrevHash:   head.Block.Hash,
			Timestamp:  timestamp,
			Data:       txs,
			Difficulty: head.Difficulty,
			EvHandler:  s.evHandler,
		})
		if err != nil {
			if ctx.Err() != nil {
				return database.Block{}, ctx.Err()
			}

			s.evHandler("state: MineNewBlock: MINING: head changed, restarting")
			continue
		}

		s.evHandler("state: MineNewBlock: MINING: append block[%s]", block)

		if err := s.db.AppendBlock(block); err != nil {
			switch {
			case errors.Is(err, database.ErrBrokenLinkage), errors.Is(err, database.ErrDiscontinuousIndex):
				s.evHandler("state: MineNewBlock: MINING: lost the race for blk[%d], restarting", index)
				continue

			case errors.Is(err, database.ErrTransactionApplication) && !reconciled:
				reconciled = true
				s.evHandler("state: MineNewBlock: MINING: stale transactions, reconcile and restart: %s", err)
				s.mempool.Reconcile(s.db.CopyUnspent())
				continue
			}

			return database.Block{}, err
		}

		s.blockEvent(block)
		s.Worker.SignalShareBlock(block)

		return block, nil
	}
}

// mine performs the proof of work for the specified head. The search is
// cancelled when the head is replaced or the parent context is done.
func (s *State) mine(ctx context.Context, head database.Head, args database.MineArgs) (database.Block, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-head.Changed:
			s.evHandler("state: MineNewBlock: MINING: CANCEL: head changed")
			cancel()
		case <-ctx.Done():
		}
	}()

	return database.MineBlock(ctx, args)
}

// ProcessProposedBlock takes a block received from a peer, validates it and
// if that passes, adds the block to the local blockchain. A block that is
// ahead of our chain but does not link to it means we are behind or on a
// fork, so a resync with the peers is requested.
func (s *State) ProcessProposedBlock(block database.Block) error {
	s.evHandler("state: ProcessProposedBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.PrevHash, block.Hash, len(block.Data))
	defer s.evHandler("state: ProcessProposedBlock: completed: newBlk[%s]", block.Hash)

	latest := s.db.LatestBlock()

	if err := s.db.AppendBlock(block); err != nil {
		if block.Index > latest.Index && (errors.Is(err, database.ErrBrokenLinkage) || errors.Is(err, database.ErrDiscontinuousIndex)) {
			s.evHandler("state: ProcessProposedBlock: peer is ahead: blk[%d]: latest[%d]: signal resync", block.Index, latest.Index)
			s.Worker.SignalResync()
		}
		return err
	}

	s.blockEvent(block)
	s.Worker.SignalShareBlock(block)

	return nil
}

// ProcessProposedChain takes a full chain received from a peer and replaces
// the local chain with it when it is valid and carries more work.
func (s *State) ProcessProposedChain(chain []database.Block) error {
	s.evHandler("state: ProcessProposedChain: started: blocks[%d]", len(chain))
	defer s.evHandler("state: ProcessProposedChain: completed")

	if err := s.db.ReplaceChain(chain); err != nil {
		return err
	}

	latest := s.db.LatestBlock()

	s.blockEvent(latest)
	s.Worker.SignalShareBlock(latest)

	return nil
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: %s`, string(blockJSON))
}
