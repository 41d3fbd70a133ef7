// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining, peer updates, and sharing.
type Worker interface {
	Shutdown()
	Sync()
	SignalStartMining()
	SignalShareBlock(block database.Block)
	SignalShareTx(tx ledger.Tx)
	SignalResync()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Wallet     *wallet.Wallet
	Host       string
	Genesis    genesis.Genesis
	TxPerBlock int
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// State manages the blockchain database.
type State struct {
	wallet     *wallet.Wallet
	host       string
	txPerBlock int
	evHandler  EventHandler

	knownPeers *peer.PeerSet
	genesis    genesis.Genesis
	ledger     *ledger.Ledger
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	txPerBlock := cfg.TxPerBlock
	if txPerBlock == 0 {
		txPerBlock = -1
	}

	// The ledger applies the transaction rules for both the mempool and
	// the blocks in the chain.
	lgr := ledger.New(cfg.Genesis.Reward)
	mp := mempool.New(lgr)

	db, err := database.New(database.Config{
		Genesis:    cfg.Genesis,
		Applier:    lgr,
		Reconciler: mp,
		EvHandler:  ev,
		Now:        time.Now,
	})
	if err != nil {
		return nil, err
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		wallet:     cfg.Wallet,
		host:       cfg.Host,
		txPerBlock: txPerBlock,
		evHandler:  ev,

		knownPeers: knownPeers,
		genesis:    cfg.Genesis,
		ledger:     lgr,
		mempool:    mp,
		db:         db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	s.Worker.Shutdown()

	return nil
}
