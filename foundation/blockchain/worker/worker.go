// Package worker implements mining, peer updates, and block and transaction
// sharing for the blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// peerUpdateInterval represents the interval of finding new peer nodes
// and checking if a peer has a chain with more work.
const peerUpdateInterval = time.Minute

// maxShareRequests represents the max number of pending block or tx network
// share requests that can be outstanding before share requests are dropped.
const maxShareRequests = 100

// Config represents the options for running the worker.
type Config struct {
	AutoMine       bool
	PeerUpdateTime time.Duration
}

// =============================================================================

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state        *state.State
	autoMine     bool
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	ctx          context.Context
	cancel       context.CancelFunc
	startMining  chan bool
	resync       chan bool
	blockSharing chan database.Block
	txSharing    chan ledger.Tx
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) {
	interval := cfg.PeerUpdateTime
	if interval <= 0 {
		interval = peerUpdateInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:        st,
		autoMine:     cfg.AutoMine,
		ticker:       time.NewTicker(interval),
		shut:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		startMining:  make(chan bool, 1),
		resync:       make(chan bool, 1),
		blockSharing: make(chan database.Block, maxShareRequests),
		txSharing:    make(chan ledger.Tx, maxShareRequests),
		evHandler:    evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.miningOperations,
		w.shareOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	if w.autoMine {
		w.SignalStartMining()
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: cancel mining")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalResync starts a sync with the peers looking for a chain with more
// work. If there is already a signal pending, the request is dropped.
func (w *Worker) SignalResync() {
	select {
	case w.resync <- true:
		w.evHandler("worker: SignalResync: resync signaled")
	default:
	}
}

// SignalShareBlock signals a share block operation. If maxShareRequests
// signals exist in the channel, we won't send these.
func (w *Worker) SignalShareBlock(block database.Block) {
	select {
	case w.blockSharing <- block:
		w.evHandler("worker: SignalShareBlock: share block signaled")
	default:
		w.evHandler("worker: SignalShareBlock: queue full, block won't be shared.")
	}
}

// SignalShareTx signals a share transaction operation. If maxShareRequests
// signals exist in the channel, we won't send these.
func (w *Worker) SignalShareTx(tx ledger.Tx) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
