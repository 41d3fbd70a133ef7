package worker

// Sync updates the peer list, mempool and chain.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// If this peer has a chain with more work, we need to take it.
		if w.state.HasMoreWork(peerStatus) {
			w.evHandler("worker: sync: requestPeerChain: %s: latestBlockIndex[%d]: work[%s]", pr.Host, peerStatus.LatestBlockIndex, peerStatus.TotalWork)

			if err := w.state.NetRequestPeerChain(pr); err != nil {
				w.evHandler("worker: sync: requestPeerChain: %s: ERROR %s", pr.Host, err)
			}
		}

		// Retrieve the mempool from the peer after the chain is current.
		pool, err := w.state.NetRequestPeerMempool(pr)
		if err != nil {
			w.evHandler("worker: sync: requestPeerMempool: %s: ERROR: %s", pr.Host, err)
			continue
		}
		for _, tx := range pool {
			if err := w.state.UpsertMempool(tx); err != nil {
				w.evHandler("worker: sync: requestPeerMempool: %s: skip tx[%s]: %s", pr.Host, tx, err)
			}
		}
	}
}
