package state

import (
	"math/big"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveGenesisBlock returns the first block of the chain.
func (s *State) RetrieveGenesisBlock() database.Block {
	return s.db.GenesisBlock()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []database.Block {
	return s.db.CopyChain()
}

// RetrieveWork returns the accumulated work of the chain.
func (s *State) RetrieveWork() *big.Int {
	return s.db.Work()
}

// RetrieveDifficulty returns the difficulty of the next block.
func (s *State) RetrieveDifficulty() uint {
	return s.db.NextDifficulty()
}

// QueryBlocksByNumber returns the blocks between the from and to indexes.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	return s.db.QueryBlocksByNumber(from, to)
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []ledger.Tx {
	return s.mempool.Pending()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// RetrieveAccount returns the address of this node's wallet.
func (s *State) RetrieveAccount() string {
	return s.wallet.Address()
}

// RetrieveAccountBalance returns the balance of this node's wallet.
func (s *State) RetrieveAccountBalance() uint64 {
	return wallet.Balance(s.wallet.Address(), s.db.CopyUnspent())
}

// RetrieveBalance returns the balance for the specified address.
func (s *State) RetrieveBalance(address string) uint64 {
	return wallet.Balance(address, s.db.CopyUnspent())
}

// RetrieveUnspent returns the unspent outputs owned by the address.
func (s *State) RetrieveUnspent(address string) ledger.UnspentSet {
	return s.db.CopyUnspent().ForAddress(address)
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// AddKnownPeer provides the ability to add a new peer to
// the known peer list.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Match(s.host) {
		return false
	}
	return s.knownPeers.Add(pr)
}

// RemoveKnownPeer provides the ability to remove a peer from
// the known peer list.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)
}

// RetrieveStatus returns the status of this node for its peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	latest := s.db.LatestBlock()

	return peer.PeerStatus{
		LatestBlockHash:  latest.Hash,
		LatestBlockIndex: latest.Index,
		TotalWork:        s.db.Work().String(),
		KnownPeers:       append(s.RetrieveKnownPeers(), peer.New(s.host)),
	}
}
