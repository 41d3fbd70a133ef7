// Package peer maintains the peer related information such as the set
// of know peers and their status.
package peer

import (
	"sort"
	"strings"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host" validate:"required"`
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: normalize(host),
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == normalize(host)
}

// normalize strips the scheme and trailing slash so the same node is not
// known twice under different spellings.
func normalize(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	LatestBlockHash  string `json:"latestBlockHash"`
	LatestBlockIndex uint64 `json:"latestBlockIndex"`
	TotalWork        string `json:"totalWork"`
	KnownPeers       []Peer `json:"knownPeers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	peer = New(peer.Host)
	if peer.Host == "" {
		return false
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, New(peer.Host))
}

// Merge adds every peer that is not the specified host and returns the
// number of peers that were new.
func (ps *PeerSet) Merge(host string, peers []Peer) int {
	var added int
	for _, peer := range peers {
		if peer.Match(host) {
			continue
		}
		if ps.Add(peer) {
			added++
		}
	}

	return added
}

// Copy returns a list of the known peers sorted by host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool { return peers[i].Host < peers[j].Host })

	return peers
}
