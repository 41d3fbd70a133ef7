package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block represents a group of transactions batched together. A block is
// immutable once constructed and this is also its wire format.
type Block struct {
	Index      uint64      `json:"index"`                         // Position in the chain, genesis is 0.
	Hash       string      `json:"hash" validate:"required"`      // Hash over all the other fields.
	PrevHash   string      `json:"prevHash"`                      // Hash of the previous block, empty for genesis.
	Timestamp  uint64      `json:"timestamp" validate:"required"` // Unix seconds the block was mined.
	Data       []ledger.Tx `json:"data" validate:"required"`      // Transactions, coinbase first.
	Difficulty uint        `json:"difficulty"`                    // Number of leading zero bits required in the hash.
	Nonce      uint64      `json:"nonce"`                         // Value identified to solve the hash solution.
}

// GenesisBlock constructs the first block of the chain from the genesis
// information. It is never mined and is identical on every node.
func GenesisBlock(gen genesis.Genesis) Block {
	lgr := ledger.New(gen.Reward)

	b := Block{
		Index:      0,
		PrevHash:   "",
		Timestamp:  uint64(gen.Date.Unix()),
		Data:       []ledger.Tx{lgr.Coinbase(gen.Founder, 0)},
		Difficulty: 0,
		Nonce:      0,
	}

	// The coinbase always serializes. An empty hash would fail every
	// structural check anyway.
	if hash, err := b.ComputeHash(); err == nil {
		b.Hash = hash
	}

	return b
}

// ComputeHash recalculates the hash from the fields of the block.
func (b Block) ComputeHash() (string, error) {
	return Hash(b.Index, b.PrevHash, b.Timestamp, b.Data, b.Difficulty, b.Nonce)
}

// Copy returns a block that shares no memory with the original.
func (b Block) Copy() Block {
	cpy := b
	if b.Data != nil {
		cpy.Data = make([]ledger.Tx, len(b.Data))
		for i, tx := range b.Data {
			cpy.Data[i] = tx.Copy()
		}
	}
	return cpy
}

// Equal reports if both blocks serialize to the same bytes.
func (b Block) Equal(other Block) bool {
	data1, err1 := json.Marshal(b)
	data2, err2 := json.Marshal(other)
	if err1 != nil || err2 != nil {
		return false
	}

	return bytes.Equal(data1, data2)
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%d:%s", b.Index, b.Hash)
}

// =============================================================================

// Hash returns the fingerprint for a block with the specified fields.
func Hash(index uint64, prevHash string, timestamp uint64, data []ledger.Tx, difficulty uint, nonce uint64) (string, error) {
	prefix, err := hashPrefix(index, prevHash, timestamp, data, difficulty)
	if err != nil {
		return "", fmt.Errorf("serializing block data: %w", err)
	}

	return hashWithNonce(prefix, nonce), nil
}

// hashPrefix builds the part of the hashed content that does not change
// while searching for a nonce.
func hashPrefix(index uint64, prevHash string, timestamp uint64, data []ledger.Tx, difficulty uint) ([]byte, error) {
	txs, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(strconv.FormatUint(index, 10))
	buf.WriteByte(':')
	buf.WriteString(prevHash)
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatUint(timestamp, 10))
	buf.WriteByte(':')
	buf.Write(txs)
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatUint(uint64(difficulty), 10))
	buf.WriteByte(':')

	return buf.Bytes(), nil
}

// hashWithNonce completes the hashed content with the nonce.
func hashWithNonce(prefix []byte, nonce uint64) string {
	content := strconv.AppendUint(prefix[:len(prefix):len(prefix)], nonce, 10)
	return signature.HashBytes(content)
}

// isHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading zero bits.
func isHashSolved(difficulty uint, hash string) bool {
	if !signature.IsHash(hash) {
		return false
	}

	data, err := hexutil.Decode(hash)
	if err != nil {
		return false
	}

	var zeros uint
	for _, b := range data {
		if b != 0 {
			zeros += uint(bits.LeadingZeros8(b))
			break
		}
		zeros += 8
	}

	return zeros >= difficulty
}

// =============================================================================

// MineArgs represents the set of arguments required to mine a block.
type MineArgs struct {
	Index      uint64
	PrevHash   string
	Timestamp  uint64
	Data       []ledger.Tx
	Difficulty uint
	EvHandler  func(v string, args ...any)
}

// MineBlock constructs a new Block and performs the work to find a nonce
// that solves the POW puzzle. The search has no upper bound and only stops
// when solved or when the context is cancelled.
func MineBlock(ctx context.Context, args MineArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("database: MineBlock: MINING: started: blk[%d]: difficulty[%d]", args.Index, args.Difficulty)
	defer ev("database: MineBlock: MINING: completed: blk[%d]", args.Index)

	prefix, err := hashPrefix(args.Index, args.PrevHash, args.Timestamp, args.Data, args.Difficulty)
	if err != nil {
		return Block{}, fmt.Errorf("serializing block data: %w", err)
	}

	// Loop until we or another node finds a solution for the next block.
	var nonce uint64
	for {
		if nonce > 0 && nonce%1_000_000 == 0 {
			ev("database: MineBlock: MINING: attempts[%d]", nonce)
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: MineBlock: MINING: CANCELLED: blk[%d]", args.Index)
			return Block{}, ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash := hashWithNonce(prefix, nonce)
		if !isHashSolved(args.Difficulty, hash) {
			nonce++
			continue
		}

		ev("database: MineBlock: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", args.PrevHash, hash, nonce+1)

		b := Block{
			Index:      args.Index,
			Hash:       hash,
			PrevHash:   args.PrevHash,
			Timestamp:  args.Timestamp,
			Data:       args.Data,
			Difficulty: args.Difficulty,
			Nonce:      nonce,
		}

		return b, nil
	}
}
