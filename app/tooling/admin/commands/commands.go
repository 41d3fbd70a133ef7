// Package commands contains the functionality for the admin tool.
package commands

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// Node provides the addresses of the node's public and private api.
type Node struct {
	PublicURL  string
	PrivateURL string
}

// Report is the result of independently validating a node's chain.
type Report struct {
	Genesis        genesis.Genesis
	Chain          []database.Block
	Unspent        ledger.UnspentSet
	Work           *big.Int
	NextDifficulty uint
}

var client = http.Client{
	Timeout: 30 * time.Second,
}

// Load retrieves the genesis and chain from the node and replays the chain
// from the genesis block, applying every transaction.
func Load(node Node) (Report, error) {
	var info struct {
		Genesis genesis.Genesis `json:"genesis"`
		Block   database.Block  `json:"block"`
	}
	if err := get(node.PublicURL+"/v1/genesis", &info); err != nil {
		return Report{}, fmt.Errorf("genesis: %w", err)
	}

	var chain []database.Block
	if err := get(node.PrivateURL+"/v1/node/chain", &chain); err != nil {
		return Report{}, fmt.Errorf("chain: %w", err)
	}

	genesisBlock := database.GenesisBlock(info.Genesis)
	if !genesisBlock.Equal(info.Block) {
		return Report{}, fmt.Errorf("node reports genesis block %s, genesis file produces %s", info.Block.Hash, genesisBlock.Hash)
	}

	set, err := database.ValidateChain(chain, genesisBlock, ledger.New(info.Genesis.Reward), time.Now())
	if err != nil {
		return Report{}, err
	}

	rpt := Report{
		Genesis:        info.Genesis,
		Chain:          chain,
		Unspent:        set,
		Work:           database.Work(chain),
		NextDifficulty: database.NextDifficulty(chain, info.Genesis),
	}

	return rpt, nil
}

func get(url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
