// Package genesis maintains access to the genesis information that every
// node on the network must share.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date               time.Time `json:"date" yaml:"date"`
	ChainID            uint16    `json:"chain_id" yaml:"chain_id"`                       // The chain id represents an unique id for this running instance.
	Founder            string    `json:"founder" yaml:"founder"`                         // Address receiving the genesis coinbase.
	Reward             uint64    `json:"reward" yaml:"reward"`                           // Reward for mining a block.
	BlockInterval      uint64    `json:"block_interval" yaml:"block_interval"`           // Expected seconds between blocks.
	AdjustmentInterval uint64    `json:"adjustment_interval" yaml:"adjustment_interval"` // Blocks between difficulty retargets.
}

// Default returns the genesis information for the main network.
func Default() Genesis {
	return Genesis{
		Date:               time.Unix(1570963704, 0).UTC(),
		ChainID:            1,
		Founder:            "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4",
		Reward:             50,
		BlockInterval:      10,
		AdjustmentInterval: 10,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON. Fields not provided by the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &genesis); err != nil {
			return Genesis{}, fmt.Errorf("decoding yaml: %w", err)
		}

	default:
		if err := json.Unmarshal(content, &genesis); err != nil {
			return Genesis{}, fmt.Errorf("decoding json: %w", err)
		}
	}

	if err := genesis.validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// validate checks the values required by the consensus rules.
func (g Genesis) validate() error {
	switch {
	case g.Date.Unix() < 0:
		return fmt.Errorf("date %s is before the unix epoch", g.Date)
	case g.Founder == "":
		return fmt.Errorf("founder address is required")
	case g.BlockInterval == 0:
		return fmt.Errorf("block interval must be greater than zero")
	case g.AdjustmentInterval == 0:
		return fmt.Errorf("adjustment interval must be greater than zero")
	}

	return nil
}
