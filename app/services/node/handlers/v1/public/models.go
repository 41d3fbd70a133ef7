package public

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

type genesisInfo struct {
	Genesis genesis.Genesis `json:"genesis"`
	Block   database.Block  `json:"block"`
}

type address struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

type unspent struct {
	Address string                `json:"address"`
	Outputs []ledger.UnspentTxOut `json:"outputs"`
}

type sendTx struct {
	To     string `json:"to" validate:"required"`
	Amount uint64 `json:"amount" validate:"required"`
}

type status struct {
	Status string `json:"status"`
}
