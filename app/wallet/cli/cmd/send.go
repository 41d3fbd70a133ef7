package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type unspent struct {
	Address string                `json:"address"`
	Outputs []ledger.UnspentTxOut `json:"outputs"`
}

var (
	to     string
	amount uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		tx, err := sendWithDetails(privateKey)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(tx.ID)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

// sendWithDetails builds the transaction from the outputs the node reports
// for the wallet, skipping those already spent by the node's mempool.
func sendWithDetails(privateKey *ecdsa.PrivateKey) (ledger.Tx, error) {
	from := signature.PublicKeyToAddress(privateKey.PublicKey)

	var us unspent
	if err := get("/v1/unspent/"+from, &us); err != nil {
		return ledger.Tx{}, err
	}

	var pending []ledger.Tx
	if err := get("/v1/tx/uncommitted/list", &pending); err != nil {
		return ledger.Tx{}, err
	}

	tx, err := ledger.Build(to, amount, privateKey, us.Outputs, pending)
	if err != nil {
		return ledger.Tx{}, err
	}

	data, err := json.Marshal(tx)
	if err != nil {
		return ledger.Tx{}, err
	}

	resp, err := client.Post(url+"/v1/tx/submit", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return ledger.Tx{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ledger.Tx{}, fmt.Errorf("submit: status %d", resp.StatusCode)
	}

	return tx, nil
}
