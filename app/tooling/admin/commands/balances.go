package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Balances rebuilds the balances from the node's chain. When an address is
// provided only that balance is printed.
func Balances(w io.Writer, node Node, address string) error {
	rpt, err := Load(node)
	if err != nil {
		return err
	}

	latest := rpt.Chain[len(rpt.Chain)-1]
	fmt.Fprintf(w, "LatestBlockHash: %s\n\n", latest.Hash)

	bals := make(map[string]uint64)
	for _, utxo := range rpt.Unspent {
		if address != "" && !strings.EqualFold(utxo.Address, address) {
			continue
		}
		bals[utxo.Address] += utxo.Amount
	}

	addrs := make([]string, 0, len(bals))
	for addr := range bals {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		fmt.Fprintf(w, "Address: %s  Balance: %d\n", addr, bals[addr])
	}

	return nil
}
