package commands

import (
	"fmt"
	"io"
)

// Audit validates the node's chain and prints a summary of every block.
func Audit(w io.Writer, node Node) error {
	rpt, err := Load(node)
	if err != nil {
		return err
	}

	for _, block := range rpt.Chain {
		fmt.Fprintf(w, "Block: %d  Hash: %s  Difficulty: %d  Nonce: %d  Txs: %d\n",
			block.Index, block.Hash, block.Difficulty, block.Nonce, len(block.Data))
	}

	fmt.Fprintf(w, "\nChain: valid\n")
	fmt.Fprintf(w, "Blocks: %d\n", len(rpt.Chain))
	fmt.Fprintf(w, "Work: %s\n", rpt.Work)
	fmt.Fprintf(w, "Next Difficulty: %d\n", rpt.NextDifficulty)

	return nil
}
