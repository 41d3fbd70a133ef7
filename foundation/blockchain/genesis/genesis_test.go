package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestLoad(t *testing.T) {
	type table struct {
		name     string
		file     string
		content  string
		interval uint64
		reward   uint64
		fails    bool
	}

	tt := []table{
		{
			name:     "json",
			file:     "genesis.json",
			content:  `{"chain_id": 2, "reward": 25, "adjustment_interval": 5}`,
			interval: 5,
			reward:   25,
		},
		{
			name:     "yaml",
			file:     "genesis.yaml",
			content:  "chain_id: 3\nreward: 10\nadjustment_interval: 20\n",
			interval: 20,
			reward:   10,
		},
		{
			name:    "bad-interval",
			file:    "genesis.yml",
			content: "block_interval: 0\n",
			fails:   true,
		},
		{
			name:    "pre-epoch-date",
			file:    "genesis.json",
			content: `{"date": "1960-01-01T00:00:00Z"}`,
			fails:   true,
		},
	}

	t.Log("Given the need to load genesis files.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				path := filepath.Join(t.TempDir(), tst.file)
				if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %s", failed, testID, err)
				}

				gen, err := genesis.Load(path)
				if tst.fails {
					if err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject the file.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the file.", success, testID)
					return
				}
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %s", failed, testID, err)
				}

				if gen.AdjustmentInterval != tst.interval || gen.Reward != tst.reward {
					t.Logf("\t%s\tTest %d:\tgot: %d %d", failed, testID, gen.AdjustmentInterval, gen.Reward)
					t.Logf("\t%s\tTest %d:\texp: %d %d", failed, testID, tst.interval, tst.reward)
					t.Fatalf("\t%s\tTest %d:\tShould get back the file values.", failed, testID)
				}

				if gen.Founder != genesis.Default().Founder {
					t.Fatalf("\t%s\tTest %d:\tShould keep defaults for missing fields.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the file values.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}
