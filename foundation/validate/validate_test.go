package validate_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/validate"
)

func Test_Check(t *testing.T) {
	type table struct {
		name   string
		val    any
		fields []string
	}

	tt := []table{
		{
			name: "valid",
			val: ledger.Tx{
				ID:     "0x01",
				TxIns:  []ledger.TxIn{{TxOutID: "0x02"}},
				TxOuts: []ledger.TxOut{{Address: "0x03", Amount: 1}},
			},
		},
		{
			name:   "missing",
			val:    ledger.Tx{},
			fields: []string{"id", "txIns", "txOuts"},
		},
		{
			name: "dive",
			val: ledger.Tx{
				ID:     "0x01",
				TxIns:  []ledger.TxIn{{TxOutID: "0x02"}},
				TxOuts: []ledger.TxOut{{Address: "0x03"}},
			},
			fields: []string{"amount"},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := validate.Check(tst.val)

			if len(tst.fields) == 0 {
				if err != nil {
					t.Fatalf("Test %s:\tShould pass validation: %s", tst.name, err)
				}
				return
			}

			if !validate.IsFieldErrors(err) {
				t.Fatalf("Test %s:\tShould get field errors: %v", tst.name, err)
			}

			fields := validate.GetFieldErrors(err).Fields()
			for _, name := range tst.fields {
				if _, exists := fields[name]; !exists {
					t.Logf("Test %s:\tgot: %v", tst.name, fields)
					t.Logf("Test %s:\texp: %s", tst.name, name)
					t.Fatalf("Test %s:\tShould get an error for the field.", tst.name)
				}
			}
		}

		t.Run(tst.name, f)
	}
}
