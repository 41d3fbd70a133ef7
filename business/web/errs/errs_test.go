package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

func Test_Rejected(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
	}

	tt := []table{
		{name: "block", err: fmt.Errorf("block[3]: %w", database.ErrBrokenLinkage), status: http.StatusNotAcceptable},
		{name: "chain", err: database.ErrInsufficientWork, status: http.StatusNotAcceptable},
		{name: "nested", err: fmt.Errorf("%w: %w", database.ErrTransactionApplication, ledger.ErrDoubleSpend), status: http.StatusNotAcceptable},
		{name: "tx", err: ledger.ErrInsufficientFunds, status: http.StatusBadRequest},
		{name: "unknown", err: errors.New("disk on fire"), status: 0},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := errs.Rejected(tst.err)

			if tst.status == 0 {
				if errs.IsTrusted(err) {
					t.Fatalf("Test %s:\tShould not trust an unknown error.", tst.name)
				}
				return
			}

			trusted := errs.GetTrusted(err)
			if trusted == nil || trusted.Status != tst.status {
				t.Logf("Test %s:\tgot: %v", tst.name, trusted)
				t.Logf("Test %s:\texp: %d", tst.name, tst.status)
				t.Fatalf("Test %s:\tShould get the right status.", tst.name)
			}

			if !errors.Is(err, tst.err) {
				t.Fatalf("Test %s:\tShould still match the original error.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}
