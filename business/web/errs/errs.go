// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// =============================================================================

// consensus lists the rejections a node can give for a block or a chain.
var consensus = []error{
	database.ErrMalformedBlock,
	database.ErrDiscontinuousIndex,
	database.ErrBrokenLinkage,
	database.ErrHashIntegrity,
	database.ErrInvalidTimestamp,
	database.ErrTransactionApplication,
	database.ErrForeignGenesis,
	database.ErrInsufficientWork,
}

// transaction lists the rejections a node can give for a transaction.
var transaction = []error{
	ledger.ErrInvalidCoinbase,
	ledger.ErrInvalidTx,
	ledger.ErrUnknownInput,
	ledger.ErrDoubleSpend,
	ledger.ErrBadSignature,
	ledger.ErrAmountMismatch,
	ledger.ErrInsufficientFunds,
	mempool.ErrExists,
	mempool.ErrConflict,
}

// Rejected converts a rejection from the blockchain into a trusted error.
// Block and chain rejections are not acceptable, transaction rejections
// are bad requests. Anything else is left alone and becomes a 500.
func Rejected(err error) error {
	for _, target := range consensus {
		if errors.Is(err, target) {
			return NewTrusted(err, http.StatusNotAcceptable)
		}
	}

	for _, target := range transaction {
		if errors.Is(err, target) {
			return NewTrusted(err, http.StatusBadRequest)
		}
	}

	return err
}
