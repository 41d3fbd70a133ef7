package database

import "errors"

// Set of error variables for the consensus rules. Every rejection returned
// by this package wraps one of these so callers can use errors.Is.
var (
	ErrMalformedBlock         = errors.New("malformed block")
	ErrDiscontinuousIndex     = errors.New("block index is not the next index")
	ErrBrokenLinkage          = errors.New("previous hash does not match parent block")
	ErrHashIntegrity          = errors.New("block hash is invalid")
	ErrInvalidTimestamp       = errors.New("block timestamp is invalid")
	ErrTransactionApplication = errors.New("block transactions could not be applied")
	ErrForeignGenesis         = errors.New("chain does not start with our genesis block")
	ErrInsufficientWork       = errors.New("chain does not have more accumulated work")
)
