// Package wallet manages the private key a node mines and spends with.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet holds the key pair that identifies a node on the network.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    string
}

// New constructs a wallet from an existing private key.
func New(privateKey *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		privateKey: privateKey,
		address:    signature.PublicKeyToAddress(privateKey.PublicKey),
	}
}

// Load reads the private key stored at the specified path. If no key exists
// yet, a new one is generated and saved there.
func Load(path string) (*Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	switch {
	case err == nil:
		return New(privateKey), nil

	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("loading key %q: %w", path, err)
	}

	privateKey, err = crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating key directory: %w", err)
	}

	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return nil, fmt.Errorf("saving key %q: %w", path, err)
	}

	return New(privateKey), nil
}

// Address returns the public identity of the wallet.
func (w *Wallet) Address() string {
	return w.address
}

// PrivateKey returns the key used to sign transactions.
func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.privateKey
}

// Balance returns the amount the specified address owns in the set.
func Balance(address string, set ledger.UnspentSet) uint64 {
	return set.Balance(address)
}
