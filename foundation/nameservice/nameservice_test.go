package nameservice_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
)

func Test_Lookup(t *testing.T) {
	root := t.TempDir()

	pk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}

	if err := crypto.SaveECDSA(filepath.Join(root, "kennedy.ecdsa"), pk); err != nil {
		t.Fatalf("Should be able to save the key: %s", err)
	}

	ns, err := nameservice.New(root)
	if err != nil {
		t.Fatalf("Should be able to load the name service: %s", err)
	}

	address := signature.PublicKeyToAddress(pk.PublicKey)

	if name := ns.Lookup(strings.ToLower(address)); name != "kennedy" {
		t.Logf("got: %s", name)
		t.Logf("exp: %s", "kennedy")
		t.Fatalf("Should find the name regardless of address case.")
	}

	const unknown = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
	if name := ns.Lookup(unknown); name != unknown {
		t.Fatalf("Should get back the address when there is no name: %s", name)
	}

	empty, err := nameservice.New(filepath.Join(root, "missing"))
	if err != nil || len(empty.Copy()) != 0 {
		t.Fatalf("Should get an empty name service for a missing folder: %v", err)
	}
}
