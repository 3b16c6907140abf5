package ledger_test

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

// newKey generates a keypair for tests and returns the account form of the
// public key alongside the signing key.
func newKey(t *testing.T) (ledger.PublicKey, ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generating keypair: %v", err)
	}

	pk, err := ledger.ToPublicKey(pub)
	if err != nil {
		t.Fatalf("converting public key: %v", err)
	}

	return pk, priv
}

// =============================================================================

func Test_CreateAccount(t *testing.T) {
	t.Log("Given the need to manage account creation on the ledger.")
	{
		l := ledger.New()
		pk, _ := newKey(t)

		t.Logf("\tTest 0:\tWhen creating a fresh account.")
		{
			if err := l.CreateAccount("satoshi", ledger.AccountUser, pk); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the account: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to create the account.", success)

			account, exists := l.Query("satoshi")
			if !exists {
				t.Fatalf("\t%s\tTest 0:\tShould find the account afterwards.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the account afterwards.", success)

			if !account.Balance.IsZero() {
				t.Fatalf("\t%s\tTest 0:\tShould start with a zero balance: got %s", failed, account.Balance.Dec())
			}
			t.Logf("\t%s\tTest 0:\tShould start with a zero balance.", success)

			if account.Kind != ledger.AccountUser {
				t.Fatalf("\t%s\tTest 0:\tShould be a user account: got %q", failed, account.Kind)
			}
			t.Logf("\t%s\tTest 0:\tShould be a user account.", success)
		}

		t.Logf("\tTest 1:\tWhen creating the same id twice.")
		{
			if err := l.CreateAccount("satoshi", ledger.AccountUser, pk); !errors.Is(err, ledger.ErrAccountExists) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrAccountExists: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrAccountExists.", success)
		}

		t.Logf("\tTest 2:\tWhen querying an id that was never created.")
		{
			if _, exists := l.Query("nobody"); exists {
				t.Fatalf("\t%s\tTest 2:\tShould not find the account.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not find the account.", success)
		}
	}
}

func Test_SnapshotRestore(t *testing.T) {
	t.Log("Given the need to roll the ledger back to a snapshot.")
	{
		l := ledger.New()
		pk, _ := newKey(t)

		if err := l.CreateAccount("satoshi", ledger.AccountUser, pk); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to create the account: %v", failed, err)
		}

		backup := l.CopyAccounts()

		if err := l.CreateAccount("alice", ledger.AccountUser, pk); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to create a second account: %v", failed, err)
		}

		mint := ledger.NewTx(ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(1000)}, "")
		if err := mint.Execute(l, true); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould be able to mint in genesis: %v", failed, err)
		}

		l.Restore(backup)

		if _, exists := l.Query("alice"); exists {
			t.Fatalf("\t%s\tTest 0:\tShould not find the account created after the snapshot.", failed)
		}
		t.Logf("\t%s\tTest 0:\tShould not find the account created after the snapshot.", success)

		account, _ := l.Query("satoshi")
		if !account.Balance.IsZero() {
			t.Fatalf("\t%s\tTest 0:\tShould see the pre-snapshot balance: got %s", failed, account.Balance.Dec())
		}
		t.Logf("\t%s\tTest 0:\tShould see the pre-snapshot balance.", success)
	}
}
