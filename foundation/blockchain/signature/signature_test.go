package signature_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/ravenlabs/blockchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	type payload struct {
		Nonce  uint64 `json:"nonce"`
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
	}

	t.Log("Given the need to validate content hashing.")
	{
		t.Logf("\tTest 0:\tWhen hashing the same value twice.")
		{
			v := payload{Nonce: 1, To: "alice", Amount: 100}

			h1 := signature.Hash(v)
			h2 := signature.Hash(v)

			if h1 != h2 {
				t.Fatalf("\t%s\tTest 0:\tShould get the same hash for the same value: %s != %s", failed, h1, h2)
			}
			t.Logf("\t%s\tTest 0:\tShould get the same hash for the same value.", success)

			if len(h1) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould get a 64 character hex hash: got %d", failed, len(h1))
			}
			t.Logf("\t%s\tTest 0:\tShould get a 64 character hex hash.", success)
		}

		t.Logf("\tTest 1:\tWhen changing a single field.")
		{
			h1 := signature.Hash(payload{Nonce: 1, To: "alice", Amount: 100})
			h2 := signature.Hash(payload{Nonce: 1, To: "alice", Amount: 101})

			if h1 == h2 {
				t.Fatalf("\t%s\tTest 1:\tShould get a different hash after a field change.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get a different hash after a field change.", success)
		}
	}
}

func Test_SignVerify(t *testing.T) {
	t.Log("Given the need to validate signing and verification.")
	{
		t.Logf("\tTest 0:\tWhen signing a content hash with a fresh keypair.")
		{
			pub, priv, err := ed25519.GenerateKey(nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a keypair: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a keypair.", success)

			hash := signature.Hash(struct{ V string }{"transfer"})
			sig := signature.Sign(priv, hash)

			if !signature.Verify(pub, hash, sig) {
				t.Fatalf("\t%s\tTest 0:\tShould be able to verify the signature.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to verify the signature.", success)

			otherHash := signature.Hash(struct{ V string }{"theft"})
			if signature.Verify(pub, otherHash, sig) {
				t.Fatalf("\t%s\tTest 0:\tShould not verify against a different hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not verify against a different hash.", success)

			otherPub, _, _ := ed25519.GenerateKey(nil)
			if signature.Verify(otherPub, hash, sig) {
				t.Fatalf("\t%s\tTest 0:\tShould not verify against a different key.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not verify against a different key.", success)
		}

		t.Logf("\tTest 1:\tWhen the key or signature is malformed.")
		{
			pub, priv, _ := ed25519.GenerateKey(nil)
			hash := signature.Hash(struct{ V int }{42})
			sig := signature.Sign(priv, hash)

			if signature.Verify(pub[:16], hash, sig) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a short public key.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a short public key.", success)

			if signature.Verify(pub, hash, sig[:10]) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a short signature.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a short signature.", success)
		}
	}
}
