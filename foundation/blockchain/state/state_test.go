package state_test

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/ravenlabs/blockchain/foundation/blockchain/block"
	"github.com/ravenlabs/blockchain/foundation/blockchain/genesis"
	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
	"github.com/ravenlabs/blockchain/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func newState(t *testing.T) *state.State {
	t.Helper()

	return newStateTarget(t, "20ffffff")
}

func newStateTarget(t *testing.T, startingTarget string) *state.State {
	t.Helper()

	s, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			Name:           "test chain",
			ExpectedSpan:   1_209_600,
			StartingTarget: startingTarget,
			TransPerBlock:  16,
		},
	})
	if err != nil {
		t.Fatalf("constructing state: %v", err)
	}

	return s
}

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

// mineAndAppend builds a block from the pending transactions, mines it
// against the current target and submits it.
func mineAndAppend(t *testing.T, s *state.State, txs ...ledger.Tx) *block.Block {
	t.Helper()

	b := block.New(s.LastBlockHash())
	for _, tx := range txs {
		b.AddTransaction(tx)
	}
	if err := b.Mine(context.Background(), s.CurrentTarget()); err != nil {
		t.Fatalf("mining block: %v", err)
	}
	if err := s.AppendBlock(b); err != nil {
		t.Fatalf("appending block: %v", err)
	}

	return b
}

func signedTransfer(from ledger.AccountID, to ledger.AccountID, amount uint64, key ed25519.PrivateKey) ledger.Tx {
	tx := ledger.NewTx(ledger.Transfer{To: to, Amount: uint256.NewInt(amount)}, from)
	tx.Sign(key)
	return tx
}

func balance(t *testing.T, s *state.State, id ledger.AccountID) uint64 {
	t.Helper()

	account, exists := s.QueryAccount(id)
	if !exists {
		t.Fatalf("account %s not found", id)
	}

	return account.Balance.Uint64()
}

// =============================================================================

// Test_TransferScenario runs the canonical three block flow: mint the
// initial supply to satoshi, create alice and bob, then settle a round of
// signed transfers.
func Test_TransferScenario(t *testing.T) {
	t.Log("Given the need to process blocks of signed transfers.")
	{
		s := newState(t)

		satoshiPK, satoshiKey := newKey(t)
		alicePK, _ := newKey(t)
		bobPK, bobKey := newKey(t)

		t.Logf("\tTest 0:\tWhen minting the initial supply in the genesis block.")
		{
			mineAndAppend(t, s,
				ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""),
				ledger.NewTx(ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(100_000_000)}, ""),
			)

			if got := balance(t, s, "satoshi"); got != 100_000_000 {
				t.Fatalf("\t%s\tTest 0:\tShould see the full supply on satoshi: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould see the full supply on satoshi.", success)
		}

		t.Logf("\tTest 1:\tWhen creating alice and bob in block 2.")
		{
			mineAndAppend(t, s,
				ledger.NewTx(ledger.CreateAccount{AccountID: "alice", PublicKey: alicePK}, ""),
				ledger.NewTx(ledger.CreateAccount{AccountID: "bob", PublicKey: bobPK}, ""),
			)

			if s.ChainLength() != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould have 2 blocks on the chain: got %d", failed, s.ChainLength())
			}
			t.Logf("\t%s\tTest 1:\tShould have 2 blocks on the chain.", success)
		}

		t.Logf("\tTest 2:\tWhen settling signed transfers in block 3.")
		{
			mineAndAppend(t, s,
				signedTransfer("satoshi", "alice", 10_000_000, satoshiKey),
				signedTransfer("satoshi", "bob", 50_000_000, satoshiKey),
				signedTransfer("bob", "satoshi", 30_000_000, bobKey),
			)

			if got := balance(t, s, "alice"); got != 10_000_000 {
				t.Fatalf("\t%s\tTest 2:\tShould see 10000000 on alice: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould see 10000000 on alice.", success)

			if got := balance(t, s, "bob"); got != 20_000_000 {
				t.Fatalf("\t%s\tTest 2:\tShould see 20000000 on bob: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould see 20000000 on bob.", success)

			if got := balance(t, s, "satoshi"); got != 70_000_000 {
				t.Fatalf("\t%s\tTest 2:\tShould see 70000000 on satoshi: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould see 70000000 on satoshi.", success)
		}

		t.Logf("\tTest 3:\tWhen validating the resulting chain.")
		{
			if err := s.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould validate a chain built through AppendBlock: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould validate a chain built through AppendBlock.", success)
		}
	}
}

func Test_AppendBlockRollback(t *testing.T) {
	t.Log("Given the need for all-or-nothing block execution.")
	{
		s := newState(t)

		satoshiPK, _ := newKey(t)
		alicePK, _ := newKey(t)
		bobPK, _ := newKey(t)

		mineAndAppend(t, s,
			ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""),
			ledger.NewTx(ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(100_000_000)}, ""),
		)

		t.Logf("\tTest 0:\tWhen a block contains a failing transaction.")
		{
			b := block.New(s.LastBlockHash())
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "alice", PublicKey: alicePK}, ""))
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "bob", PublicKey: bobPK}, ""))
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "bob", PublicKey: bobPK}, ""))
			if err := b.Mine(context.Background(), s.CurrentTarget()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block: %v", failed, err)
			}

			err := s.AppendBlock(b)
			if !errors.Is(err, ledger.ErrAccountExists) {
				t.Fatalf("\t%s\tTest 0:\tShould get the wrapped transaction error: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get the wrapped transaction error.", success)

			if _, exists := s.QueryAccount("alice"); exists {
				t.Fatalf("\t%s\tTest 0:\tShould not see alice after the rollback.", failed)
			}
			if _, exists := s.QueryAccount("bob"); exists {
				t.Fatalf("\t%s\tTest 0:\tShould not see bob after the rollback.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not see any partial effects after the rollback.", success)

			if s.ChainLength() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould still have 1 block on the chain: got %d", failed, s.ChainLength())
			}
			t.Logf("\t%s\tTest 0:\tShould still have 1 block on the chain.", success)
		}
	}
}

func Test_AppendBlockStructural(t *testing.T) {
	t.Log("Given the need to reject structurally invalid blocks.")
	{
		s := newState(t)
		satoshiPK, _ := newKey(t)

		t.Logf("\tTest 0:\tWhen submitting a block with no transactions.")
		{
			b := block.New("")
			if err := s.AppendBlock(b); !errors.Is(err, state.ErrEmptyBlock) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrEmptyBlock: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrEmptyBlock.", success)
		}

		t.Logf("\tTest 1:\tWhen submitting a tampered block.")
		{
			b := block.New("")
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""))
			b.Transactions()[0].Payload = ledger.CreateAccount{AccountID: "mallory", PublicKey: satoshiPK}

			if err := s.AppendBlock(b); !errors.Is(err, state.ErrInvalidHash) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrInvalidHash: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrInvalidHash.", success)
		}

		t.Logf("\tTest 2:\tWhen minting outside the genesis block.")
		{
			mineAndAppend(t, s,
				ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""),
				ledger.NewTx(ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(100)}, ""),
			)

			b := block.New(s.LastBlockHash())
			b.AddTransaction(ledger.NewTx(ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(100)}, ""))
			if err := b.Mine(context.Background(), s.CurrentTarget()); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine the block: %v", failed, err)
			}

			if err := s.AppendBlock(b); !errors.Is(err, ledger.ErrNotGenesisMint) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrNotGenesisMint: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrNotGenesisMint.", success)

			if got := balance(t, s, "satoshi"); got != 100 {
				t.Fatalf("\t%s\tTest 2:\tShould keep the genesis balance only: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould keep the genesis balance only.", success)
		}
	}
}

func Test_ValidateDetectsTampering(t *testing.T) {
	t.Log("Given the need to audit a chain for in-place mutations.")
	{
		s := newState(t)

		satoshiPK, satoshiKey := newKey(t)
		alicePK, _ := newKey(t)

		mineAndAppend(t, s,
			ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""),
			ledger.NewTx(ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(100_000_000)}, ""),
		)
		mineAndAppend(t, s,
			ledger.NewTx(ledger.CreateAccount{AccountID: "alice", PublicKey: alicePK}, ""),
		)
		mineAndAppend(t, s,
			signedTransfer("satoshi", "alice", 10_000_000, satoshiKey),
		)

		if err := s.Validate(); err != nil {
			t.Fatalf("\t%s\tTest 0:\tShould validate before tampering: %v", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould validate before tampering.", success)

		blocks := s.QueryBlocks()
		blocks[1].Transactions()[0].Payload = ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(100)}

		err := s.Validate()
		if !errors.Is(err, state.ErrInvalidHash) {
			t.Fatalf("\t%s\tTest 0:\tShould report the tampered block: got %v", failed, err)
		}
		t.Logf("\t%s\tTest 0:\tShould report the tampered block.", success)
	}
}

func Test_HashAboveTarget(t *testing.T) {
	t.Log("Given the need to reject blocks that fail the proof of work gate.")
	{
		// A nonzero hash never reduces below this target, so only the
		// gate-exempt genesis block can be accepted.
		s := newStateTarget(t, "01000001")

		satoshiPK, _ := newKey(t)
		alicePK, _ := newKey(t)

		t.Logf("\tTest 0:\tWhen appending the genesis block without mining.")
		{
			b := block.New("")
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""))
			b.AddTransaction(ledger.NewTx(ledger.MintInitialSupply{To: "satoshi", Amount: uint256.NewInt(100_000_000)}, ""))

			if err := s.AppendBlock(b); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the genesis block without the gate: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the genesis block without the gate.", success)
		}

		t.Logf("\tTest 1:\tWhen appending a later block that misses the target.")
		{
			b := block.New(s.LastBlockHash())
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "alice", PublicKey: alicePK}, ""))

			err := s.AppendBlock(b)
			if !errors.Is(err, state.ErrHashAboveTarget) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrHashAboveTarget: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrHashAboveTarget.", success)

			if _, exists := s.QueryAccount("alice"); exists {
				t.Fatalf("\t%s\tTest 1:\tShould not see alice after the rollback.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not see alice after the rollback.", success)

			if got := balance(t, s, "satoshi"); got != 100_000_000 {
				t.Fatalf("\t%s\tTest 1:\tShould keep satoshi's balance untouched: got %d", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould keep satoshi's balance untouched.", success)

			if s.ChainLength() != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould still have 1 block on the chain: got %d", failed, s.ChainLength())
			}
			t.Logf("\t%s\tTest 1:\tShould still have 1 block on the chain.", success)
		}
	}
}

func Test_ValidateLinkage(t *testing.T) {
	t.Log("Given the need to audit the prev hash linkage of a chain.")
	{
		t.Logf("\tTest 0:\tWhen the genesis block carries a prev hash.")
		{
			s := newState(t)
			satoshiPK, _ := newKey(t)

			b := block.New("deadbeef")
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""))
			if err := s.AppendBlock(b); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append the block: %v", failed, err)
			}

			if err := s.Validate(); !errors.Is(err, state.ErrUnexpectedPrevHash) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrUnexpectedPrevHash: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrUnexpectedPrevHash.", success)
		}

		t.Logf("\tTest 1:\tWhen a later block carries no prev hash.")
		{
			s := newState(t)
			satoshiPK, _ := newKey(t)
			alicePK, _ := newKey(t)

			mineAndAppend(t, s,
				ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""),
			)

			b := block.New("")
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "alice", PublicKey: alicePK}, ""))
			if err := b.Mine(context.Background(), s.CurrentTarget()); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the block: %v", failed, err)
			}
			if err := s.AppendBlock(b); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to append the block: %v", failed, err)
			}

			if err := s.Validate(); !errors.Is(err, state.ErrMissingPrevHash) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrMissingPrevHash: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrMissingPrevHash.", success)
		}

		t.Logf("\tTest 2:\tWhen a later block points at the wrong block.")
		{
			s := newState(t)
			satoshiPK, _ := newKey(t)
			alicePK, _ := newKey(t)

			mineAndAppend(t, s,
				ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""),
			)

			b := block.New("deadbeef")
			b.AddTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "alice", PublicKey: alicePK}, ""))
			if err := b.Mine(context.Background(), s.CurrentTarget()); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine the block: %v", failed, err)
			}
			if err := s.AppendBlock(b); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to append the block: %v", failed, err)
			}

			if err := s.Validate(); !errors.Is(err, state.ErrHashMismatch) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrHashMismatch: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrHashMismatch.", success)
		}
	}
}

func Test_LastBlockHash(t *testing.T) {
	t.Log("Given the need to track the chain head.")
	{
		s := newState(t)

		if hash := s.LastBlockHash(); hash != "" {
			t.Fatalf("\t%s\tTest 0:\tShould have an empty head hash on an empty chain: got %q", failed, hash)
		}
		t.Logf("\t%s\tTest 0:\tShould have an empty head hash on an empty chain.", success)

		satoshiPK, _ := newKey(t)
		b := mineAndAppend(t, s,
			ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, ""),
		)

		if s.LastBlockHash() != b.Hash() {
			t.Fatalf("\t%s\tTest 0:\tShould have the appended block's hash as the head.", failed)
		}
		t.Logf("\t%s\tTest 0:\tShould have the appended block's hash as the head.", success)
	}
}

func Test_MineNewBlock(t *testing.T) {
	t.Log("Given the need to mine pending transactions into a block.")
	{
		s := newState(t)

		t.Logf("\tTest 0:\tWhen the mempool is empty.")
		{
			if _, err := s.MineNewBlock(context.Background()); !errors.Is(err, state.ErrNoTransactions) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrNoTransactions: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrNoTransactions.", success)
		}

		t.Logf("\tTest 1:\tWhen transactions are pending.")
		{
			satoshiPK, _ := newKey(t)
			if err := s.SubmitTransaction(ledger.NewTx(ledger.CreateAccount{AccountID: "satoshi", PublicKey: satoshiPK}, "")); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to submit a transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to submit a transaction.", success)

			b, err := s.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine a block.", success)

			if s.LastBlockHash() != b.Hash() {
				t.Fatalf("\t%s\tTest 1:\tShould find the mined block at the head.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould find the mined block at the head.", success)

			if s.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould have drained the mempool: got %d", failed, s.QueryMempoolLength())
			}
			t.Logf("\t%s\tTest 1:\tShould have drained the mempool.", success)
		}
	}
}
