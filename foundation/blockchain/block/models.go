package block

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
)

// TxData is the wire form of a transaction. The payload sum type is
// flattened into a kind tag plus the union of payload fields.
type TxData struct {
	Nonce     uint64       `json:"nonce"`
	TimeStamp uint64       `json:"timestamp"`
	From      string       `json:"from,omitempty"`
	Kind      string       `json:"kind"`
	AccountID string       `json:"account_id,omitempty"`
	PublicKey string       `json:"public_key,omitempty"`
	To        string       `json:"to,omitempty"`
	Amount    *uint256.Int `json:"amount,omitempty"`
	Signature string       `json:"signature,omitempty"`
}

// NewTxData constructs the wire form of a transaction.
func NewTxData(tx ledger.Tx) TxData {
	txd := TxData{
		Nonce:     tx.Nonce,
		TimeStamp: tx.TimeStamp,
		From:      string(tx.FromID),
		Kind:      tx.Payload.Kind(),
		Signature: hex.EncodeToString(tx.Signature),
	}

	switch p := tx.Payload.(type) {
	case ledger.CreateAccount:
		txd.AccountID = string(p.AccountID)
		txd.PublicKey = hex.EncodeToString(p.PublicKey[:])
	case ledger.MintInitialSupply:
		txd.To = string(p.To)
		txd.Amount = p.Amount
	case ledger.Transfer:
		txd.To = string(p.To)
		txd.Amount = p.Amount
	}

	return txd
}

// ToTx converts the wire form back into a transaction.
func (txd TxData) ToTx() (ledger.Tx, error) {
	tx := ledger.Tx{
		Nonce:     txd.Nonce,
		TimeStamp: txd.TimeStamp,
		FromID:    ledger.AccountID(txd.From),
	}

	switch txd.Kind {
	case ledger.KindCreateAccount:
		raw, err := hex.DecodeString(txd.PublicKey)
		if err != nil {
			return ledger.Tx{}, fmt.Errorf("decoding public key: %w", err)
		}
		pk, err := ledger.ToPublicKey(raw)
		if err != nil {
			return ledger.Tx{}, err
		}
		tx.Payload = ledger.CreateAccount{AccountID: ledger.AccountID(txd.AccountID), PublicKey: pk}

	case ledger.KindMint:
		tx.Payload = ledger.MintInitialSupply{To: ledger.AccountID(txd.To), Amount: txd.Amount}

	case ledger.KindTransfer:
		tx.Payload = ledger.Transfer{To: ledger.AccountID(txd.To), Amount: txd.Amount}

	default:
		return ledger.Tx{}, fmt.Errorf("unknown transaction kind %q", txd.Kind)
	}

	if txd.Signature != "" {
		sig, err := hex.DecodeString(txd.Signature)
		if err != nil {
			return ledger.Tx{}, fmt.Errorf("decoding signature: %w", err)
		}
		tx.Signature = sig
	}

	return tx, nil
}

// =============================================================================

// BlockData is the wire form of a block. The hash carried is the claimed
// self-hash; ToBlock preserves it so Verify still detects tampering that
// happened on the wire.
type BlockData struct {
	Hash      string   `json:"hash"`
	PrevHash  string   `json:"prev_hash"`
	TimeStamp uint64   `json:"timestamp"`
	Nonce     uint64   `json:"nonce"`
	Trans     []TxData `json:"txs"`
}

// NewBlockData constructs the wire form of a block.
func NewBlockData(b *Block) BlockData {
	trans := make([]TxData, len(b.Transactions()))
	for i, tx := range b.Transactions() {
		trans[i] = NewTxData(tx)
	}

	return BlockData{
		Hash:      b.Hash(),
		PrevHash:  b.PrevHash(),
		TimeStamp: b.TimeStamp(),
		Nonce:     b.Nonce(),
		Trans:     trans,
	}
}

// ToBlock converts the wire form back into a block, keeping the claimed
// self-hash rather than recomputing it.
func ToBlock(bd BlockData) (*Block, error) {
	b := Block{
		nonce:     bd.Nonce,
		timeStamp: bd.TimeStamp,
		prevHash:  bd.PrevHash,
		hash:      bd.Hash,
	}

	for _, txd := range bd.Trans {
		tx, err := txd.ToTx()
		if err != nil {
			return nil, err
		}
		b.trans = append(b.trans, tx)
	}

	return &b, nil
}
