package public

import (
	"encoding/hex"

	"github.com/holiman/uint256"

	"github.com/ravenlabs/blockchain/business/sys/validate"
	"github.com/ravenlabs/blockchain/foundation/blockchain/block"
	"github.com/ravenlabs/blockchain/foundation/blockchain/ledger"
)

// info represents an account and its current state in the ledger.
type info struct {
	Account   string       `json:"account"`
	Kind      string       `json:"kind"`
	Balance   *uint256.Int `json:"balance"`
	PublicKey string       `json:"public_key"`
}

func newInfo(id ledger.AccountID, account ledger.Account) info {
	balance := account.Balance
	return info{
		Account:   string(id),
		Kind:      string(account.Kind),
		Balance:   &balance,
		PublicKey: hex.EncodeToString(account.PublicKey[:]),
	}
}

// actInfo is the response to an accounts query.
type actInfo struct {
	LatestBlock string `json:"latest_block"`
	Uncommitted int    `json:"uncommitted"`
	Accounts    []info `json:"accounts"`
}

// chainInfo is the response to a target query.
type chainInfo struct {
	Length     int     `json:"length"`
	Target     string  `json:"target"`
	Difficulty float64 `json:"difficulty"`
}

// =============================================================================

// submitTx is the wire request for adding a transaction to the mempool.
type submitTx struct {
	Nonce     uint64       `json:"nonce"`
	TimeStamp uint64       `json:"timestamp"`
	From      string       `json:"from"`
	Kind      string       `json:"kind" validate:"required,oneof=create_account mint transfer"`
	AccountID string       `json:"account_id"`
	PublicKey string       `json:"public_key"`
	To        string       `json:"to"`
	Amount    *uint256.Int `json:"amount"`
	Signature string       `json:"signature"`
}

// Validate checks the data in the model is considered clean.
func (tx submitTx) Validate() error {
	return validate.Check(tx)
}

// toTx converts the request into a transaction for the mempool.
func (tx submitTx) toTx() (ledger.Tx, error) {
	txd := block.TxData{
		Nonce:     tx.Nonce,
		TimeStamp: tx.TimeStamp,
		From:      tx.From,
		Kind:      tx.Kind,
		AccountID: tx.AccountID,
		PublicKey: tx.PublicKey,
		To:        tx.To,
		Amount:    tx.Amount,
		Signature: tx.Signature,
	}

	return txd.ToTx()
}
