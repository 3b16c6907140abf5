// Package ledger maintains the account balance state for the blockchain and
// implements the transaction state transition function against it.
//
// One ordering quirk is kept on purpose for chain compatibility: a transfer
// checks the sender's balance before verifying the signature, so an unsigned
// transaction can probe whether an account could cover an amount. Changing
// the order would change which error existing chains report.
package ledger

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"
)

// Set of errors the ledger state transition can return.
var (
	ErrAccountExists     = errors.New("account id already exists")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrUnknownSender     = errors.New("unknown sender account")
	ErrUnknownReceiver   = errors.New("unknown receiver account")
	ErrInsufficientFunds = errors.New("sender doesn't have enough funds")
	ErrAmountOverflow    = errors.New("amount overflows the balance")
	ErrSelfTransfer      = errors.New("transfer to yourself")
	ErrInvalidSenderID   = errors.New("invalid sender account id")
	ErrNotGenesisMint    = errors.New("initial supply can be minted only in the genesis block")
	ErrInvalidSignature  = errors.New("invalid signature")
)

// Ledger manages the mapping from account id to account record. Reads may
// run concurrently; block execution is serialized by the caller.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[AccountID]Account
}

// New constructs an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[AccountID]Account),
	}
}

// CreateAccount inserts a zero balance account for the id. An id maps to at
// most one account for the life of the chain.
func (l *Ledger) CreateAccount(id AccountID, kind AccountKind, publicKey PublicKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[id]; exists {
		return ErrAccountExists
	}

	l.accounts[id] = newAccount(kind, publicKey)
	return nil
}

// Query looks up an account by id. Absence is not an error.
func (l *Ledger) Query(id AccountID) (Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, exists := l.accounts[id]
	return account, exists
}

// CopyAccounts makes a snapshot of every account on the ledger. The
// snapshot is O(ledger size); at this chain's scale that is acceptable,
// a higher-throughput variant would switch to an undo log.
func (l *Ledger) CopyAccounts() map[AccountID]Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make(map[AccountID]Account, len(l.accounts))
	for id, account := range l.accounts {
		accounts[id] = account
	}

	return accounts
}

// Restore replaces the ledger state with a previously taken snapshot.
func (l *Ledger) Restore(accounts map[AccountID]Account) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[AccountID]Account, len(accounts))
	for id, account := range accounts {
		l.accounts[id] = account
	}
}

// credit adds the amount to the account's balance with overflow checking.
// The caller must hold the write lock.
func credit(account *Account, amount *uint256.Int) error {
	var sum uint256.Int
	if _, overflow := sum.AddOverflow(&account.Balance, amount); overflow {
		return ErrAmountOverflow
	}

	account.Balance = sum
	return nil
}
