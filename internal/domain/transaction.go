package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry. The amount of an entry is always
// stored positive; the type determines whether it raised or lowered the balance.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionInterest   TransactionType = "INTEREST"
	TransactionSalary     TransactionType = "SALARY"
)

// Transaction is one immutable ledger entry: a single balance-affecting event
// on an account, together with a snapshot of the balance immediately after it.
type Transaction struct {
	ID            string
	AccountNumber string
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Description   string
	Timestamp     time.Time
}

// NewTransaction creates a ledger entry with a fresh unique identifier.
func NewTransaction(accountNumber string, txType TransactionType, amount, balanceAfter decimal.Decimal, description string) Transaction {
	return Transaction{
		ID:            uuid.NewString(),
		AccountNumber: accountNumber,
		Type:          txType,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Description:   description,
		Timestamp:     time.Now(),
	}
}

// SignedAmount returns the amount with the sign the entry's type implies:
// withdrawals lower the balance, every other type raises it.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ReplayLedger re-applies entries in order starting from the given opening
// balance and checks each entry's balance-after snapshot against the running
// balance. It returns the final balance, or an error naming the first entry
// whose snapshot does not line up with the replayed state.
func ReplayLedger(openingBalance decimal.Decimal, entries []Transaction) (decimal.Decimal, error) {
	balance := openingBalance
	for i, entry := range entries {
		balance = balance.Add(entry.SignedAmount())
		if !balance.Equal(entry.BalanceAfter) {
			return decimal.Zero, fmt.Errorf("ledger entry %d (%s): balance-after %s does not match replayed balance %s",
				i, entry.ID, entry.BalanceAfter, balance)
		}
	}
	return balance, nil
}
