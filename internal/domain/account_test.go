package domain

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func testCustomer() *Customer {
	return NewCustomer("CUST-1000", "Kabo", "Molefe", "Plot 123, Gaborone")
}

func TestAccountConstruction(t *testing.T) {
	customer := testCustomer()

	tests := []struct {
		name    string
		open    func() (*Account, error)
		wantErr error
	}{
		{
			name: "savings without customer",
			open: func() (*Account, error) {
				return NewSavingsAccount("BK01-10000", decimal.Zero, "Main", nil)
			},
			wantErr: ErrCustomerRequired,
		},
		{
			name: "investment below minimum",
			open: func() (*Account, error) {
				return NewInvestmentAccount("BK01-10001", decimal.NewFromInt(499), "Main", customer)
			},
			wantErr: ErrMinimumOpeningBalance,
		},
		{
			name: "investment at minimum",
			open: func() (*Account, error) {
				return NewInvestmentAccount("BK01-10002", decimal.NewFromInt(500), "Main", customer)
			},
		},
		{
			name: "cheque without company name",
			open: func() (*Account, error) {
				return NewChequeAccount("BK01-10003", decimal.Zero, "Main", customer, "  ", "Plot 5")
			},
			wantErr: ErrEmploymentInfoRequired,
		},
		{
			name: "cheque without company address",
			open: func() (*Account, error) {
				return NewChequeAccount("BK01-10004", decimal.Zero, "Main", customer, "Acme Ltd", "")
			},
			wantErr: ErrEmploymentInfoRequired,
		},
		{
			name: "cheque with employment info",
			open: func() (*Account, error) {
				return NewChequeAccount("BK01-10005", decimal.Zero, "Main", customer, "Acme Ltd", "Plot 5")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := tt.open()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account == nil {
				t.Fatal("expected account, got nil")
			}
		})
	}
}

func TestInvestmentAccountStoresExactOpeningBalance(t *testing.T) {
	account, err := NewInvestmentAccount("BK01-10000", dec(t, "500.00"), "Main", testCustomer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Balance().Equal(dec(t, "500.00")) {
		t.Errorf("expected balance 500.00, got %s", account.Balance())
	}
}

func TestDeposit(t *testing.T) {
	account, _ := NewSavingsAccount("BK01-10000", decimal.NewFromInt(100), "Main", testCustomer())

	if _, err := account.Deposit(decimal.NewFromInt(50)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if !account.Balance().Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected balance 150, got %s", account.Balance())
	}

	history := account.TransactionHistory()
	if len(history) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(history))
	}
	entry := history[0]
	if entry.Type != TransactionDeposit {
		t.Errorf("expected DEPOSIT entry, got %s", entry.Type)
	}
	if !entry.BalanceAfter.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected balance-after 150, got %s", entry.BalanceAfter)
	}
}

func TestDepositRejectsNonPositiveAmounts(t *testing.T) {
	account, _ := NewSavingsAccount("BK01-10000", decimal.NewFromInt(100), "Main", testCustomer())

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		if _, err := account.Deposit(amount); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("deposit of %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if !account.Balance().Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance changed on rejected deposit: %s", account.Balance())
	}
	if len(account.TransactionHistory()) != 0 {
		t.Error("rejected deposits must not append ledger entries")
	}
}

func TestSavingsRejectsEveryWithdrawal(t *testing.T) {
	account, _ := NewSavingsAccount("BK01-10000", decimal.NewFromInt(1000), "Main", testCustomer())

	for _, amount := range []string{"1", "500", "1000", "-5", "0"} {
		if _, err := account.Withdraw(dec(t, amount)); !errors.Is(err, ErrWithdrawalsNotAllowed) {
			t.Errorf("withdraw %s: expected ErrWithdrawalsNotAllowed, got %v", amount, err)
		}
	}
	if !account.Balance().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance changed on rejected withdrawal: %s", account.Balance())
	}
	if len(account.TransactionHistory()) != 0 {
		t.Error("rejected withdrawals must not append ledger entries")
	}
}

func TestWithdraw(t *testing.T) {
	account, _ := NewInvestmentAccount("BK01-10000", decimal.NewFromInt(1000), "Main", testCustomer())

	if _, err := account.Withdraw(decimal.NewFromInt(1001)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(account.TransactionHistory()) != 0 {
		t.Fatal("failed withdrawal appended a ledger entry")
	}

	if _, err := account.Withdraw(decimal.NewFromInt(400)); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if !account.Balance().Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected balance 600, got %s", account.Balance())
	}
	history := account.TransactionHistory()
	if len(history) != 1 || history[0].Type != TransactionWithdrawal {
		t.Fatalf("expected exactly one WITHDRAWAL entry, got %v", history)
	}
}

func TestInterestRates(t *testing.T) {
	customer := testCustomer()

	savings, _ := NewSavingsAccount("BK01-10000", decimal.NewFromInt(10000), "Main", customer)
	if got := savings.CalculateInterest(); !got.Equal(dec(t, "5")) {
		t.Errorf("savings interest on 10000: expected 5, got %s", got)
	}

	investment, _ := NewInvestmentAccount("BK01-10001", decimal.NewFromInt(1000), "Main", customer)
	if got := investment.CalculateInterest(); !got.Equal(dec(t, "50")) {
		t.Errorf("investment interest on 1000: expected 50, got %s", got)
	}

	cheque, _ := NewChequeAccount("BK01-10002", decimal.NewFromInt(1000), "Main", customer, "Acme Ltd", "Plot 5")
	if got := cheque.CalculateInterest(); !got.IsZero() {
		t.Errorf("cheque interest: expected 0, got %s", got)
	}
}

func TestApplyInterestScenario(t *testing.T) {
	account, _ := NewInvestmentAccount("BK01-10000", decimal.NewFromInt(1000), "Main", testCustomer())

	entry, ok := account.ApplyInterest()
	if !ok || !entry.Amount.Equal(dec(t, "50")) {
		t.Errorf("expected interest 50, got %s", entry.Amount)
	}
	if !account.Balance().Equal(dec(t, "1050")) {
		t.Errorf("expected balance 1050, got %s", account.Balance())
	}

	history := account.TransactionHistory()
	if len(history) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(history))
	}
	if history[0].Type != TransactionInterest {
		t.Errorf("expected INTEREST entry, got %s", history[0].Type)
	}
	if !history[0].BalanceAfter.Equal(dec(t, "1050")) {
		t.Errorf("expected balance-after 1050, got %s", history[0].BalanceAfter)
	}
}

func TestApplyInterestZeroBalanceIsNoOp(t *testing.T) {
	customer := testCustomer()
	savings, _ := NewSavingsAccount("BK01-10000", decimal.Zero, "Main", customer)
	cheque, _ := NewChequeAccount("BK01-10001", decimal.NewFromInt(5000), "Main", customer, "Acme Ltd", "Plot 5")

	for _, account := range []*Account{savings, cheque} {
		before := account.Balance()
		if entry, ok := account.ApplyInterest(); ok {
			t.Errorf("%s: expected zero interest, got %s", account.Type, entry.Amount)
		}
		if !account.Balance().Equal(before) {
			t.Errorf("%s: balance changed on zero-interest apply", account.Type)
		}
		if len(account.TransactionHistory()) != 0 {
			t.Errorf("%s: zero-interest apply appended a ledger entry", account.Type)
		}
	}
}

func TestCreditSalary(t *testing.T) {
	customer := testCustomer()
	cheque, _ := NewChequeAccount("BK01-10000", decimal.Zero, "Main", customer, "Acme Ltd", "Plot 5")

	if _, err := cheque.CreditSalary(decimal.Zero, "PAY-01"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if _, err := cheque.CreditSalary(dec(t, "7500.50"), "PAY-01"); err != nil {
		t.Fatalf("salary credit failed: %v", err)
	}
	entry, ok := cheque.LastTransaction()
	if !ok || entry.Type != TransactionSalary {
		t.Fatalf("expected SALARY entry, got %v", entry)
	}
	if entry.Description != "Salary credit from Acme Ltd (Ref: PAY-01)" {
		t.Errorf("unexpected description: %q", entry.Description)
	}

	savings, _ := NewSavingsAccount("BK01-10001", decimal.Zero, "Main", customer)
	if _, err := savings.CreditSalary(decimal.NewFromInt(100), "PAY-02"); !errors.Is(err, ErrSalaryNotSupported) {
		t.Errorf("expected ErrSalaryNotSupported, got %v", err)
	}
}

func TestTransactionHistoryIsDefensiveCopy(t *testing.T) {
	account, _ := NewInvestmentAccount("BK01-10000", decimal.NewFromInt(1000), "Main", testCustomer())
	_, _ = account.Deposit(decimal.NewFromInt(10))

	history := account.TransactionHistory()
	history[0].Description = "tampered"
	history[0].Amount = decimal.NewFromInt(999999)

	fresh := account.TransactionHistory()
	if fresh[0].Description == "tampered" {
		t.Error("caller mutated the account's internal ledger")
	}
}

func TestLedgerReplayReconstructsBalance(t *testing.T) {
	account, _ := NewInvestmentAccount("BK01-10000", dec(t, "800.00"), "Main", testCustomer())
	_, _ = account.Deposit(dec(t, "200.00"))
	_, _ = account.Withdraw(dec(t, "150.25"))
	account.ApplyInterest()
	_, _ = account.Deposit(dec(t, "19.99"))

	if err := account.VerifyLedger(); err != nil {
		t.Fatalf("ledger replay failed: %v", err)
	}

	final, err := ReplayLedger(account.OpeningBalance(), account.TransactionHistory())
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !final.Equal(account.Balance()) {
		t.Errorf("replayed balance %s != current balance %s", final, account.Balance())
	}

	history := account.TransactionHistory()
	last := history[len(history)-1]
	if !last.BalanceAfter.Equal(account.Balance()) {
		t.Errorf("last entry balance-after %s != current balance %s", last.BalanceAfter, account.Balance())
	}
}

func TestReplayLedgerDetectsTampering(t *testing.T) {
	account, _ := NewInvestmentAccount("BK01-10000", decimal.NewFromInt(1000), "Main", testCustomer())
	_, _ = account.Deposit(decimal.NewFromInt(100))

	entries := account.TransactionHistory()
	entries[0].BalanceAfter = decimal.NewFromInt(9999)
	if _, err := ReplayLedger(account.OpeningBalance(), entries); err == nil {
		t.Error("expected replay to reject a tampered balance-after")
	}
}

func TestConcurrentMovementsKeepLedgerConsistent(t *testing.T) {
	account, _ := NewInvestmentAccount("BK01-10000", decimal.NewFromInt(10000), "Main", testCustomer())

	const workers = 50
	deposit := dec(t, "10.00")
	withdrawal := dec(t, "5.00")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := account.Deposit(deposit); err != nil {
				t.Errorf("deposit: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := account.Withdraw(withdrawal); err != nil {
				t.Errorf("withdraw: %v", err)
			}
		}()
	}
	wg.Wait()

	// 10000 + 50*10 - 50*5
	if !account.Balance().Equal(dec(t, "10250.00")) {
		t.Errorf("balance = %s, want 10250.00", account.Balance())
	}
	if got := len(account.TransactionHistory()); got != 2*workers {
		t.Errorf("ledger has %d entries, want %d", got, 2*workers)
	}
	if err := account.VerifyLedger(); err != nil {
		t.Errorf("ledger replay failed after concurrent movements: %v", err)
	}
}

func TestUpdateEmploymentInfo(t *testing.T) {
	cheque, _ := NewChequeAccount("BK01-10000", decimal.Zero, "Main", testCustomer(), "Acme Ltd", "Plot 5")

	cheque.UpdateEmploymentInfo("Globex", "")
	if cheque.CompanyName() != "Globex" || cheque.CompanyAddress() != "Plot 5" {
		t.Errorf("expected name updated and address kept, got %q / %q", cheque.CompanyName(), cheque.CompanyAddress())
	}

	cheque.UpdateEmploymentInfo("  ", "Plot 9")
	if cheque.CompanyName() != "Globex" || cheque.CompanyAddress() != "Plot 9" {
		t.Errorf("expected name kept and address updated, got %q / %q", cheque.CompanyName(), cheque.CompanyAddress())
	}
}
