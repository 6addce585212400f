package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRegisterCustomerIssuesSequentialIDs(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")

	first := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")
	second := bank.RegisterCustomer("Neo", "Tau", "Plot 456")

	if first.ID != "CUST-1000" {
		t.Errorf("expected first customer id CUST-1000, got %s", first.ID)
	}
	if second.ID != "CUST-1001" {
		t.Errorf("expected second customer id CUST-1001, got %s", second.ID)
	}
	if bank.CustomerCount() != 2 {
		t.Errorf("expected 2 customers, got %d", bank.CustomerCount())
	}
}

func TestOpenAccountsIssueSequentialNumbers(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	customer := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")

	savings, err := bank.OpenSavingsAccount(customer.ID, decimal.Zero, "Main")
	if err != nil {
		t.Fatalf("open savings: %v", err)
	}
	investment, err := bank.OpenInvestmentAccount(customer.ID, decimal.NewFromInt(500), "Main")
	if err != nil {
		t.Fatalf("open investment: %v", err)
	}

	if savings.Number != "BK01-10000" {
		t.Errorf("expected BK01-10000, got %s", savings.Number)
	}
	if investment.Number != "BK01-10001" {
		t.Errorf("expected BK01-10001, got %s", investment.Number)
	}

	accounts := customer.Accounts()
	if len(accounts) != 2 || accounts[0] != savings || accounts[1] != investment {
		t.Error("customer accounts must keep opening order")
	}
	if savings.Customer() != customer {
		t.Error("account must link back to its owning customer")
	}
}

func TestOpenAccountUnknownCustomer(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")

	_, err := bank.OpenSavingsAccount("CUST-9999", decimal.Zero, "Main")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestConstructionFailureIndexesNothing(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	customer := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")

	_, err := bank.OpenInvestmentAccount(customer.ID, decimal.NewFromInt(100), "Main")
	if !errors.Is(err, ErrMinimumOpeningBalance) {
		t.Fatalf("expected ErrMinimumOpeningBalance, got %v", err)
	}
	if bank.AccountCount() != 0 {
		t.Error("failed construction must not index an account")
	}
	if customer.HasAccounts() {
		t.Error("failed construction must not link an account to the customer")
	}

	_, err = bank.OpenChequeAccount(customer.ID, decimal.Zero, "Main", "", "")
	if !errors.Is(err, ErrEmploymentInfoRequired) {
		t.Fatalf("expected ErrEmploymentInfoRequired, got %v", err)
	}
	if bank.AccountCount() != 0 {
		t.Error("failed cheque construction must not index an account")
	}
}

func TestAccountNumbersNeverReused(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	customer := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")

	// A refused construction burns its allocated number.
	_, _ = bank.OpenInvestmentAccount(customer.ID, decimal.NewFromInt(1), "Main")
	account, err := bank.OpenSavingsAccount(customer.ID, decimal.Zero, "Main")
	if err != nil {
		t.Fatalf("open savings: %v", err)
	}
	if account.Number == "BK01-10000" {
		t.Errorf("number issued to a failed construction was reused: %s", account.Number)
	}

	seen := map[string]bool{account.Number: true}
	for i := 0; i < 50; i++ {
		a, err := bank.OpenSavingsAccount(customer.ID, decimal.Zero, "Main")
		if err != nil {
			t.Fatalf("open savings %d: %v", i, err)
		}
		if seen[a.Number] {
			t.Fatalf("account number %s issued twice", a.Number)
		}
		seen[a.Number] = true
	}
}

func TestProcessMonthlyInterest(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	customer := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")

	savings, _ := bank.OpenSavingsAccount(customer.ID, decimal.NewFromInt(10000), "Main")
	investment, _ := bank.OpenInvestmentAccount(customer.ID, decimal.NewFromInt(1000), "Main")
	cheque, _ := bank.OpenChequeAccount(customer.ID, decimal.NewFromInt(5000), "Main", "Acme Ltd", "Plot 5")
	emptySavings, _ := bank.OpenSavingsAccount(customer.ID, decimal.Zero, "Main")

	postings, total := bank.ProcessMonthlyInterest()

	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	// 10000*0.0005 + 1000*0.05 = 5 + 50
	if !total.Equal(decimal.NewFromInt(55)) {
		t.Errorf("expected total interest 55, got %s", total)
	}
	for _, posting := range postings {
		last, ok := posting.Account.LastTransaction()
		if !ok || last.ID != posting.Entry.ID {
			t.Errorf("%s: posting entry is not the account's latest ledger entry", posting.Account.Number)
		}
		if posting.Entry.Type != TransactionInterest {
			t.Errorf("%s: posting entry type = %s", posting.Account.Number, posting.Entry.Type)
		}
	}
	if !savings.Balance().Equal(decimal.NewFromInt(10005)) {
		t.Errorf("savings balance: expected 10005, got %s", savings.Balance())
	}
	if !investment.Balance().Equal(decimal.NewFromInt(1050)) {
		t.Errorf("investment balance: expected 1050, got %s", investment.Balance())
	}
	if !cheque.Balance().Equal(decimal.NewFromInt(5000)) {
		t.Errorf("cheque balance changed during sweep: %s", cheque.Balance())
	}
	if len(cheque.TransactionHistory()) != 0 || len(emptySavings.TransactionHistory()) != 0 {
		t.Error("sweep must not append entries to cheque or zero-balance accounts")
	}
}

func TestRemoveCustomer(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	withAccount := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")
	withoutAccount := bank.RegisterCustomer("Neo", "Tau", "Plot 456")
	_, _ = bank.OpenSavingsAccount(withAccount.ID, decimal.Zero, "Main")

	if err := bank.RemoveCustomer(withAccount.ID); !errors.Is(err, ErrCustomerHasAccounts) {
		t.Fatalf("expected ErrCustomerHasAccounts, got %v", err)
	}
	if bank.Customer(withAccount.ID) == nil {
		t.Error("customer with accounts was removed")
	}

	if err := bank.RemoveCustomer(withoutAccount.ID); err != nil {
		t.Fatalf("removing account-less customer failed: %v", err)
	}
	if bank.Customer(withoutAccount.ID) != nil {
		t.Error("removed customer still indexed")
	}

	if err := bank.RemoveCustomer(withoutAccount.ID); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerIDsNotReusedAfterRemoval(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	removed := bank.RegisterCustomer("Neo", "Tau", "Plot 456")
	if err := bank.RemoveCustomer(removed.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	next := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")
	if next.ID == removed.ID {
		t.Errorf("customer id %s reused after removal", next.ID)
	}
}

func TestLoadRestoresCounters(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")

	customer := NewCustomer("CUST-1041", "Kabo", "Molefe", "Plot 123")
	if err := bank.LoadCustomer(customer); err != nil {
		t.Fatalf("load customer: %v", err)
	}
	account, err := RestoreAccount(AccountRecord{
		Number:   "BK01-10077",
		Type:     AccountSavings,
		Balance:  decimal.NewFromInt(10),
		Customer: customer,
	})
	if err != nil {
		t.Fatalf("restore account: %v", err)
	}
	if err := bank.LoadAccount(account); err != nil {
		t.Fatalf("load account: %v", err)
	}

	fresh := bank.RegisterCustomer("Neo", "Tau", "Plot 456")
	if fresh.ID != "CUST-1042" {
		t.Errorf("expected counter to resume at CUST-1042, got %s", fresh.ID)
	}
	opened, err := bank.OpenSavingsAccount(fresh.ID, decimal.Zero, "Main")
	if err != nil {
		t.Fatalf("open savings: %v", err)
	}
	if opened.Number != "BK01-10078" {
		t.Errorf("expected counter to resume at BK01-10078, got %s", opened.Number)
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	customer := NewCustomer("CUST-1000", "Kabo", "Molefe", "Plot 123")
	if err := bank.LoadCustomer(customer); err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if err := bank.LoadCustomer(NewCustomer("CUST-1000", "Neo", "Tau", "Plot 456")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAllAccountsOrdering(t *testing.T) {
	bank := NewBank("Okavango Bank", "BK01")
	customer := bank.RegisterCustomer("Kabo", "Molefe", "Plot 123")
	for i := 0; i < 5; i++ {
		if _, err := bank.OpenSavingsAccount(customer.ID, decimal.Zero, "Main"); err != nil {
			t.Fatalf("open savings %d: %v", i, err)
		}
	}

	accounts := bank.AllAccounts()
	for i, account := range accounts {
		want := fmt.Sprintf("BK01-%05d", 10000+i)
		if account.Number != want {
			t.Errorf("position %d: expected %s, got %s", i, want, account.Number)
		}
	}
}
