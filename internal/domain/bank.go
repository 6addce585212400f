package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

const (
	firstCustomerSequence = 1000
	firstAccountSequence  = 10000
)

// Bank is the registry for one bank instance: the single source of truth for
// identifier issuance and customer/account lookup. Identifiers are strictly
// increasing and never reused, even after an entity is removed.
//
// All registry state is guarded by one mutex so that identifier allocation
// and check-then-insert indexing stay atomic under concurrent callers.
type Bank struct {
	mu sync.Mutex

	name string
	code string

	customers map[string]*Customer
	accounts  map[string]*Account

	customerCounter int
	accountCounter  int
}

// NewBank creates an empty registry for the named bank. The code prefixes
// every account number it issues.
func NewBank(name, code string) *Bank {
	return &Bank{
		name:            name,
		code:            code,
		customers:       make(map[string]*Customer),
		accounts:        make(map[string]*Account),
		customerCounter: firstCustomerSequence,
		accountCounter:  firstAccountSequence,
	}
}

// Name returns the bank's display name.
func (b *Bank) Name() string { return b.name }

// Code returns the bank code used in account numbers.
func (b *Bank) Code() string { return b.code }

// RegisterCustomer allocates the next customer identifier, constructs the
// customer and indexes it.
func (b *Bank) RegisterCustomer(firstName, surname, address string) *Customer {
	b.mu.Lock()
	defer b.mu.Unlock()

	customer := NewCustomer(b.nextCustomerID(), firstName, surname, address)
	b.customers[customer.ID] = customer
	return customer
}

// OpenSavingsAccount opens a savings account for an existing customer.
func (b *Bank) OpenSavingsAccount(customerID string, openingBalance decimal.Decimal, branch string) (*Account, error) {
	return b.open(customerID, func(number string, customer *Customer) (*Account, error) {
		return NewSavingsAccount(number, openingBalance, branch, customer)
	})
}

// OpenInvestmentAccount opens an investment account for an existing customer.
// The variant's minimum opening balance applies.
func (b *Bank) OpenInvestmentAccount(customerID string, openingBalance decimal.Decimal, branch string) (*Account, error) {
	return b.open(customerID, func(number string, customer *Customer) (*Account, error) {
		return NewInvestmentAccount(number, openingBalance, branch, customer)
	})
}

// OpenChequeAccount opens a cheque account for an existing customer. Employer
// name and address are mandatory.
func (b *Bank) OpenChequeAccount(customerID string, openingBalance decimal.Decimal, branch, companyName, companyAddress string) (*Account, error) {
	return b.open(customerID, func(number string, customer *Customer) (*Account, error) {
		return NewChequeAccount(number, openingBalance, branch, customer, companyName, companyAddress)
	})
}

// open runs the shared account-opening sequence inside one critical section:
// look up the customer, allocate a number, construct the variant, link it to
// the customer and index it. A construction failure propagates and leaves no
// partial state behind; the allocated number is simply never reused.
func (b *Bank) open(customerID string, construct func(number string, customer *Customer) (*Account, error)) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	customer, ok := b.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}

	account, err := construct(b.nextAccountNumber(), customer)
	if err != nil {
		return nil, err
	}

	customer.AddAccount(account)
	b.accounts[account.Number] = account
	return account, nil
}

// Customer returns the indexed customer, or nil when absent.
func (b *Bank) Customer(customerID string) *Customer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.customers[customerID]
}

// Account returns the indexed account, or nil when absent.
func (b *Bank) Account(number string) *Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts[number]
}

// AllCustomers returns every indexed customer ordered by identifier.
func (b *Bank) AllCustomers() []*Customer {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Customer, 0, len(b.customers))
	for _, c := range b.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllAccounts returns every indexed account ordered by account number.
func (b *Bank) AllAccounts() []*Account {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// CustomerCount returns the number of indexed customers.
func (b *Bank) CustomerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.customers)
}

// AccountCount returns the number of indexed accounts.
func (b *Bank) AccountCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.accounts)
}

// CloseAccount drops an account from the registry and unlinks it from its
// customer. The account number is never reissued.
func (b *Bank) CloseAccount(number string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, ok := b.accounts[number]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, number)
	}
	if account.customer != nil {
		account.customer.removeAccount(number)
	}
	delete(b.accounts, number)
	return nil
}

// RemoveCustomer drops a customer from the registry. A customer that still
// owns accounts may not be removed. The identifier is never reissued.
func (b *Bank) RemoveCustomer(customerID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	customer, ok := b.customers[customerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	if customer.HasAccounts() {
		return ErrCustomerHasAccounts
	}
	delete(b.customers, customerID)
	return nil
}

// InterestPosting is one interest credit made by the monthly sweep: the
// account it was applied to and the ledger entry it appended.
type InterestPosting struct {
	Account *Account
	Entry   Transaction
}

// ProcessMonthlyInterest applies one month's interest to every savings and
// investment account. Cheque accounts are skipped; accounts whose interest
// comes to zero produce no posting. The sweep runs inside the registry lock
// and returns the postings in account-number order plus the total paid out,
// so callers can mirror each entry to a store.
func (b *Bank) ProcessMonthlyInterest() ([]InterestPosting, decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	numbers := make([]string, 0, len(b.accounts))
	for number := range b.accounts {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	var postings []InterestPosting
	total := decimal.Zero
	for _, number := range numbers {
		account := b.accounts[number]
		if account.Type == AccountCheque {
			continue
		}
		entry, ok := account.ApplyInterest()
		if !ok {
			continue
		}
		postings = append(postings, InterestPosting{Account: account, Entry: entry})
		total = total.Add(entry.Amount)
	}
	return postings, total
}

// LoadCustomer indexes a rehydrated customer without issuing an identifier
// and advances the customer counter past the loaded sequence.
func (b *Bank) LoadCustomer(customer *Customer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.customers[customer.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, customer.ID)
	}
	b.customers[customer.ID] = customer
	if seq, ok := parseSequence(customer.ID, "CUST-"); ok && seq >= b.customerCounter {
		b.customerCounter = seq + 1
	}
	return nil
}

// LoadAccount indexes a rehydrated account, links it to its (already loaded)
// customer and advances the account counter past the loaded sequence.
func (b *Bank) LoadAccount(account *Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if account.Customer() == nil {
		return ErrCustomerRequired
	}
	if _, exists := b.accounts[account.Number]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, account.Number)
	}
	account.Customer().AddAccount(account)
	b.accounts[account.Number] = account
	if seq, ok := parseSequence(account.Number, b.code+"-"); ok && seq >= b.accountCounter {
		b.accountCounter = seq + 1
	}
	return nil
}

func (b *Bank) nextCustomerID() string {
	id := fmt.Sprintf("CUST-%04d", b.customerCounter)
	b.customerCounter++
	return id
}

func (b *Bank) nextAccountNumber() string {
	number := fmt.Sprintf("%s-%05d", b.code, b.accountCounter)
	b.accountCounter++
	return number
}

func parseSequence(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return seq, true
}
