package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/okavango-bank/corebank/internal/domain"
)

// Memory is an in-process implementation of all four repositories. It backs
// the server when no database is configured and keeps the handler tests free
// of infrastructure.
type Memory struct {
	mu           sync.RWMutex
	customers    map[string]*domain.Customer
	accounts     map[string]*domain.Account
	transactions map[string][]domain.Transaction
	users        map[string]*domain.User
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		customers:    make(map[string]*domain.Customer),
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[string][]domain.Transaction),
		users:        make(map[string]*domain.User),
	}
}

// Customers returns the customer repository view of the store.
func (m *Memory) Customers() domain.CustomerRepository { return (*memoryCustomers)(m) }

// Accounts returns the account repository view of the store.
func (m *Memory) Accounts() domain.AccountRepository { return (*memoryAccounts)(m) }

// Transactions returns the ledger repository view of the store.
func (m *Memory) Transactions() domain.TransactionRepository { return (*memoryTransactions)(m) }

// Users returns the user repository view of the store.
func (m *Memory) Users() domain.UserRepository { return (*memoryUsers)(m) }

type memoryCustomers Memory

func (m *memoryCustomers) Save(_ context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *memoryCustomers) FindByID(_ context.Context, customerID string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
	}
	return customer, nil
}

func (m *memoryCustomers) FindAll(_ context.Context) ([]*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryCustomers) Update(_ context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customer.ID)
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *memoryCustomers) Delete(_ context.Context, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customerID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
	}
	delete(m.customers, customerID)
	return nil
}

func (m *memoryCustomers) Exists(_ context.Context, customerID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.customers[customerID]
	return ok, nil
}

func (m *memoryCustomers) SearchByName(_ context.Context, term string) ([]*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term = strings.ToLower(term)
	var out []*domain.Customer
	for _, c := range m.customers {
		if strings.Contains(strings.ToLower(c.FirstName), term) ||
			strings.Contains(strings.ToLower(c.Surname), term) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryAccounts Memory

func (m *memoryAccounts) Save(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Number] = account
	return nil
}

func (m *memoryAccounts) FindByNumber(_ context.Context, number string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
	}
	return account, nil
}

func (m *memoryAccounts) FindAll(_ context.Context) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memoryAccounts) UpdateBalance(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Number]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, account.Number)
	}
	m.accounts[account.Number] = account
	return nil
}

func (m *memoryAccounts) Delete(_ context.Context, number string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[number]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
	}
	delete(m.accounts, number)
	delete(m.transactions, number)
	return nil
}

func (m *memoryAccounts) Exists(_ context.Context, number string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[number]
	return ok, nil
}

func (m *memoryAccounts) FindByCustomerID(_ context.Context, customerID string) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, a := range m.accounts {
		if a.Customer() != nil && a.Customer().ID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memoryAccounts) CountByType(_ context.Context, accountType domain.AccountType) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, a := range m.accounts {
		if a.Type == accountType {
			count++
		}
	}
	return count, nil
}

type memoryTransactions Memory

func (m *memoryTransactions) Save(_ context.Context, entry domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[entry.AccountNumber] = append(m.transactions[entry.AccountNumber], entry)
	return nil
}

func (m *memoryTransactions) FindByAccountNumber(_ context.Context, number string) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.transactions[number]
	out := make([]domain.Transaction, len(entries))
	copy(out, entries)
	return out, nil
}

type memoryUsers Memory

func (m *memoryUsers) Save(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, userID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return user, nil
}

func (m *memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, user.ID)
	}
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	delete(m.users, userID)
	return nil
}

func (m *memoryUsers) Exists(_ context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[userID]
	return ok, nil
}
