package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/okavango-bank/corebank/internal/domain"
)

// In-memory fakes for the repository interfaces. Each fake can be told to
// fail so persistence-error paths are testable. The account, transaction and
// publisher fakes carry a mutex so tests can drive movements concurrently.

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
	failSave  bool
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func (r *fakeCustomerRepo) Save(_ context.Context, customer *domain.Customer) error {
	if r.failSave {
		return fmt.Errorf("save customer: connection refused")
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, customerID string) (*domain.Customer, error) {
	customer, ok := r.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
	}
	return customer, nil
}

func (r *fakeCustomerRepo) FindAll(_ context.Context) ([]*domain.Customer, error) {
	out := make([]*domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, customerID string) error {
	delete(r.customers, customerID)
	return nil
}

func (r *fakeCustomerRepo) Exists(_ context.Context, customerID string) (bool, error) {
	_, ok := r.customers[customerID]
	return ok, nil
}

func (r *fakeCustomerRepo) SearchByName(_ context.Context, term string) ([]*domain.Customer, error) {
	term = strings.ToLower(term)
	var out []*domain.Customer
	for _, c := range r.customers {
		if strings.Contains(strings.ToLower(c.FullName()), term) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeAccountRepo struct {
	mu             sync.Mutex
	accounts       map[string]*domain.Account
	failSave       bool
	failUpdate     bool
	balanceUpdates int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *fakeAccountRepo) Save(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return fmt.Errorf("save account: connection refused")
	}
	r.accounts[account.Number] = account
	return nil
}

func (r *fakeAccountRepo) FindByNumber(_ context.Context, number string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
	}
	return account, nil
}

func (r *fakeAccountRepo) FindAll(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeAccountRepo) UpdateBalance(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return fmt.Errorf("update balance: connection refused")
	}
	r.balanceUpdates++
	r.accounts[account.Number] = account
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, number)
	return nil
}

func (r *fakeAccountRepo) Exists(_ context.Context, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[number]
	return ok, nil
}

func (r *fakeAccountRepo) FindByCustomerID(_ context.Context, customerID string) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.Customer() != nil && a.Customer().ID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeAccountRepo) CountByType(_ context.Context, accountType domain.AccountType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, a := range r.accounts {
		if a.Type == accountType {
			count++
		}
	}
	return count, nil
}

type fakeTransactionRepo struct {
	mu       sync.Mutex
	entries  []domain.Transaction
	failSave bool
}

func (r *fakeTransactionRepo) Save(_ context.Context, entry domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return fmt.Errorf("save transaction: connection refused")
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeTransactionRepo) FindByAccountNumber(_ context.Context, number string) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, e := range r.entries {
		if e.AccountNumber == number {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID string) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, user.ID)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.users[userID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) Exists(_ context.Context, userID string) (bool, error) {
	_, ok := r.users[userID]
	return ok, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	entries []domain.Transaction
	sweeps  []domain.InterestSweep
	fail    bool
}

func (p *fakePublisher) PublishLedgerEntry(_ context.Context, entry domain.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("publish: channel closed")
	}
	p.entries = append(p.entries, entry)
	return nil
}

func (p *fakePublisher) PublishInterestSweep(_ context.Context, sweep domain.InterestSweep) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("publish: channel closed")
	}
	p.sweeps = append(p.sweeps, sweep)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func plainVerify(password, hash string) bool {
	return password == hash
}

// sessionAs builds a session with an authenticated principal of the given
// role bound to it.
func sessionAs(t *testing.T, role domain.Role) *Session {
	t.Helper()
	user := domain.NewUser("USR-1", "operator", "secret123", role, plainVerify)
	if !user.Authenticate("USR-1", "secret123") {
		t.Fatal("test principal failed to authenticate")
	}
	session := NewSession()
	session.Bind(user)
	return session
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}
