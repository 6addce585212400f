package domain

// Customer holds identity and contact data for one bank customer, together
// with the accounts opened in their name. Accounts keep their opening order.
type Customer struct {
	ID        string
	FirstName string
	Surname   string
	Address   string
	Phone     string
	Email     string

	accounts []*Account
}

// NewCustomer creates a customer with the given bank-assigned identifier.
// Identifiers are issued by the bank registry and never reused.
func NewCustomer(id, firstName, surname, address string) *Customer {
	return &Customer{
		ID:        id,
		FirstName: firstName,
		Surname:   surname,
		Address:   address,
	}
}

// AddAccount links an account to the customer. Adding the same account twice
// is a no-op; the ordering of first additions is preserved.
func (c *Customer) AddAccount(account *Account) {
	if account == nil {
		return
	}
	for _, existing := range c.accounts {
		if existing == account {
			return
		}
	}
	c.accounts = append(c.accounts, account)
	account.customer = c
}

// removeAccount unlinks an account from the customer. Used by the registry
// when an account is closed.
func (c *Customer) removeAccount(number string) {
	for i, account := range c.accounts {
		if account.Number == number {
			c.accounts = append(c.accounts[:i], c.accounts[i+1:]...)
			return
		}
	}
}

// Accounts returns a snapshot of the customer's accounts in opening order.
func (c *Customer) Accounts() []*Account {
	out := make([]*Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// AccountByNumber returns the owned account with the given number, or nil.
func (c *Customer) AccountByNumber(number string) *Account {
	for _, account := range c.accounts {
		if account.Number == number {
			return account
		}
	}
	return nil
}

// HasAccounts reports whether the customer owns at least one account.
// A customer with accounts may not be deleted.
func (c *Customer) HasAccounts() bool {
	return len(c.accounts) > 0
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.Surname
}
