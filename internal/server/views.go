package server

import (
	"time"

	"github.com/okavango-bank/corebank/internal/domain"
)

// View models are the JSON wire forms. Decimal values travel as fixed-point
// strings so clients never round money through floats.

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

type userView struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type createUserRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type customerRequest struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type customerView struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Address   string `json:"address"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Accounts  int    `json:"accounts"`
}

type openAccountRequest struct {
	CustomerID     string `json:"customer_id"`
	Type           string `json:"type"`
	OpeningBalance string `json:"opening_balance"`
	Branch         string `json:"branch"`
	CompanyName    string `json:"company_name,omitempty"`
	CompanyAddress string `json:"company_address,omitempty"`
}

type accountView struct {
	Number         string    `json:"number"`
	Type           string    `json:"type"`
	DisplayType    string    `json:"display_type"`
	CustomerID     string    `json:"customer_id"`
	Balance        string    `json:"balance"`
	Branch         string    `json:"branch,omitempty"`
	OpenedAt       time.Time `json:"opened_at"`
	CompanyName    string    `json:"company_name,omitempty"`
	CompanyAddress string    `json:"company_address,omitempty"`
}

type amountRequest struct {
	Amount            string `json:"amount"`
	EmployerReference string `json:"employer_reference,omitempty"`
}

type employmentRequest struct {
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
}

type movementResponse struct {
	Message    string `json:"message"`
	NewBalance string `json:"new_balance"`
}

type balanceResponse struct {
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
}

type transactionView struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balance_after"`
	Description   string    `json:"description"`
	Timestamp     time.Time `json:"timestamp"`
}

type interestSweepResponse struct {
	AccountsProcessed int    `json:"accounts_processed"`
	TotalInterest     string `json:"total_interest"`
}

type statisticsResponse struct {
	Savings    int `json:"savings"`
	Investment int `json:"investment"`
	Cheque     int `json:"cheque"`
	Total      int `json:"total"`
}

func viewUser(user *domain.User) userView {
	perms := user.Permissions()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return userView{
		ID:          user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		Permissions: out,
	}
}

func viewCustomer(customer *domain.Customer) customerView {
	return customerView{
		ID:        customer.ID,
		FirstName: customer.FirstName,
		Surname:   customer.Surname,
		Address:   customer.Address,
		Phone:     customer.Phone,
		Email:     customer.Email,
		Accounts:  len(customer.Accounts()),
	}
}

func viewCustomers(customers []*domain.Customer) []customerView {
	out := make([]customerView, len(customers))
	for i, c := range customers {
		out[i] = viewCustomer(c)
	}
	return out
}

func viewAccount(account *domain.Account) accountView {
	return accountView{
		Number:         account.Number,
		Type:           string(account.Type),
		DisplayType:    account.DisplayType(),
		CustomerID:     account.Customer().ID,
		Balance:        account.Balance().StringFixed(2),
		Branch:         account.Branch,
		OpenedAt:       account.OpenedAt,
		CompanyName:    account.CompanyName(),
		CompanyAddress: account.CompanyAddress(),
	}
}

func viewAccounts(accounts []*domain.Account) []accountView {
	out := make([]accountView, len(accounts))
	for i, a := range accounts {
		out[i] = viewAccount(a)
	}
	return out
}

func viewTransactions(entries []domain.Transaction) []transactionView {
	out := make([]transactionView, len(entries))
	for i, e := range entries {
		out[i] = transactionView{
			ID:            e.ID,
			AccountNumber: e.AccountNumber,
			Type:          string(e.Type),
			Amount:        e.Amount.StringFixed(2),
			BalanceAfter:  e.BalanceAfter.StringFixed(2),
			Description:   e.Description,
			Timestamp:     e.Timestamp,
		}
	}
	return out
}
