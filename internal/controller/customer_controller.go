package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/okavango-bank/corebank/internal/domain"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// CustomerController handles customer registration, lookup, update, search
// and deletion.
type CustomerController struct {
	bank      *domain.Bank
	customers domain.CustomerRepository
	session   *Session
	logger    *slog.Logger
}

// NewCustomerController creates a CustomerController.
func NewCustomerController(bank *domain.Bank, customers domain.CustomerRepository, session *Session, logger *slog.Logger) *CustomerController {
	return &CustomerController{bank: bank, customers: customers, session: session, logger: logger}
}

// RegisterCustomer validates the input, registers the customer with the bank
// and persists it. Phone and email are optional but validated when present.
func (c *CustomerController) RegisterCustomer(ctx context.Context, firstName, surname, address, phone, email string) CustomerResult {
	if !c.session.HasPermission(domain.PermCreateCustomer) {
		return CustomerResult{Message: "You don't have permission to register customers"}
	}

	firstName = strings.TrimSpace(firstName)
	surname = strings.TrimSpace(surname)
	address = strings.TrimSpace(address)
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)

	switch {
	case firstName == "":
		return CustomerResult{Message: "First name is required"}
	case surname == "":
		return CustomerResult{Message: "Surname is required"}
	case address == "":
		return CustomerResult{Message: "Address is required"}
	case !namePattern.MatchString(firstName):
		return CustomerResult{Message: "First name contains invalid characters"}
	case !namePattern.MatchString(surname):
		return CustomerResult{Message: "Surname contains invalid characters"}
	case email != "" && !emailPattern.MatchString(email):
		return CustomerResult{Message: "Invalid email format"}
	case phone != "" && !validPhone(phone):
		return CustomerResult{Message: "Invalid phone number format"}
	}

	customer := c.bank.RegisterCustomer(firstName, surname, address)
	customer.Phone = phone
	customer.Email = email

	if err := c.customers.Save(ctx, customer); err != nil {
		c.logger.Error("customer save failed", "customer_id", customer.ID, "error", err)
		return CustomerResult{Message: "Failed to save customer to database"}
	}

	c.logger.Info("customer registered", "customer_id", customer.ID)
	return CustomerResult{Success: true, Message: "Customer registered successfully: " + customer.ID, Customer: customer}
}

// GetCustomer looks up one customer by identifier.
func (c *CustomerController) GetCustomer(ctx context.Context, customerID string) CustomerResult {
	if !c.session.HasPermission(domain.PermViewBalance) {
		return CustomerResult{Message: "You don't have permission to view customers"}
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return CustomerResult{Message: "Customer ID is required"}
	}

	customer := c.bank.Customer(customerID)
	if customer == nil {
		return CustomerResult{Message: "Customer not found: " + customerID}
	}
	return CustomerResult{Success: true, Message: "Customer found", Customer: customer}
}

// CustomerUpdate carries replacement contact details. Empty fields keep
// their current value.
type CustomerUpdate struct {
	FirstName string
	Surname   string
	Address   string
	Phone     string
	Email     string
}

// UpdateCustomer applies the update to an existing customer and persists it.
func (c *CustomerController) UpdateCustomer(ctx context.Context, customerID string, update CustomerUpdate) CustomerResult {
	if !c.session.HasPermission(domain.PermCreateCustomer) {
		return CustomerResult{Message: "You don't have permission to update customers"}
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return CustomerResult{Message: "Customer ID is required"}
	}

	customer := c.bank.Customer(customerID)
	if customer == nil {
		return CustomerResult{Message: "Customer does not exist: " + customerID}
	}

	if v := strings.TrimSpace(update.FirstName); v != "" {
		if !namePattern.MatchString(v) {
			return CustomerResult{Message: "First name contains invalid characters"}
		}
		customer.FirstName = v
	}
	if v := strings.TrimSpace(update.Surname); v != "" {
		if !namePattern.MatchString(v) {
			return CustomerResult{Message: "Surname contains invalid characters"}
		}
		customer.Surname = v
	}
	if v := strings.TrimSpace(update.Address); v != "" {
		customer.Address = v
	}
	if v := strings.TrimSpace(update.Phone); v != "" {
		if !validPhone(v) {
			return CustomerResult{Message: "Invalid phone number format"}
		}
		customer.Phone = v
	}
	if v := strings.TrimSpace(update.Email); v != "" {
		if !emailPattern.MatchString(v) {
			return CustomerResult{Message: "Invalid email format"}
		}
		customer.Email = v
	}

	if err := c.customers.Update(ctx, customer); err != nil {
		c.logger.Error("customer update failed", "customer_id", customer.ID, "error", err)
		return CustomerResult{Message: "Failed to update customer"}
	}
	return CustomerResult{Success: true, Message: "Customer updated successfully", Customer: customer}
}

// DeleteCustomer removes a customer without accounts from the registry and
// the store. Identifiers of deleted customers are never reissued.
func (c *CustomerController) DeleteCustomer(ctx context.Context, customerID string) CustomerResult {
	if !c.session.HasPermission(domain.PermDeleteUser) {
		return CustomerResult{Message: "You don't have permission to delete customers"}
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return CustomerResult{Message: "Customer ID is required"}
	}

	if err := c.bank.RemoveCustomer(customerID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return CustomerResult{Message: "Customer not found"}
		case errors.Is(err, domain.ErrCustomerHasAccounts):
			return CustomerResult{Message: "Cannot delete customer with existing accounts"}
		default:
			return CustomerResult{Message: err.Error()}
		}
	}

	if err := c.customers.Delete(ctx, customerID); err != nil {
		c.logger.Error("customer delete failed", "customer_id", customerID, "error", err)
		return CustomerResult{Message: "Failed to delete customer"}
	}
	return CustomerResult{Success: true, Message: "Customer deleted successfully"}
}

// SearchCustomers finds customers whose name matches the term. An empty term
// returns everyone.
func (c *CustomerController) SearchCustomers(ctx context.Context, term string) ([]*domain.Customer, error) {
	if !c.session.HasPermission(domain.PermViewBalance) {
		return nil, fmt.Errorf("%w: you don't have permission to view customers", domain.ErrPermissionDenied)
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return c.customers.FindAll(ctx)
	}
	return c.customers.SearchByName(ctx, term)
}

// GetAllCustomers returns every registered customer.
func (c *CustomerController) GetAllCustomers() []*domain.Customer {
	if !c.session.HasPermission(domain.PermViewBalance) {
		return nil
	}
	return c.bank.AllCustomers()
}

// CustomerCount returns the number of registered customers.
func (c *CustomerController) CustomerCount() int {
	return c.bank.CustomerCount()
}

func validPhone(phone string) bool {
	digits := len(digitPattern.FindAllString(phone, -1))
	return digits >= 7 && digits <= 15
}
