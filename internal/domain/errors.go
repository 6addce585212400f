package domain

import "errors"

var (
	// ErrCustomerNotFound is returned when a customer identifier is not indexed.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAccountNotFound is returned when an account number is not indexed.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUserNotFound is returned when a user identifier is unknown.
	ErrUserNotFound = errors.New("user not found")

	// ErrPermissionDenied is returned when the session principal lacks the
	// permission an operation requires.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidAmount is returned for zero or negative deposit, withdrawal
	// or salary amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	// Balances never go negative; there is no overdraft.
	ErrInsufficientFunds = errors.New("insufficient balance for withdrawal")

	// ErrWithdrawalsNotAllowed is returned for any withdrawal from a savings
	// account, regardless of amount or balance.
	ErrWithdrawalsNotAllowed = errors.New("withdrawals are not permitted on savings accounts")

	// ErrCustomerRequired is returned when an account is constructed without
	// an owning customer.
	ErrCustomerRequired = errors.New("account cannot exist without a customer")

	// ErrEmploymentInfoRequired is returned when a cheque account is
	// constructed without a company name or company address.
	ErrEmploymentInfoRequired = errors.New("cheque account requires valid employment information")

	// ErrMinimumOpeningBalance is returned when an investment account is
	// opened below the minimum opening balance.
	ErrMinimumOpeningBalance = errors.New("investment account requires minimum opening balance of 500.00")

	// ErrSalaryNotSupported is returned when a salary credit is attempted on
	// a non-cheque account.
	ErrSalaryNotSupported = errors.New("salary credits are only supported on cheque accounts")

	// ErrCustomerHasAccounts is returned when deleting a customer that still
	// owns accounts.
	ErrCustomerHasAccounts = errors.New("cannot delete customer with existing accounts")

	// ErrDuplicateID is returned when loading an entity whose identifier is
	// already indexed.
	ErrDuplicateID = errors.New("identifier already registered")
)
