// Command seed prepares a database for first use: it applies the schema,
// creates a default admin user and optionally loads a small set of sample
// customers and accounts.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/shopspring/decimal"

	"github.com/okavango-bank/corebank/internal/config"
	"github.com/okavango-bank/corebank/internal/crypto"
	"github.com/okavango-bank/corebank/internal/domain"
	"github.com/okavango-bank/corebank/internal/logging"
	"github.com/okavango-bank/corebank/internal/store"
)

func main() {
	withSamples := flag.Bool("samples", false, "load sample customers and accounts")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging)

	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL must be set")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := store.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool.Pool); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("schema applied")

	users := store.NewUserRepository(pool.Pool)
	exists, err := users.Exists(ctx, "admin")
	if err != nil {
		logger.Error("failed to check admin user", "error", err)
		os.Exit(1)
	}
	if !exists {
		hash, err := crypto.HashPassword("admin123")
		if err != nil {
			logger.Error("failed to hash admin password", "error", err)
			os.Exit(1)
		}
		admin := domain.NewUser("admin", "Administrator", hash, domain.RoleAdmin, crypto.VerifyPassword)
		if err := users.Save(ctx, admin); err != nil {
			logger.Error("failed to create admin user", "error", err)
			os.Exit(1)
		}
		logger.Info("default admin created", "user_id", "admin")
		logger.Warn("change the default admin password before going anywhere near production")
	} else {
		logger.Info("admin user already present, skipping")
	}

	if !*withSamples {
		return
	}

	// Samples go through the registry so counters and linkage behave exactly
	// as they do in the running server.
	bank := domain.NewBank(cfg.Bank.Name, cfg.Bank.Code)
	if err := store.LoadBank(ctx, pool.Pool, bank); err != nil {
		logger.Error("failed to load bank state", "error", err)
		os.Exit(1)
	}
	if bank.CustomerCount() > 0 {
		logger.Info("customers already present, skipping samples", "customers", bank.CustomerCount())
		return
	}

	customers := store.NewCustomerRepository(pool.Pool)
	accounts := store.NewAccountRepository(pool.Pool)
	transactions := store.NewTransactionRepository(pool.Pool)
	txManager := store.NewTransactionManager(pool.Pool)

	samples := []struct {
		firstName, surname, address, phone, email string
	}{
		{"Neo", "Maun", "12 Delta Rd, Maun", "76543210", "neo.maun@example.com"},
		{"Lesego", "Phiri", "3 Hill St, Gaborone", "71234567", "lesego.phiri@example.com"},
		{"Anne-Marie", "O'Neill", "5 Riverside, Francistown", "79876543", "am.oneill@example.com"},
	}

	for i, s := range samples {
		customer := bank.RegisterCustomer(s.firstName, s.surname, s.address)
		customer.Phone = s.phone
		customer.Email = s.email

		var (
			account *domain.Account
			openErr error
		)
		switch i % 3 {
		case 0:
			account, openErr = bank.OpenSavingsAccount(customer.ID, decimal.RequireFromString("2500.00"), "Main")
		case 1:
			account, openErr = bank.OpenInvestmentAccount(customer.ID, decimal.RequireFromString("5000.00"), "Main")
		default:
			account, openErr = bank.OpenChequeAccount(customer.ID, decimal.RequireFromString("0.00"), "Main", "Delta Safaris", "1 Airfield Rd, Maun")
		}
		if openErr != nil {
			logger.Error("failed to open sample account", "error", openErr)
			os.Exit(1)
		}
		entry, err := account.Deposit(decimal.RequireFromString("150.00"))
		if err != nil {
			logger.Error("failed to credit sample deposit", "error", err)
			os.Exit(1)
		}

		// Each sample commits customer, account and opening activity as a
		// unit so a failed run leaves no partial rows behind.
		err = txManager.WithTransaction(ctx, func(ctx context.Context) error {
			if err := customers.Save(ctx, customer); err != nil {
				return err
			}
			if err := accounts.Save(ctx, account); err != nil {
				return err
			}
			if err := transactions.Save(ctx, entry); err != nil {
				return err
			}
			return accounts.UpdateBalance(ctx, account)
		})
		if err != nil {
			logger.Error("failed to seed sample customer", "error", err)
			os.Exit(1)
		}

		logger.Info("sample customer seeded",
			"customer_id", customer.ID,
			"account", account.Number,
			"type", account.Type)
	}
}
