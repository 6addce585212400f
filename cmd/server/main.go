package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okavango-bank/corebank/internal/auth"
	"github.com/okavango-bank/corebank/internal/config"
	"github.com/okavango-bank/corebank/internal/controller"
	"github.com/okavango-bank/corebank/internal/domain"
	"github.com/okavango-bank/corebank/internal/events"
	"github.com/okavango-bank/corebank/internal/logging"
	"github.com/okavango-bank/corebank/internal/server"
	"github.com/okavango-bank/corebank/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging)

	ctx := context.Background()
	bank := domain.NewBank(cfg.Bank.Name, cfg.Bank.Code)

	var (
		customers    domain.CustomerRepository
		accounts     domain.AccountRepository
		transactions domain.TransactionRepository
		users        domain.UserRepository
	)

	if cfg.Database.URL != "" {
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
		if err := store.LoadBank(ctx, pool.Pool, bank); err != nil {
			logger.Error("failed to load bank state", "error", err)
			os.Exit(1)
		}
		logger.Info("bank state loaded",
			"customers", bank.CustomerCount(),
			"accounts", bank.AccountCount())

		customers = store.NewCustomerRepository(pool.Pool)
		accounts = store.NewAccountRepository(pool.Pool)
		transactions = store.NewTransactionRepository(pool.Pool)
		users = store.NewUserRepository(pool.Pool)
	} else {
		logger.Warn("DATABASE_URL not set, running on the in-memory store")
		mem := store.NewMemory()
		customers = mem.Customers()
		accounts = mem.Accounts()
		transactions = mem.Transactions()
		users = mem.Users()
	}

	var publisher domain.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer rabbit.Close()
		publisher = rabbit
		logger.Info("event publisher connected", "exchange", cfg.RabbitMQ.Exchange)
	} else {
		logger.Warn("RABBITMQ_URL not set, ledger events disabled")
	}

	session := controller.NewSession()
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	loginCtrl := controller.NewLoginController(users, session, logger)
	customerCtrl := controller.NewCustomerController(bank, customers, session, logger)
	accountCtrl := controller.NewAccountController(bank, accounts, transactions, session, publisher, logger)

	handlers := server.NewHandlers(loginCtrl, customerCtrl, accountCtrl, tokens, logger)
	router := server.NewRouter(logger, handlers, tokens, session)
	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
