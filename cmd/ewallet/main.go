package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ewallet-demo/ewallet/internal/application/services"
	"github.com/ewallet-demo/ewallet/internal/config"
	"github.com/ewallet-demo/ewallet/internal/infrastructure/db/sqlite"
	"github.com/ewallet-demo/ewallet/internal/session"
	"github.com/ewallet-demo/ewallet/internal/tui"
	"github.com/ewallet-demo/ewallet/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmcontext "github.com/avito-tech/go-transaction-manager/trm/v2/context"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
)

// Version indicates the current version of the application.
var Version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Load application configurations.
	cfg := config.MustLoad()

	// Create root logger tagged with the app version.
	logger := logger.New(cfg).With(ctx, "version", Version)

	db, err := sqlite.Connect(cfg, logger)
	if err != nil {
		return err
	}

	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(err)
		}
		_ = logger.Sync()
	}()

	if err = sqlite.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate the database: %w", err)
	}

	// Create default transaction manager for database/sql package.
	trManager := manager.Must(
		trmsql.NewDefaultFactory(db),
		manager.WithCtxManager(trmcontext.DefaultManager),
	)

	accountRepo, err := sqlite.NewAccountRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init account repository: %w", err)
	}

	transactionRepo, err := sqlite.NewTransactionRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init transaction repository: %w", err)
	}

	// One session per process, owned here and passed by reference.
	sess := session.New()

	ledger, err := services.NewLedgerService(accountRepo, transactionRepo, sess, trManager, logger)
	if err != nil {
		return fmt.Errorf("failed to init ledger service: %w", err)
	}

	app, err := tui.New(ledger, cfg, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("failed to init terminal UI: %w", err)
	}

	logger.Infof("E-Wallet %s starting with database %q", Version, cfg.Database.Path)

	if err = app.Run(ctx); err != nil {
		logger.Errorf("interactive loop aborted: %s", err)
		return err
	}

	return nil
}
