package main

import (
	"log/slog"
	"os"

	"github.com/amirasaad/bankledger/infra"
	infrarepo "github.com/amirasaad/bankledger/infra/repository"
	"github.com/amirasaad/bankledger/pkg/config"
	accountsvc "github.com/amirasaad/bankledger/pkg/service/account"
	ledgersvc "github.com/amirasaad/bankledger/pkg/service/ledger"
	ratesvc "github.com/amirasaad/bankledger/pkg/service/rate"
	"github.com/amirasaad/bankledger/webapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return err
	}
	if err := infra.AutoMigrate(db); err != nil {
		return err
	}

	uow := infrarepo.NewUoW(db)
	accountSvc := accountsvc.New(uow, cfg.Ledger, logger)
	ledgerSvc := ledgersvc.New(uow, logger)
	rateSvc := ratesvc.New(uow, logger)

	app := webapi.New(cfg.HTTP, accountSvc, ledgerSvc, rateSvc)
	logger.Info("listening", "addr", cfg.HTTP.Addr, "env", cfg.Env)
	return app.Listen(cfg.HTTP.Addr)
}
