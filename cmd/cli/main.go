// Command cli is a small operational tool for poking a bankledger database:
// seeding rates, opening accounts and inspecting balances and history without
// going through the HTTP surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/amirasaad/bankledger/infra"
	infrarepo "github.com/amirasaad/bankledger/infra/repository"
	"github.com/amirasaad/bankledger/pkg/config"
	"github.com/amirasaad/bankledger/pkg/currency"
	domainaccount "github.com/amirasaad/bankledger/pkg/domain/account"
	domainledger "github.com/amirasaad/bankledger/pkg/domain/ledger"
	accountsvc "github.com/amirasaad/bankledger/pkg/service/account"
	ledgersvc "github.com/amirasaad/bankledger/pkg/service/ledger"
	ratesvc "github.com/amirasaad/bankledger/pkg/service/rate"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.Load(".env")
	if err != nil {
		fail("load config: %v", err)
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		fail("connect: %v", err)
	}
	uow := infrarepo.NewUoW(db)
	accounts := accountsvc.New(uow, cfg.Ledger, logger)
	ledger := ledgersvc.New(uow, logger)
	rates := ratesvc.New(uow, logger)

	ctx := context.Background()
	switch cmd := os.Args[1]; cmd {
	case "open":
		if len(os.Args) < 5 {
			fail("usage: cli open <savings|checking> <number> <rate-id> [balance]")
		}
		number, err := strconv.ParseInt(os.Args[3], 10, 64)
		if err != nil {
			fail("invalid account number: %v", err)
		}
		rateID, err := uuid.Parse(os.Args[4])
		if err != nil {
			fail("invalid rate id: %v", err)
		}
		balance := decimal.Zero
		if len(os.Args) > 5 {
			if balance, err = decimal.NewFromString(os.Args[5]); err != nil {
				fail("invalid balance: %v", err)
			}
		}
		a, err := accounts.Open(ctx, accountsvc.OpenParams{
			Kind:     domainaccount.Kind(os.Args[2]),
			Number:   number,
			ClientID: uuid.New(),
			RateID:   rateID,
			Balance:  balance,
		})
		if err != nil {
			fail("open: %v", err)
		}
		color.Green("account %d opened: %s", a.Number, a.ID)
	case "seed-rate":
		if len(os.Args) < 4 {
			fail("usage: cli seed-rate <currency> <units-per-base>")
		}
		factor, err := decimal.NewFromString(os.Args[3])
		if err != nil {
			fail("invalid rate: %v", err)
		}
		r, err := rates.Create(ctx, currency.Code(os.Args[2]), factor)
		if err != nil {
			fail("seed rate: %v", err)
		}
		color.Green("rate %s created: %s (%s per base)", r.ID, r.Currency, r.UnitsPerBase)
	case "balance":
		a, err := accounts.Get(ctx, mustID(2))
		if err != nil {
			fail("balance: %v", err)
		}
		color.Cyan("account %d (%s)", a.Number, a.Kind)
		color.Green("balance: %s", a.Balance)
	case "deposit", "withdraw":
		if len(os.Args) < 4 {
			fail("usage: cli %s <account-id> <amount>", cmd)
		}
		amount, err := decimal.NewFromString(os.Args[3])
		if err != nil {
			fail("invalid amount: %v", err)
		}
		op := accounts.Deposit
		if cmd == "withdraw" {
			op = accounts.Withdraw
		}
		a, tx, err := op(ctx, mustID(2), amount, uuid.Nil)
		if err != nil {
			fail("%s: %v", cmd, err)
		}
		color.Green("%s %s recorded as %s, balance now %s", cmd, amount, tx.ID, a.Balance)
	case "history":
		details, err := ledger.List(ctx, mustID(2), domainledger.ScopeAll)
		if err != nil {
			fail("history: %v", err)
		}
		for _, d := range details {
			line := fmt.Sprintf("%s  %-8s  %s %s", d.Timestamp.Format("2006-01-02 15:04:05"), d.Kind, d.Amount, d.Currency)
			if d.ReceiverID != nil {
				line += fmt.Sprintf("  -> %s", *d.ReceiverID)
			}
			if d.Kind == domainledger.KindDeposit {
				color.Green("%s", line)
			} else {
				color.Yellow("%s", line)
			}
		}
	default:
		usage()
	}
}

func mustID(arg int) uuid.UUID {
	if len(os.Args) <= arg {
		fail("missing account id")
	}
	id, err := uuid.Parse(os.Args[arg])
	if err != nil {
		fail("invalid account id: %v", err)
	}
	return id
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  open <savings|checking> <number> <rate-id> [balance]")
	fmt.Println("  seed-rate <currency> <units-per-base>")
	fmt.Println("  balance <account-id>")
	fmt.Println("  deposit <account-id> <amount>")
	fmt.Println("  withdraw <account-id> <amount>")
	fmt.Println("  history <account-id>")
}

func fail(format string, args ...any) {
	color.Red(format, args...)
	os.Exit(1)
}
