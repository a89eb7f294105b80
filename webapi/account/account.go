// Package account exposes the account and ledger-history HTTP endpoints.
package account

import (
	domainaccount "github.com/amirasaad/bankledger/pkg/domain/account"
	domainledger "github.com/amirasaad/bankledger/pkg/domain/ledger"
	accountsvc "github.com/amirasaad/bankledger/pkg/service/account"
	ledgersvc "github.com/amirasaad/bankledger/pkg/service/ledger"
	"github.com/amirasaad/bankledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the account endpoints:
//
//   - POST   /accounts                           : open an account
//   - GET    /accounts                           : list accounts (?kind=savings|checking)
//   - GET    /accounts/:id                       : fetch one account
//   - DELETE /accounts/:id                       : delete an account and its link rows
//   - GET    /accounts/:id/balance               : fetch the balance only
//   - POST   /accounts/:id/deposit               : deposit funds
//   - POST   /accounts/:id/withdraw              : withdraw funds
//   - POST   /accounts/:id/transfer              : transfer funds to another account
//   - POST   /accounts/:id/interest              : apply compound interest (savings)
//   - GET    /accounts/:id/interest              : simulate compound interest (savings)
//   - GET    /accounts/:id/transactions          : ledger history (?scope=all|source|destination)
func Routes(app *fiber.App, svc *accountsvc.Service, ledgerSvc *ledgersvc.Service) {
	app.Post("/accounts", Open(svc))
	app.Get("/accounts", List(svc))
	app.Get("/accounts/:id", Get(svc))
	app.Delete("/accounts/:id", Delete(svc))
	app.Get("/accounts/:id/balance", Balance(svc))
	app.Post("/accounts/:id/deposit", Deposit(svc))
	app.Post("/accounts/:id/withdraw", Withdraw(svc))
	app.Post("/accounts/:id/transfer", Transfer(svc))
	app.Post("/accounts/:id/interest", AddInterest(svc))
	app.Get("/accounts/:id/interest", CalculateInterest(svc))
	app.Get("/accounts/:id/transactions", Transactions(ledgerSvc))
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
	}
	return id, nil
}

func parseOptionalRateID(c *fiber.Ctx, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid rate id", err.Error())
	}
	return id, nil
}

// Open returns the handler creating a new account of either variant.
func Open(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OpenAccountRequest](c)
		if input == nil {
			return err
		}
		clientID, err := uuid.Parse(input.ClientID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid client id", err.Error())
		}
		rateID, err := uuid.Parse(input.RateID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid rate id", err.Error())
		}
		a, err := svc.Open(c.Context(), accountsvc.OpenParams{
			Kind:           domainaccount.Kind(input.Kind),
			Number:         input.Number,
			ClientID:       clientID,
			RateID:         rateID,
			Balance:        input.Balance,
			InterestRate:   input.InterestRate,
			OverdraftLimit: input.OverdraftLimit,
		})
		if err != nil {
			log.Errorf("failed to open account: %v", err)
			return common.DomainErrorJSON(c, "Failed to open account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account opened", ToResponse(a))
	}
}

// Get returns the handler fetching one account.
func Get(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		a, err := svc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to fetch account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account", ToResponse(a))
	}
}

// List returns the handler listing accounts, optionally filtered by variant kind.
func List(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			accounts []*domainaccount.Account
			err      error
		)
		switch kind := c.Query("kind"); kind {
		case "":
			accounts, err = svc.List(c.Context())
		case string(domainaccount.KindSavings), string(domainaccount.KindChecking):
			accounts, err = svc.ListByKind(c.Context(), domainaccount.Kind(kind))
		default:
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid kind", kind)
		}
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", ToResponses(accounts))
	}
}

// Delete returns the handler removing an account and its link rows.
func Delete(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return common.DomainErrorJSON(c, "Failed to delete account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deleted", nil)
	}
}

// Balance returns the handler fetching only the account balance.
func Balance(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		a, err := svc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to fetch balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance", fiber.Map{
			"account_id": a.ID,
			"balance":    a.Balance,
		})
	}
}

// Deposit returns the handler crediting an account.
func Deposit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		rateID, err := parseOptionalRateID(c, input.RateID)
		if err != nil {
			return err
		}
		a, tx, err := svc.Deposit(c.Context(), id, input.Amount, rateID)
		if err != nil {
			log.Errorf("deposit failed for account %s: %v", id, err)
			return common.DomainErrorJSON(c, "Deposit failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", fiber.Map{
			"account":        ToResponse(a),
			"transaction_id": tx.ID,
		})
	}
}

// Withdraw returns the handler debiting an account under its variant rule.
func Withdraw(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		rateID, err := parseOptionalRateID(c, input.RateID)
		if err != nil {
			return err
		}
		a, tx, err := svc.Withdraw(c.Context(), id, input.Amount, rateID)
		if err != nil {
			log.Errorf("withdraw failed for account %s: %v", id, err)
			return common.DomainErrorJSON(c, "Withdraw failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdraw successful", fiber.Map{
			"account":        ToResponse(a),
			"transaction_id": tx.ID,
		})
	}
}

// Transfer returns the handler moving funds to another account.
func Transfer(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		targetID, err := uuid.Parse(input.TargetID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid target id", err.Error())
		}
		rateID, err := parseOptionalRateID(c, input.RateID)
		if err != nil {
			return err
		}
		source, target, tx, err := svc.Transfer(c.Context(), id, targetID, input.Amount, rateID)
		if err != nil {
			log.Errorf("transfer failed from %s to %s: %v", id, targetID, err)
			return common.DomainErrorJSON(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", fiber.Map{
			"source":         ToResponse(source),
			"target":         ToResponse(target),
			"transaction_id": tx.ID,
		})
	}
}

// AddInterest returns the handler compounding interest on a savings account.
func AddInterest(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[InterestRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.AddInterest(c.Context(), id, input.Periods)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to add interest", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Interest added", ToResponse(a))
	}
}

// CalculateInterest returns the handler simulating interest without mutating state.
func CalculateInterest(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		periods := c.QueryInt("periods", 1)
		if periods <= 0 {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid periods", c.Query("periods"))
		}
		interest, err := svc.CalculateInterest(c.Context(), id, periods)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to calculate interest", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Projected interest", fiber.Map{
			"account_id": id,
			"periods":    periods,
			"interest":   interest,
		})
	}
}

// Transactions returns the handler listing the account's ledger history.
func Transactions(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		scope, ok := domainledger.ParseScope(c.Query("scope"))
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid scope", c.Query("scope"))
		}
		details, err := ledgerSvc.List(c.Context(), id, scope)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", details)
	}
}
