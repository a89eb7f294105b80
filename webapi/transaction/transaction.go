// Package transaction exposes the ledger record HTTP endpoints.
package transaction

import (
	ledgersvc "github.com/amirasaad/bankledger/pkg/service/ledger"
	"github.com/amirasaad/bankledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the transaction endpoints.
func Routes(app *fiber.App, svc *ledgersvc.Service) {
	app.Get("/transactions/:id", Get(svc))
	app.Delete("/transactions/:id", Delete(svc))
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
	}
	return id, nil
}

// Get returns the handler fetching one ledger record.
func Get(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		tx, err := svc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to fetch transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction", fiber.Map{
			"id":        tx.ID,
			"kind":      tx.Kind,
			"amount":    tx.Amount,
			"rate_id":   tx.RateID,
			"timestamp": tx.Timestamp,
		})
	}
}

// Delete returns the handler removing one ledger record and its link rows.
func Delete(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return common.DomainErrorJSON(c, "Failed to delete transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil)
	}
}
