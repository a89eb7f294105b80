// Package rate exposes the conversion-rate HTTP endpoints.
package rate

import (
	"github.com/amirasaad/bankledger/pkg/currency"
	ratesvc "github.com/amirasaad/bankledger/pkg/service/rate"
	"github.com/amirasaad/bankledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRateRequest registers a currency's conversion factor relative to the
// base currency.
type CreateRateRequest struct {
	Currency     string          `json:"currency" validate:"required,len=3,uppercase"`
	UnitsPerBase decimal.Decimal `json:"units_per_base" validate:"required"`
}

// Routes registers the rate endpoints.
func Routes(app *fiber.App, svc *ratesvc.Service) {
	app.Post("/rates", Create(svc))
	app.Get("/rates", List(svc))
	app.Get("/rates/:id", Get(svc))
}

// Create returns the handler registering a new rate entry.
func Create(svc *ratesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateRateRequest](c)
		if input == nil {
			return err
		}
		r, err := svc.Create(c.Context(), currency.Code(input.Currency), input.UnitsPerBase)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to create rate", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Rate created", r)
	}
}

// Get returns the handler fetching one rate by id, or by currency code via
// the ?currency query parameter.
func Get(svc *ratesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid rate id", err.Error())
		}
		r, err := svc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to fetch rate", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rate", r)
	}
}

// List returns the handler listing all rates, or one looked up by currency
// code when ?currency is given.
func List(svc *ratesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if code := c.Query("currency"); code != "" {
			r, err := svc.GetByCurrency(c.Context(), currency.Code(code))
			if err != nil {
				return common.DomainErrorJSON(c, "Failed to fetch rate", err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Rate", r)
		}
		rates, err := svc.List(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to list rates", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rates", rates)
	}
}
