// Package webapi assembles the Fiber application over the ledger core's
// services. The HTTP surface is a thin caller of the coordinator: it binds
// and validates requests, invokes one service operation, and maps domain
// errors onto problem-details responses.
package webapi

import (
	"github.com/amirasaad/bankledger/pkg/config"
	accountsvc "github.com/amirasaad/bankledger/pkg/service/account"
	ledgersvc "github.com/amirasaad/bankledger/pkg/service/ledger"
	ratesvc "github.com/amirasaad/bankledger/pkg/service/rate"
	accountapi "github.com/amirasaad/bankledger/webapi/account"
	"github.com/amirasaad/bankledger/webapi/common"
	rateapi "github.com/amirasaad/bankledger/webapi/rate"
	transactionapi "github.com/amirasaad/bankledger/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// New builds the Fiber app and registers all routes.
func New(
	cfg config.HTTP,
	accountSvc *accountsvc.Service,
	ledgerSvc *ledgersvc.Service,
	rateSvc *ratesvc.Service,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bankledger",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return common.ErrorResponseJSON(c, code, "Request failed", err.Error())
		},
	})

	app.Use(requestid.New())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "bankledger", nil)
	})

	accountapi.Routes(app, accountSvc, ledgerSvc)
	rateapi.Routes(app, rateSvc)
	transactionapi.Routes(app, ledgerSvc)

	return app
}
