package common_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/amirasaad/bankledger/pkg/domain/ledger"
	"github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/amirasaad/bankledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := map[error]int{
		account.ErrAccountNotFound:             fiber.StatusNotFound,
		rate.ErrRateNotFound:                   fiber.StatusNotFound,
		ledger.ErrTransactionNotFound:          fiber.StatusNotFound,
		account.ErrAmountNotPositive:           fiber.StatusBadRequest,
		account.ErrCannotTransferToSameAccount: fiber.StatusBadRequest,
		rate.ErrInvalidCurrencyCode:            fiber.StatusBadRequest,
		account.ErrInsufficientFunds:           fiber.StatusUnprocessableEntity,
		account.ErrAccountTypeMismatch:         fiber.StatusUnprocessableEntity,
		account.ErrDuplicateAccountNumber:      fiber.StatusConflict,
		rate.ErrDuplicateCurrency:              fiber.StatusConflict,
		account.ErrConcurrencyConflict:         fiber.StatusConflict,
		errors.New("anything else"):            fiber.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, common.ErrorToStatusCode(err), err.Error())
	}

	t.Run("wrapped errors still map", func(t *testing.T) {
		wrapped := fmt.Errorf("withdraw: %w", account.ErrInsufficientFunds)
		assert.Equal(t, fiber.StatusUnprocessableEntity, common.ErrorToStatusCode(wrapped))
	})
}
