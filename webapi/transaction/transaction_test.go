package transaction_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/bankledger/internal/fixtures"
	"github.com/amirasaad/bankledger/pkg/config"
	accountsvc "github.com/amirasaad/bankledger/pkg/service/account"
	ledgersvc "github.com/amirasaad/bankledger/pkg/service/ledger"
	ratesvc "github.com/amirasaad/bankledger/pkg/service/rate"
	"github.com/amirasaad/bankledger/webapi"
	"github.com/amirasaad/bankledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newApp(t *testing.T) (*fiber.App, uuid.UUID) {
	t.Helper()
	uow := fixtures.NewUoW(fixtures.NewStore())
	logger := slog.Default()
	rates := ratesvc.New(uow, logger)
	app := webapi.New(
		config.HTTP{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		accountsvc.New(uow, config.Ledger{MaxConflictRetries: 3}, logger),
		ledgersvc.New(uow, logger),
		rates,
	)
	r, err := rates.Create(t.Context(), "USD", decimal.NewFromInt(1))
	require.NoError(t, err)
	return app, r.ID
}

func makeRequest(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) common.Response {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var out common.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// depositTransaction opens an account and runs one deposit, returning the
// account id and the resulting transaction id.
func depositTransaction(t *testing.T, app *fiber.App, rateID uuid.UUID) (string, string) {
	t.Helper()
	resp := makeRequest(t, app, "POST", "/accounts", fmt.Sprintf(
		`{"kind":"savings","number":1,"client_id":%q,"rate_id":%q,"balance":"1000"}`,
		uuid.NewString(), rateID,
	))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	accountID := decode(t, resp).Data.(map[string]any)["id"].(string)

	resp = makeRequest(t, app, "POST", "/accounts/"+accountID+"/deposit", `{"amount":"100"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	txID := decode(t, resp).Data.(map[string]any)["transaction_id"].(string)
	return accountID, txID
}

func TestTransactionEndpoints(t *testing.T) {
	app, rateID := newApp(t)
	accountID, txID := depositTransaction(t, app, rateID)

	t.Run("get by id", func(t *testing.T) {
		resp := makeRequest(t, app, "GET", "/transactions/"+txID, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		got := decode(t, resp).Data.(map[string]any)
		assert.Equal(t, txID, got["id"])
		assert.Equal(t, "deposit", got["kind"])
		assert.Equal(t, "100", got["amount"])
	})

	t.Run("delete removes the record and its links", func(t *testing.T) {
		resp := makeRequest(t, app, "DELETE", "/transactions/"+txID, "")
		defer resp.Body.Close() //nolint:errcheck
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = makeRequest(t, app, "GET", "/transactions/"+txID, "")
		defer resp.Body.Close() //nolint:errcheck
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		resp = makeRequest(t, app, "GET", "/accounts/"+accountID+"/transactions", "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, decode(t, resp).Data)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := makeRequest(t, app, "DELETE", "/transactions/"+uuid.NewString(), "")
		defer resp.Body.Close() //nolint:errcheck
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp := makeRequest(t, app, "GET", "/transactions/not-a-uuid", "")
		defer resp.Body.Close() //nolint:errcheck
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
