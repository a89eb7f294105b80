package account_test

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
	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type AccountApiTestSuite struct {
	suite.Suite
	app        *fiber.App
	rateID     uuid.UUID
	nextNumber int64
}

func (s *AccountApiTestSuite) SetupTest() {
	uow := fixtures.NewUoW(fixtures.NewStore())
	logger := slog.Default()
	accounts := accountsvc.New(uow, config.Ledger{MaxConflictRetries: 3}, logger)
	ledger := ledgersvc.New(uow, logger)
	rates := ratesvc.New(uow, logger)
	s.app = webapi.New(config.HTTP{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second}, accounts, ledger, rates)

	r, err := rates.Create(s.T().Context(), "USD", decimal.NewFromInt(1))
	s.Require().NoError(err)
	s.rateID = r.ID
	s.nextNumber = 1000
}

func (s *AccountApiTestSuite) makeRequest(method, path, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

func (s *AccountApiTestSuite) decode(resp *http.Response) common.Response {
	defer resp.Body.Close() //nolint:errcheck
	var out common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// openAccount creates an account over the API and returns its id.
func (s *AccountApiTestSuite) openAccount(body string) string {
	resp := s.makeRequest("POST", "/accounts", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	data := s.decode(resp).Data.(map[string]any)
	return data["id"].(string)
}

func (s *AccountApiTestSuite) openSavings(balance, interestRate string) string {
	s.nextNumber++
	return s.openAccount(fmt.Sprintf(
		`{"kind":"savings","number":%d,"client_id":%q,"rate_id":%q,"balance":%q,"interest_rate":%q}`,
		s.nextNumber, uuid.NewString(), s.rateID, balance, interestRate,
	))
}

func (s *AccountApiTestSuite) openChecking(balance, overdraft string) string {
	s.nextNumber++
	return s.openAccount(fmt.Sprintf(
		`{"kind":"checking","number":%d,"client_id":%q,"rate_id":%q,"balance":%q,"overdraft_limit":%q}`,
		s.nextNumber, uuid.NewString(), s.rateID, balance, overdraft,
	))
}

func (s *AccountApiTestSuite) TestServerTimeouts() {
	s.Equal(10*time.Second, s.app.Config().ReadTimeout)
	s.Equal(10*time.Second, s.app.Config().WriteTimeout)
}

func (s *AccountApiTestSuite) TestOpenVariants() {
	clientID := uuid.NewString()
	testCases := []struct {
		desc       string
		body       string
		wantStatus int
	}{
		{
			desc: "savings created",
			body: fmt.Sprintf(`{"kind":"savings","number":1,"client_id":%q,"rate_id":%q,"balance":"1000","interest_rate":"5"}`,
				clientID, s.rateID),
			wantStatus: fiber.StatusCreated,
		},
		{
			desc: "duplicate number conflicts",
			body: fmt.Sprintf(`{"kind":"savings","number":1,"client_id":%q,"rate_id":%q}`,
				clientID, s.rateID),
			wantStatus: fiber.StatusConflict,
		},
		{
			desc: "unknown kind",
			body: fmt.Sprintf(`{"kind":"premium","number":2,"client_id":%q,"rate_id":%q}`,
				clientID, s.rateID),
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc: "unknown rate",
			body: fmt.Sprintf(`{"kind":"savings","number":3,"client_id":%q,"rate_id":%q}`,
				clientID, uuid.NewString()),
			wantStatus: fiber.StatusNotFound,
		},
		{
			desc:       "malformed body",
			body:       `{"kind":`,
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.makeRequest("POST", "/accounts", tc.body)
			defer resp.Body.Close() //nolint:errcheck
			s.Equal(tc.wantStatus, resp.StatusCode)
		})
	}
}

func (s *AccountApiTestSuite) TestGetAndBalance() {
	id := s.openSavings("1000", "5")

	resp := s.makeRequest("GET", "/accounts/"+id, "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data := s.decode(resp).Data.(map[string]any)
	s.Equal("1000", data["balance"])
	s.Equal("savings", data["kind"])
	s.Equal("5", data["interest_rate"])
	s.NotContains(data, "overdraft_limit")

	resp = s.makeRequest("GET", "/accounts/"+id+"/balance", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data = s.decode(resp).Data.(map[string]any)
	s.Equal("1000", data["balance"])

	resp = s.makeRequest("GET", "/accounts/"+uuid.NewString(), "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	resp = s.makeRequest("GET", "/accounts/not-a-uuid", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AccountApiTestSuite) TestListByKind() {
	s.openSavings("100", "5")
	s.openChecking("100", "400")

	resp := s.makeRequest("GET", "/accounts?kind=checking", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data := s.decode(resp).Data.([]any)
	s.Len(data, 1)

	resp = s.makeRequest("GET", "/accounts", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Len(s.decode(resp).Data.([]any), 2)

	resp = s.makeRequest("GET", "/accounts?kind=premium", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AccountApiTestSuite) TestDepositAndWithdraw() {
	id := s.openChecking("1000", "400")

	resp := s.makeRequest("POST", "/accounts/"+id+"/deposit", `{"amount":"250"}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data := s.decode(resp).Data.(map[string]any)
	account := data["account"].(map[string]any)
	s.Equal("1250", account["balance"])
	s.NotEmpty(data["transaction_id"])

	resp = s.makeRequest("POST", "/accounts/"+id+"/withdraw", `{"amount":"1650"}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data = s.decode(resp).Data.(map[string]any)
	account = data["account"].(map[string]any)
	s.Equal("-400", account["balance"])

	s.Run("insufficient funds", func() {
		resp := s.makeRequest("POST", "/accounts/"+id+"/withdraw", `{"amount":"1"}`)
		defer resp.Body.Close() //nolint:errcheck
		s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	s.Run("missing amount", func() {
		resp := s.makeRequest("POST", "/accounts/"+id+"/deposit", `{}`)
		defer resp.Body.Close() //nolint:errcheck
		s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	})
}

func (s *AccountApiTestSuite) TestTransfer() {
	src := s.openSavings("1000", "0")
	dst := s.openSavings("1000", "0")

	resp := s.makeRequest("POST", "/accounts/"+src+"/transfer",
		fmt.Sprintf(`{"target_id":%q,"amount":"10"}`, dst))
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data := s.decode(resp).Data.(map[string]any)
	s.Equal("990", data["source"].(map[string]any)["balance"])
	s.Equal("1010", data["target"].(map[string]any)["balance"])

	s.Run("transfer to self", func() {
		resp := s.makeRequest("POST", "/accounts/"+src+"/transfer",
			fmt.Sprintf(`{"target_id":%q,"amount":"10"}`, src))
		defer resp.Body.Close() //nolint:errcheck
		s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	})
}

func (s *AccountApiTestSuite) TestInterest() {
	id := s.openSavings("1000", "5")

	resp := s.makeRequest("GET", "/accounts/"+id+"/interest?periods=2", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data := s.decode(resp).Data.(map[string]any)
	s.Equal("102.5", data["interest"])

	resp = s.makeRequest("POST", "/accounts/"+id+"/interest", `{"periods":3}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data = s.decode(resp).Data.(map[string]any)
	s.Equal("1157.625", data["balance"])

	s.Run("checking rejected", func() {
		id := s.openChecking("1000", "400")
		resp := s.makeRequest("POST", "/accounts/"+id+"/interest", `{"periods":1}`)
		defer resp.Body.Close() //nolint:errcheck
		s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func (s *AccountApiTestSuite) TestTransactions() {
	src := s.openSavings("1000", "0")
	dst := s.openSavings("1000", "0")

	resp := s.makeRequest("POST", "/accounts/"+src+"/deposit", `{"amount":"100"}`)
	defer resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	resp = s.makeRequest("POST", "/accounts/"+src+"/transfer",
		fmt.Sprintf(`{"target_id":%q,"amount":"10"}`, dst))
	defer resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.makeRequest("GET", "/accounts/"+src+"/transactions", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Len(s.decode(resp).Data.([]any), 2)

	resp = s.makeRequest("GET", "/accounts/"+dst+"/transactions?scope=destination", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	details := s.decode(resp).Data.([]any)
	s.Require().Len(details, 1)
	d := details[0].(map[string]any)
	s.Equal("transfer", d["kind"])
	s.Equal(src, d["account_id"])
	s.Equal(dst, d["receiver_id"])

	s.Run("invalid scope", func() {
		resp := s.makeRequest("GET", "/accounts/"+src+"/transactions?scope=bogus", "")
		defer resp.Body.Close() //nolint:errcheck
		s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestAccountApiTestSuite(t *testing.T) {
	suite.Run(t, new(AccountApiTestSuite))
}
