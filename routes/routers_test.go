package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"rewards/config"
	apperrors "rewards/errors"
	"rewards/services"
	"rewards/services/logger"
	"rewards/testutil"
	"rewards/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Code   int             `json:"code"`
	Mess   string          `json:"mess"`
	Reason string          `json:"reason"`
	Data   json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a apiClient) do(method, path string, body interface{}, headers map[string]string) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func newAPI(t *testing.T) apiClient {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Env:       "test",
		Admin:     config.AdminConfig{Username: "root", Password: "pw"},
		Economics: config.DefaultEconomics(),
		RateLimit: config.RateLimitConfig{Window: time.Minute, Requests: 100, AuthRequests: 100},
	}
	log := logger.Nop()
	tokens := services.NewTokenService("routes-test", time.Hour)

	router := gin.New()
	SetupRoutes(router, Dependencies{
		Config: cfg,
		Logger: log,
		Tokens: tokens,
		Auth: services.NewAuthService(services.AuthServiceOptions{
			DB: db, Logger: log, Tokens: tokens, BcryptCost: bcrypt.MinCost,
		}),
		Ledger:      services.NewLedgerService(services.LedgerServiceOptions{DB: db, Logger: log, Economics: cfg.Economics}),
		Withdrawals: services.NewWithdrawalService(services.WithdrawalServiceOptions{DB: db, Logger: log, Economics: cfg.Economics}),
		Admin:       services.NewAdminService(services.AdminServiceOptions{DB: db, Logger: log, Economics: cfg.Economics}),
		Inbox:       services.NewInboxService(db),
	})
	return apiClient{t: t, router: router}
}

func TestAdFlowOverHTTP(t *testing.T) {
	api := newAPI(t)

	status, env := api.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "hoa_tran",
		"email":    "hoa@example.com",
		"password": "secret123",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d (%s)", status, env.Mess)
	}
	var auth struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &auth); err != nil || auth.AccessToken == "" {
		t.Fatalf("register data = %s", env.Data)
	}
	bearer := map[string]string{"Authorization": "Bearer " + auth.AccessToken}

	status, env = api.do(http.MethodPost, "/api/v1/ads/credit", nil, bearer)
	if status != http.StatusOK {
		t.Fatalf("credit status = %d (%s)", status, env.Mess)
	}
	var credit struct {
		Earned          float64 `json:"earned"`
		Balance         float64 `json:"balance"`
		AdsWatchedToday int64   `json:"adsWatchedToday"`
	}
	if err := json.Unmarshal(env.Data, &credit); err != nil {
		t.Fatalf("credit data: %v", err)
	}
	if credit.Earned != 0.05 || credit.Balance != 0.05 || credit.AdsWatchedToday != 1 {
		t.Errorf("credit = %+v", credit)
	}

	status, env = api.do(http.MethodPost, "/api/v1/ads/credit", map[string]string{"adType": "banner"}, bearer)
	if status != http.StatusTooManyRequests || env.Reason != string(apperrors.ErrCodeCooldownNotElapsed) {
		t.Errorf("second credit = %d %s", status, env.Reason)
	}

	status, env = api.do(http.MethodPost, "/api/v1/withdrawals", map[string]string{"email": "hoa@paypal.test"}, bearer)
	if status != http.StatusBadRequest || env.Reason != string(apperrors.ErrCodeBelowMinimum) {
		t.Errorf("withdrawal = %d %s", status, env.Reason)
	}

	status, env = api.do(http.MethodGet, "/api/v1/me", nil, bearer)
	if status != http.StatusOK {
		t.Fatalf("me status = %d", status)
	}
}

func TestRequestValidationOverHTTP(t *testing.T) {
	api := newAPI(t)

	status, env := api.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "a b",
		"email":    "not-an-email",
		"password": "123",
	}, nil)
	if status != http.StatusBadRequest || env.Reason != string(apperrors.ErrCodeValidation) {
		t.Fatalf("register = %d %s", status, env.Reason)
	}

	status, env = api.do(http.MethodGet, "/api/v1/me", nil, nil)
	if status != http.StatusUnauthorized || env.Reason != string(apperrors.ErrCodeMissingToken) {
		t.Errorf("me without token = %d %s", status, env.Reason)
	}
}

func TestAdminRoutesRequireCredentials(t *testing.T) {
	api := newAPI(t)

	if status, _ := api.do(http.MethodGet, "/api/v1/admin/stats", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("stats without credentials = %d", status)
	}

	creds := map[string]string{"X-Admin-Username": "root", "X-Admin-Password": "pw"}
	status, env := api.do(http.MethodGet, "/api/v1/admin/stats", nil, creds)
	if status != http.StatusOK || env.Code != 1 {
		t.Fatalf("stats = %d %s", status, env.Mess)
	}

	status, env = api.do(http.MethodPut, "/api/v1/admin/withdrawals/999", map[string]string{"status": "completed"}, creds)
	if status != http.StatusNotFound || env.Reason != string(apperrors.ErrCodeWithdrawalNotFound) {
		t.Errorf("process unknown = %d %s", status, env.Reason)
	}
}
