package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bolao/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type stubPurchaseService struct {
	result *models.PurchaseResult
	err    error
}

func (s *stubPurchaseService) Purchase(ctx context.Context, userID, contestID string, quotaCount int64, chosenNumbers []int32) (*models.PurchaseResult, error) {
	return s.result, s.err
}

type stubReconciliationService struct {
	result *models.VerifyResult
	err    error
}

func (s *stubReconciliationService) Verify(ctx context.Context, sessionID string) (*models.VerifyResult, error) {
	return s.result, s.err
}

func (s *stubReconciliationService) CancelPayment(ctx context.Context, paymentID string) error {
	return s.err
}

type stubDistributionService struct {
	result *models.Distribution
	err    error
}

func (s *stubDistributionService) GetDistribution(ctx context.Context, contestID string) (*models.Distribution, error) {
	return s.result, s.err
}

type stubAdminService struct {
	contest       *models.Contest
	participation *models.Participation
	err           error
}

func (s *stubAdminService) GrantQuotas(ctx context.Context, contestID, userID string, quotaCount int64, chosenNumbers []int32) (*models.Participation, error) {
	return s.participation, s.err
}

func (s *stubAdminService) GetConfig(ctx context.Context) (*models.AdminConfig, error) {
	return &models.AdminConfig{CommissionPercent: 10}, s.err
}

func (s *stubAdminService) UpdateConfig(ctx context.Context, config *models.AdminConfig) error {
	return s.err
}

func (s *stubAdminService) CreateContest(ctx context.Context, contest *models.Contest) error {
	return s.err
}

func (s *stubAdminService) ListContests(ctx context.Context) ([]*models.Contest, error) {
	if s.contest == nil {
		return nil, s.err
	}
	return []*models.Contest{s.contest}, s.err
}

func (s *stubAdminService) GetContest(ctx context.Context, contestID string) (*models.Contest, error) {
	if s.contest == nil {
		return nil, s.err
	}
	return s.contest, s.err
}

func (s *stubAdminService) UpdateContestStatus(ctx context.Context, contestID string, status models.ContestStatus, drawnNumbers []int32) error {
	return s.err
}

func (s *stubAdminService) ListPayments(ctx context.Context, contestID string) ([]*models.Payment, error) {
	return nil, s.err
}

func (s *stubAdminService) ListParticipants(ctx context.Context, contestID string) ([]*models.Participation, error) {
	return nil, s.err
}

func (s *stubAdminService) UpdateParticipation(ctx context.Context, participation *models.Participation) error {
	return s.err
}

func (s *stubAdminService) DeleteParticipation(ctx context.Context, participationID string) error {
	return s.err
}

type routerOptions struct {
	purchase       *stubPurchaseService
	reconciliation *stubReconciliationService
	distribution   *stubDistributionService
	admin          *stubAdminService
}

func newTestRouter(opts routerOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if opts.purchase == nil {
		opts.purchase = &stubPurchaseService{}
	}
	if opts.reconciliation == nil {
		opts.reconciliation = &stubReconciliationService{}
	}
	if opts.distribution == nil {
		opts.distribution = &stubDistributionService{}
	}
	if opts.admin == nil {
		opts.admin = &stubAdminService{}
	}
	return NewRouter(NewHandler(opts.purchase, opts.reconciliation, opts.distribution, opts.admin))
}

func doRequest(router *gin.Engine, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerUserID, "alice")
	if role != "" {
		req.Header.Set(headerUserRole, role)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(routerOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/contests", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestRouter(routerOptions{})

	w := doRequest(router, http.MethodGet, "/api/admin/config", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/api/admin/config", "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPurchaseEndpoint(t *testing.T) {
	router := newTestRouter(routerOptions{
		purchase: &stubPurchaseService{
			result: &models.PurchaseResult{
				PaymentID:   "pay-1",
				CheckoutURL: "https://checkout.example/cs_1",
			},
		},
	})

	w := doRequest(router, http.MethodPost, "/api/purchase", "", map[string]interface{}{
		"contest_id":  "contest-1",
		"quota_count": 2,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pay-1", gjson.Get(w.Body.String(), "payment_id").String())
	assert.Equal(t, "https://checkout.example/cs_1", gjson.Get(w.Body.String(), "checkout_url").String())
}

func TestPurchaseEndpoint_ValidationAndErrors(t *testing.T) {
	t.Run("missing quota count", func(t *testing.T) {
		router := newTestRouter(routerOptions{})
		w := doRequest(router, http.MethodPost, "/api/purchase", "", map[string]interface{}{
			"contest_id": "contest-1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("insufficient capacity maps to conflict", func(t *testing.T) {
		router := newTestRouter(routerOptions{
			purchase: &stubPurchaseService{err: &models.InsufficientCapacityError{
				ContestID: "contest-1",
				Requested: 5,
				Available: 2,
			}},
		})
		w := doRequest(router, http.MethodPost, "/api/purchase", "", map[string]interface{}{
			"contest_id":  "contest-1",
			"quota_count": 5,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "available").Int())
	})

	t.Run("gateway unavailable maps to 503", func(t *testing.T) {
		router := newTestRouter(routerOptions{
			purchase: &stubPurchaseService{err: &models.GatewayUnavailableError{Err: assert.AnError}},
		})
		w := doRequest(router, http.MethodPost, "/api/purchase", "", map[string]interface{}{
			"contest_id":  "contest-1",
			"quota_count": 1,
		})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("contest not found maps to 404", func(t *testing.T) {
		router := newTestRouter(routerOptions{
			purchase: &stubPurchaseService{err: models.ErrContestNotFound},
		})
		w := doRequest(router, http.MethodPost, "/api/purchase", "", map[string]interface{}{
			"contest_id":  "missing",
			"quota_count": 1,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVerifyEndpoint(t *testing.T) {
	router := newTestRouter(routerOptions{
		reconciliation: &stubReconciliationService{
			result: &models.VerifyResult{
				PaymentID:      "pay-1",
				GatewayStatus:  models.GatewayStatusPaid,
				InternalStatus: models.PaymentStatusPaid,
				Merged:         true,
			},
		},
	})

	w := doRequest(router, http.MethodPost, "/api/payments/verify", "", map[string]interface{}{
		"session_id": "cs_1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", gjson.Get(w.Body.String(), "gateway_status").String())
	assert.True(t, gjson.Get(w.Body.String(), "merged").Bool())
}

func TestDistributionEndpoint(t *testing.T) {
	router := newTestRouter(routerOptions{
		distribution: &stubDistributionService{
			result: &models.Distribution{
				ContestID:    "contest-1",
				Revenue:      8000,
				Commission:   800,
				PlayablePool: 4200,
				TotalQuotas:  11,
				Entries: []models.DistributionEntry{
					{UserID: "operator", QuotaCount: 3, DisplayAmountPaid: 3000, IsHouse: true, PrizeAmount: 1145},
				},
			},
		},
	})

	w := doRequest(router, http.MethodGet, "/api/contests/contest-1/distribution", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(4200), gjson.Get(body, "playable_pool").Int())
	assert.True(t, gjson.Get(body, "entries.0.is_house").Bool())
	assert.Equal(t, int64(3000), gjson.Get(body, "entries.0.amount_paid").Int(),
		"house row surfaces the display amount")
}

func TestGetContestEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(routerOptions{
		admin: &stubAdminService{err: models.ErrContestNotFound},
	})

	w := doRequest(router, http.MethodGet, "/api/contests/missing", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGrantEndpoint_RequiresAdmin(t *testing.T) {
	router := newTestRouter(routerOptions{
		admin: &stubAdminService{
			participation: &models.Participation{ID: "part-1", UserID: "bob", QuotaCount: 2},
		},
	})

	body := map[string]interface{}{
		"user_id":        "bob",
		"quota_count":    2,
		"chosen_numbers": []int32{1, 2, 3, 4, 5, 6},
	}

	w := doRequest(router, http.MethodPost, "/api/contests/contest-1/participants", "", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, "/api/contests/contest-1/participants", "admin", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "part-1", gjson.Get(w.Body.String(), "id").String())
}
