package api

import (
	"errors"
	"net/http"

	"bolao/models"
	"bolao/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handler carries the services the HTTP surface exposes
type Handler struct {
	purchaseService       service.PurchaseService
	reconciliationService service.ReconciliationService
	distributionService   service.DistributionService
	adminService          service.AdminService
}

// NewHandler creates a new API handler
func NewHandler(
	purchaseService service.PurchaseService,
	reconciliationService service.ReconciliationService,
	distributionService service.DistributionService,
	adminService service.AdminService,
) *Handler {
	return &Handler{
		purchaseService:       purchaseService,
		reconciliationService: reconciliationService,
		distributionService:   distributionService,
		adminService:          adminService,
	}
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", AuthContext())
	{
		api.POST("/purchase", h.Purchase)
		api.POST("/payments/verify", h.VerifyPayment)

		api.GET("/contests", h.ListContests)
		api.GET("/contests/:id", h.GetContest)
		api.GET("/contests/:id/distribution", h.GetDistribution)
		api.GET("/contests/:id/participants", h.ListParticipants)

		admin := api.Group("", RequireAdmin())
		{
			admin.POST("/contests", h.CreateContest)
			admin.PATCH("/contests/:id/status", h.UpdateContestStatus)
			admin.GET("/contests/:id/payments", h.ListPayments)
			admin.POST("/contests/:id/participants", h.GrantQuotas)
			admin.PUT("/participations/:id", h.UpdateParticipation)
			admin.DELETE("/participations/:id", h.DeleteParticipation)
			admin.POST("/payments/:id/cancel", h.CancelPayment)
			admin.GET("/admin/config", h.GetConfig)
			admin.PUT("/admin/config", h.UpdateConfig)
		}
	}

	return router
}

// Purchase starts a gateway checkout for the calling user
func (h *Handler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.purchaseService.Purchase(c.Request.Context(), c.GetString(ctxUserID), req.ContestID, req.QuotaCount, req.ChosenNumbers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchaseResponse{
		PaymentID:   result.PaymentID,
		CheckoutURL: result.CheckoutURL,
	})
}

// VerifyPayment reconciles a checkout session against the gateway
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.reconciliationService.Verify(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, verifyResponse{
		PaymentID:      result.PaymentID,
		GatewayStatus:  string(result.GatewayStatus),
		InternalStatus: string(result.InternalStatus),
		Merged:         result.Merged,
	})
}

// CancelPayment closes a pending payment and releases its quotas
func (h *Handler) CancelPayment(c *gin.Context) {
	if err := h.reconciliationService.CancelPayment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListContests returns all contests
func (h *Handler) ListContests(c *gin.Context) {
	contests, err := h.adminService.ListContests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]contestResponse, 0, len(contests))
	for _, contest := range contests {
		resp = append(resp, toContestResponse(contest))
	}
	c.JSON(http.StatusOK, resp)
}

// GetContest returns one contest
func (h *Handler) GetContest(c *gin.Context) {
	contest, err := h.adminService.GetContest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContestResponse(contest))
}

// CreateContest creates a new contest
func (h *Handler) CreateContest(c *gin.Context) {
	var req createContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contest := &models.Contest{
		Name:          req.Name,
		Number:        req.Number,
		DrawDate:      req.DrawDate,
		PricePerQuota: req.PricePerQuota,
		MaxQuotas:     req.MaxQuotas,
		Status:        models.ContestStatusOpen,
		TotalPrize:    req.TotalPrize,
	}
	if err := h.adminService.CreateContest(c.Request.Context(), contest); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toContestResponse(contest))
}

// UpdateContestStatus moves a contest forward in its lifecycle
func (h *Handler) UpdateContestStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.adminService.UpdateContestStatus(c.Request.Context(), c.Param("id"), models.ContestStatus(req.Status), req.DrawnNumbers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDistribution returns the prize breakdown for a contest
func (h *Handler) GetDistribution(c *gin.Context) {
	distribution, err := h.distributionService.GetDistribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDistributionResponse(distribution))
}

// ListParticipants returns all participations for a contest
func (h *Handler) ListParticipants(c *gin.Context) {
	participations, err := h.adminService.ListParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]participationResponse, 0, len(participations))
	for _, p := range participations {
		resp = append(resp, toParticipationResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// ListPayments returns all payment records for a contest
func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.adminService.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toPaymentResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// GrantQuotas assigns quotas to a user without going through the gateway
func (h *Handler) GrantQuotas(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participation, err := h.adminService.GrantQuotas(c.Request.Context(), c.Param("id"), req.UserID, req.QuotaCount, req.ChosenNumbers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toParticipationResponse(participation))
}

// UpdateParticipation overwrites a participation's ticket, quotas and amount
func (h *Handler) UpdateParticipation(c *gin.Context) {
	var req updateParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participation := &models.Participation{
		ID:            c.Param("id"),
		ChosenNumbers: req.ChosenNumbers,
		QuotaCount:    req.QuotaCount,
		AmountPaid:    req.AmountPaid,
	}
	if err := h.adminService.UpdateParticipation(c.Request.Context(), participation); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toParticipationResponse(participation))
}

// DeleteParticipation removes a participation and releases its quotas
func (h *Handler) DeleteParticipation(c *gin.Context) {
	if err := h.adminService.DeleteParticipation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetConfig returns the admin configuration
func (h *Handler) GetConfig(c *gin.Context) {
	config, err := h.adminService.GetConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toConfigResponse(config))
}

// UpdateConfig overwrites the admin configuration
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := &models.AdminConfig{
		CommissionPercent: req.CommissionPercent,
		FreeQuotaCount:    req.FreeQuotaCount,
		OperatorUserID:    req.OperatorUserID,
	}
	if err := h.adminService.UpdateConfig(c.Request.Context(), config); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var capacityErr *models.InsufficientCapacityError
	var gatewayErr *models.GatewayUnavailableError
	var integrityErr *models.IntegrityError

	switch {
	case errors.Is(err, models.ErrContestNotFound),
		errors.Is(err, models.ErrPaymentNotFound),
		errors.Is(err, models.ErrParticipationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrContestNotOpen):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrInvalidTicket),
		errors.Is(err, models.ErrNumbersRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.As(err, &capacityErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     capacityErr.Error(),
			"available": capacityErr.Available,
		})

	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": gatewayErr.Error()})

	case errors.As(err, &integrityErr):
		log.WithError(err).Error("Contest ledger integrity violation")
		c.JSON(http.StatusConflict, gin.H{"error": integrityErr.Error()})

	default:
		log.WithError(err).Error("Unhandled API error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
