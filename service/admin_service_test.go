package service

import (
	"context"
	"testing"
	"time"

	"bolao/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	contestRepo       *MockContestRepository
	participationRepo *MockParticipationRepository
	paymentRepo       *MockPaymentRepository
	configRepo        *MockAdminConfigRepository
	uow               *MockUnitOfWork
	service           AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		contestRepo:       &MockContestRepository{},
		participationRepo: &MockParticipationRepository{},
		paymentRepo:       &MockPaymentRepository{},
		configRepo:        &MockAdminConfigRepository{},
		uow:               &MockUnitOfWork{},
	}
	f.uow.SetRepositories(f.contestRepo, f.participationRepo, f.paymentRepo, f.configRepo)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)

	factory := &MockUnitOfWorkFactory{}
	factory.On("Create").Return(f.uow)

	f.service = NewAdminService(factory)
	return f
}

func TestGrantQuotas_CreatesPaidRecordAndMerges(t *testing.T) {
	f := newAdminFixture()
	contest := &models.Contest{
		ID:            "contest-1",
		PricePerQuota: 1000,
		MaxQuotas:     100,
		Status:        models.ContestStatusOpen,
	}

	f.contestRepo.On("GetByID", mock.Anything, "contest-1").Return(contest, nil)
	f.contestRepo.On("ReserveQuotas", mock.Anything, "contest-1", int64(4)).Return(false, nil)
	f.configRepo.On("Get", mock.Anything).Return(&models.AdminConfig{OperatorUserID: "operator"}, nil)
	f.participationRepo.On("Merge", mock.Anything, mock.MatchedBy(func(p *models.Participation) bool {
		return p.UserID == "bob" && p.QuotaCount == 4 && p.AmountPaid == 4000
	})).Return(true, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.Method == models.PaymentMethodAdmin && p.Status == models.PaymentStatusPaid &&
			p.Amount == 4000
	})).Return(nil)

	participation, err := f.service.GrantQuotas(context.Background(), "contest-1", "bob", 4, []int32{1, 2, 3, 4, 5, 6})

	require.NoError(t, err)
	assert.Equal(t, int64(4), participation.QuotaCount)
	f.paymentRepo.AssertExpectations(t)
	f.participationRepo.AssertExpectations(t)
}

func TestGrantQuotas_OperatorGetsZeroAmount(t *testing.T) {
	f := newAdminFixture()
	contest := &models.Contest{
		ID:            "contest-1",
		PricePerQuota: 1000,
		MaxQuotas:     100,
		Status:        models.ContestStatusOpen,
	}

	f.contestRepo.On("GetByID", mock.Anything, "contest-1").Return(contest, nil)
	f.contestRepo.On("ReserveQuotas", mock.Anything, "contest-1", int64(3)).Return(false, nil)
	f.configRepo.On("Get", mock.Anything).Return(&models.AdminConfig{OperatorUserID: "operator"}, nil)
	f.participationRepo.On("Merge", mock.Anything, mock.MatchedBy(func(p *models.Participation) bool {
		return p.UserID == "operator" && p.AmountPaid == 0
	})).Return(true, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.Amount == 0
	})).Return(nil)

	_, err := f.service.GrantQuotas(context.Background(), "contest-1", "operator", 3, []int32{1, 2, 3, 4, 5, 6})

	require.NoError(t, err)
	f.participationRepo.AssertExpectations(t)
}

func TestGrantQuotas_RequiresExplicitValidTicket(t *testing.T) {
	f := newAdminFixture()

	_, err := f.service.GrantQuotas(context.Background(), "contest-1", "bob", 1, nil)
	assert.ErrorIs(t, err, models.ErrNumbersRequired)

	_, err = f.service.GrantQuotas(context.Background(), "contest-1", "bob", 1, []int32{1, 1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, models.ErrInvalidTicket)

	f.contestRepo.AssertNotCalled(t, "ReserveQuotas", mock.Anything, mock.Anything, mock.Anything)
}

func TestGrantQuotas_ClosedContest(t *testing.T) {
	f := newAdminFixture()
	contest := &models.Contest{ID: "contest-1", Status: models.ContestStatusClosed}

	f.contestRepo.On("GetByID", mock.Anything, "contest-1").Return(contest, nil)

	_, err := f.service.GrantQuotas(context.Background(), "contest-1", "bob", 1, []int32{1, 2, 3, 4, 5, 6})

	assert.ErrorIs(t, err, models.ErrContestNotOpen)
}

func TestUpdateConfig_RejectsOutOfRangeValues(t *testing.T) {
	f := newAdminFixture()

	err := f.service.UpdateConfig(context.Background(), &models.AdminConfig{CommissionPercent: 101})
	assert.Error(t, err)

	err = f.service.UpdateConfig(context.Background(), &models.AdminConfig{FreeQuotaCount: -1})
	assert.Error(t, err)

	f.configRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateContest_Validates(t *testing.T) {
	f := newAdminFixture()

	err := f.service.CreateContest(context.Background(), &models.Contest{Name: "", PricePerQuota: 1000, MaxQuotas: 10})
	assert.Error(t, err)

	err = f.service.CreateContest(context.Background(), &models.Contest{Name: "x", PricePerQuota: 0, MaxQuotas: 10})
	assert.Error(t, err)

	f.contestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateContestStatus_ForwardOnly(t *testing.T) {
	f := newAdminFixture()
	contest := &models.Contest{
		ID:       "contest-1",
		DrawDate: time.Now(),
		Status:   models.ContestStatusOpen,
	}

	f.contestRepo.On("GetByID", mock.Anything, "contest-1").Return(contest, nil)

	// Skipping a step is illegal
	err := f.service.UpdateContestStatus(context.Background(), "contest-1", models.ContestStatusDrawn, nil)
	assert.Error(t, err)
	f.contestRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateContestStatus_DrawnRequiresNumbers(t *testing.T) {
	f := newAdminFixture()
	contest := &models.Contest{ID: "contest-1", Status: models.ContestStatusClosed}

	f.contestRepo.On("GetByID", mock.Anything, "contest-1").Return(contest, nil)

	err := f.service.UpdateContestStatus(context.Background(), "contest-1", models.ContestStatusDrawn, nil)
	assert.ErrorIs(t, err, models.ErrInvalidTicket)

	f.contestRepo.On("UpdateStatus", mock.Anything, "contest-1", models.ContestStatusDrawn, []int32{1, 2, 3, 4, 5, 6}).Return(nil)
	err = f.service.UpdateContestStatus(context.Background(), "contest-1", models.ContestStatusDrawn, []int32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
}

func TestUpdateParticipation_AdjustsQuotaCounter(t *testing.T) {
	f := newAdminFixture()
	existing := &models.Participation{
		ID:         "part-1",
		UserID:     "bob",
		ContestID:  "contest-1",
		QuotaCount: 2,
		AmountPaid: 2000,
	}

	f.participationRepo.On("GetByID", mock.Anything, "part-1").Return(existing, nil)
	// Growing from 2 to 5 quotas must reserve the 3 extra
	f.contestRepo.On("ReserveQuotas", mock.Anything, "contest-1", int64(3)).Return(false, nil)
	f.participationRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Participation) bool {
		return p.ID == "part-1" && p.QuotaCount == 5 && p.UserID == "bob"
	})).Return(nil)

	err := f.service.UpdateParticipation(context.Background(), &models.Participation{
		ID:            "part-1",
		ChosenNumbers: []int32{1, 2, 3, 4, 5, 6},
		QuotaCount:    5,
		AmountPaid:    5000,
	})

	require.NoError(t, err)
	f.contestRepo.AssertExpectations(t)
}

func TestUpdateParticipation_ShrinkReleasesQuotas(t *testing.T) {
	f := newAdminFixture()
	existing := &models.Participation{
		ID:         "part-1",
		UserID:     "bob",
		ContestID:  "contest-1",
		QuotaCount: 5,
	}

	f.participationRepo.On("GetByID", mock.Anything, "part-1").Return(existing, nil)
	f.contestRepo.On("ReleaseQuotas", mock.Anything, "contest-1", int64(3)).Return(nil)
	f.participationRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	err := f.service.UpdateParticipation(context.Background(), &models.Participation{
		ID:            "part-1",
		ChosenNumbers: []int32{1, 2, 3, 4, 5, 6},
		QuotaCount:    2,
	})

	require.NoError(t, err)
	f.contestRepo.AssertExpectations(t)
	f.contestRepo.AssertNotCalled(t, "ReserveQuotas", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteParticipation_ReleasesQuotas(t *testing.T) {
	f := newAdminFixture()
	participation := &models.Participation{
		ID:         "part-1",
		ContestID:  "contest-1",
		QuotaCount: 5,
	}

	f.participationRepo.On("GetByID", mock.Anything, "part-1").Return(participation, nil)
	f.participationRepo.On("Delete", mock.Anything, "part-1").Return(nil)
	f.contestRepo.On("ReleaseQuotas", mock.Anything, "contest-1", int64(5)).Return(nil)

	err := f.service.DeleteParticipation(context.Background(), "part-1")

	require.NoError(t, err)
	f.contestRepo.AssertExpectations(t)
}

func TestDeleteParticipation_NotFound(t *testing.T) {
	f := newAdminFixture()

	f.participationRepo.On("GetByID", mock.Anything, "missing").Return(nil, nil)

	err := f.service.DeleteParticipation(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrParticipationNotFound)
}
