package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskscore/taskscore-api/internal/dto"
	"github.com/taskscore/taskscore-api/internal/models"
)

type paymentRepoStub struct {
	payments []models.Payment
}

func (s *paymentRepoStub) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = uint(len(s.payments) + 1)
	s.payments = append(s.payments, *payment)
	return nil
}

func (s *paymentRepoStub) GetByIDForUser(ctx context.Context, id, userID uint) (models.Payment, error) {
	for _, payment := range s.payments {
		if payment.ID == id && payment.UserID == userID {
			return payment, nil
		}
	}
	return models.Payment{}, gorm.ErrRecordNotFound
}

func (s *paymentRepoStub) Update(ctx context.Context, payment *models.Payment) error {
	for i := range s.payments {
		if s.payments[i].ID == payment.ID {
			s.payments[i] = *payment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type paymentEvalRepoStub struct {
	evaluations []models.Evaluation
	markPaidErr error
}

func (s *paymentEvalRepoStub) Create(ctx context.Context, evaluation *models.Evaluation) error {
	return errors.New("not implemented")
}

func (s *paymentEvalRepoStub) GetByIDForUser(ctx context.Context, id, userID uint) (models.Evaluation, error) {
	for _, evaluation := range s.evaluations {
		if evaluation.ID == id && evaluation.Task.UserID == userID {
			return evaluation, nil
		}
	}
	return models.Evaluation{}, gorm.ErrRecordNotFound
}

func (s *paymentEvalRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Evaluation, error) {
	return nil, errors.New("not implemented")
}

func (s *paymentEvalRepoStub) MarkPaid(ctx context.Context, id, userID uint) (models.Evaluation, error) {
	if s.markPaidErr != nil {
		return models.Evaluation{}, s.markPaidErr
	}
	for i, evaluation := range s.evaluations {
		if evaluation.ID == id && evaluation.Task.UserID == userID {
			s.evaluations[i].IsPaid = true
			return s.evaluations[i], nil
		}
	}
	return models.Evaluation{}, gorm.ErrRecordNotFound
}

func newPaymentFixture(evaluations *paymentEvalRepoStub) (*paymentRepoStub, PaymentService, *cacheInvalidatorSpy) {
	payments := &paymentRepoStub{}
	spy := &cacheInvalidatorSpy{}
	svc := NewPaymentService(payments, evaluations, spy, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop(), PaymentConfig{})
	return payments, svc, spy
}

func ownedEvaluation(isPaid bool) *paymentEvalRepoStub {
	return &paymentEvalRepoStub{
		evaluations: []models.Evaluation{
			{
				ID:         3,
				TaskID:     10,
				Score:      64,
				FullReport: "A fine task.",
				IsPaid:     isPaid,
				Task:       models.Task{ID: 10, UserID: 7, Title: "Add caching layer"},
			},
		},
	}
}

func TestPaymentCreateOpensDemoSession(t *testing.T) {
	payments, svc, _ := newPaymentFixture(ownedEvaluation(false))

	response, err := svc.Create(context.Background(), 7, dto.PaymentCreateRequest{EvaluationID: 3})
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPending, response.Status)
	require.Equal(t, 99, response.Amount)
	require.Equal(t, "INR", response.Currency)
	require.True(t, strings.HasPrefix(response.ProviderSessionID, "demo_sess_"))
	require.Len(t, payments.payments, 1)
}

func TestPaymentCreateRejectsUnlockedReport(t *testing.T) {
	_, svc, _ := newPaymentFixture(ownedEvaluation(true))

	_, err := svc.Create(context.Background(), 7, dto.PaymentCreateRequest{EvaluationID: 3})
	require.ErrorIs(t, err, ErrReportAlreadyUnlocked)
}

func TestPaymentCreateScopedToOwner(t *testing.T) {
	_, svc, _ := newPaymentFixture(ownedEvaluation(false))

	_, err := svc.Create(context.Background(), 99, dto.PaymentCreateRequest{EvaluationID: 3})
	require.ErrorIs(t, err, ErrReportNotFound)
}

func TestPaymentVerifySuccessUnlocksReport(t *testing.T) {
	evaluations := ownedEvaluation(false)
	payments, svc, spy := newPaymentFixture(evaluations)

	created, err := svc.Create(context.Background(), 7, dto.PaymentCreateRequest{EvaluationID: 3})
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), 7, created.PaymentID, true)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusSuccess, verified.Status)
	require.True(t, verified.Unlocked)
	require.NotNil(t, verified.Evaluation)
	require.True(t, verified.Evaluation.IsPaid)
	require.True(t, evaluations.evaluations[0].IsPaid)
	require.Equal(t, models.PaymentStatusSuccess, payments.payments[0].Status)
	require.Equal(t, []uint{7}, spy.users)
}

func TestPaymentVerifyFailureLeavesReportLocked(t *testing.T) {
	evaluations := ownedEvaluation(false)
	payments, svc, _ := newPaymentFixture(evaluations)

	created, err := svc.Create(context.Background(), 7, dto.PaymentCreateRequest{EvaluationID: 3})
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), 7, created.PaymentID, false)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusFailed, verified.Status)
	require.False(t, verified.Unlocked)
	require.Nil(t, verified.Evaluation)
	require.False(t, evaluations.evaluations[0].IsPaid)
	require.Equal(t, models.PaymentStatusFailed, payments.payments[0].Status)
}

func TestPaymentVerifyRejectsSettledPayment(t *testing.T) {
	_, svc, _ := newPaymentFixture(ownedEvaluation(false))

	created, err := svc.Create(context.Background(), 7, dto.PaymentCreateRequest{EvaluationID: 3})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), 7, created.PaymentID, true)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), 7, created.PaymentID, true)
	require.ErrorIs(t, err, ErrPaymentSettled)
}

func TestPaymentVerifyUnlockFailureKeepsPaymentSettled(t *testing.T) {
	evaluations := ownedEvaluation(false)
	evaluations.markPaidErr = errors.New("db gone")
	payments, svc, _ := newPaymentFixture(evaluations)

	created, err := svc.Create(context.Background(), 7, dto.PaymentCreateRequest{EvaluationID: 3})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), 7, created.PaymentID, true)
	require.ErrorIs(t, err, ErrUnlockFailed)
	require.Equal(t, models.PaymentStatusSuccess, payments.payments[0].Status, "payment stays settled so unlock can be retried")
}

func TestPaymentVerifyUnknownPayment(t *testing.T) {
	_, svc, _ := newPaymentFixture(ownedEvaluation(false))

	_, err := svc.Verify(context.Background(), 7, 42, true)
	require.ErrorIs(t, err, ErrPaymentNotFound)
}
