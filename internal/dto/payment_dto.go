package dto

import "github.com/taskscore/taskscore-api/internal/models"

// PaymentCreateRequest initiates a simulated checkout for a report.
type PaymentCreateRequest struct {
	EvaluationID uint `json:"evaluation_id" validate:"required,gt=0"`
}

// PaymentVerifyRequest settles a pending payment. Success defaults to true.
type PaymentVerifyRequest struct {
	Success *bool `json:"success"`
}

// Succeeded resolves the optional success flag.
func (r PaymentVerifyRequest) Succeeded() bool {
	if r.Success == nil {
		return true
	}
	return *r.Success
}

// PaymentResponse describes a created payment session.
type PaymentResponse struct {
	PaymentID         uint   `json:"payment_id"`
	EvaluationID      uint   `json:"evaluation_id"`
	Amount            int    `json:"amount"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	ProviderSessionID string `json:"provider_session_id"`
}

// PaymentVerifyResponse describes the outcome of settling a payment.
type PaymentVerifyResponse struct {
	PaymentID    uint                `json:"payment_id"`
	EvaluationID uint                `json:"evaluation_id"`
	Status       string              `json:"status"`
	Unlocked     bool                `json:"unlocked"`
	Evaluation   *EvaluationResponse `json:"evaluation,omitempty"`
}

// NewPaymentResponse builds a response DTO from a payment model.
func NewPaymentResponse(payment models.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:         payment.ID,
		EvaluationID:      payment.EvaluationID,
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		Status:            payment.Status,
		ProviderSessionID: payment.ProviderSessionID,
	}
}
