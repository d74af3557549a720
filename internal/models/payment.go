package models

import "time"

// PaymentStatus enumerates possible payment states.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment records one simulated checkout attempt against an evaluation report.
type Payment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	EvaluationID      uint       `gorm:"not null;index" json:"evaluation_id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	Amount            int        `gorm:"not null" json:"amount"`
	Currency          string     `gorm:"size:3;not null" json:"currency"`
	Status            string     `gorm:"size:16;not null;default:pending" json:"status"`
	ProviderSessionID string     `gorm:"size:128" json:"provider_session_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Evaluation        Evaluation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"evaluation"`
}

// IsSettled reports whether the payment reached a terminal state.
func (p Payment) IsSettled() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}
