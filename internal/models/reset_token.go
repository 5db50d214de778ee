package models

import (
	"time"

	"github.com/google/uuid"
)

// ConsumedResetToken records a password-reset token that has already been used.
type ConsumedResetToken struct {
	ID         string    `json:"id"`
	AccountID  uuid.UUID `json:"account_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	ConsumedAt time.Time `json:"consumed_at"`
}
