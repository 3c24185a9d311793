package models

import "time"

// VerificationToken is a single-use, time-limited credential. The identifier
// is a bare email for signup verification and "reset:<email>" for password
// resets; rows are deleted on use or on discovered expiry.
type VerificationToken struct {
	Identifier string    `gorm:"primaryKey;size:191"`
	Token      string    `gorm:"primaryKey;size:64"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

// WebhookEvent records a processed payment-provider event so that duplicate
// webhook deliveries are acknowledged without being re-applied.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
