package models

import "time"

type ScheduledEmailStatus string

const (
	ScheduledEmailStatusScheduled ScheduledEmailStatus = "scheduled"
	ScheduledEmailStatusSent      ScheduledEmailStatus = "sent"
	ScheduledEmailStatusFailed    ScheduledEmailStatus = "failed"
)

// ScheduledEmail is a persisted delayed send, drained by the notify worker.
// The support escalation's feedback request lands here instead of going out
// immediately.
type ScheduledEmail struct {
	ID      string               `gorm:"column:id;type:uuid;primary_key" json:"id"`
	To      string               `gorm:"column:to_email;type:varchar(255);not null" json:"to"`
	Subject string               `gorm:"column:subject;type:text;not null" json:"subject"`
	Body    string               `gorm:"column:body;type:text;not null" json:"body"`
	SendAt  time.Time            `gorm:"column:send_at;not null;index" json:"send_at"`
	Status  ScheduledEmailStatus `gorm:"column:status;type:varchar(16);not null;default:'scheduled'" json:"status"`
	SentAt  *time.Time           `gorm:"column:sent_at" json:"sent_at"`
	// LastError keeps the most recent send failure for manual follow-up.
	LastError *string   `gorm:"column:last_error;type:text" json:"last_error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ScheduledEmail) TableName() string { return "scheduled_email" }
