package models

import "time"

// ContactAttempt is one inbound support message. The count of prior
// refund-tagged attempts for an email is the only state the escalation
// logic reads; there is no stored stage field to drift from it.
type ContactAttempt struct {
	ID              string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email           string    `gorm:"column:email;type:varchar(255);not null;index" json:"email"`
	Message         string    `gorm:"column:message;type:text;not null" json:"message"`
	IsRefundRequest bool      `gorm:"column:is_refund_request;not null;default:false" json:"is_refund_request"`
	CreatedAt       time.Time `json:"created_at"`
}

func (ContactAttempt) TableName() string { return "contact_attempt" }
