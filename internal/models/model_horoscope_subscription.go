package models

import (
	"time"

	"github.com/astropaws/fulfillment/pkg/types"
)

type HoroscopeSubscriptionStatus string

const (
	HoroscopeSubscriptionStatusActive    HoroscopeSubscriptionStatus = "active"
	HoroscopeSubscriptionStatusCancelled HoroscopeSubscriptionStatus = "cancelled"
)

// HoroscopeSubscription entitles one (email, report) pair to recurring
// horoscope content. At most one row per pair; enrollment checks for an
// existing row before inserting, the unique index is the backstop.
// Cancellation flips the status, it never deletes.
type HoroscopeSubscription struct {
	ID       string                      `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email    string                      `gorm:"column:email;type:varchar(255);not null;uniqueIndex:unique_email_report,priority:1" json:"email"`
	ReportID string                      `gorm:"column:report_id;type:uuid;not null;uniqueIndex:unique_email_report,priority:2" json:"report_id"`
	Cadence  types.HoroscopeCadence      `gorm:"column:cadence;type:varchar(16);not null;default:'weekly'" json:"cadence"`
	Status   HoroscopeSubscriptionStatus `gorm:"column:status;type:varchar(16);not null;default:'active'" json:"status"`

	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (HoroscopeSubscription) TableName() string { return "horoscope_subscription" }

func (s *HoroscopeSubscription) Active() bool {
	return s != nil && s.Status == HoroscopeSubscriptionStatusActive
}
