package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/astropaws/fulfillment/pkg/types"
)

type ReportPaymentStatus string

const (
	ReportPaymentStatusPending ReportPaymentStatus = "pending"
	// Paid is terminal; a report is never reverted to pending.
	ReportPaymentStatusPaid ReportPaymentStatus = "paid"
)

// PetProfile are the pet attributes the astrology content is generated from.
type PetProfile struct {
	Name          string `json:"name"`
	Species       string `json:"species"`
	Breed         string `json:"breed,omitempty"`
	BirthDate     string `json:"birth_date"`
	BirthTime     string `json:"birth_time,omitempty"`
	BirthLocation string `json:"birth_location,omitempty"`
}

// Report is one generated astrology report for one pet of one order line.
// Rows are created at intake and never deleted.
type Report struct {
	ID         string                          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerEmail string                          `gorm:"column:owner_email;type:varchar(255);not null;index" json:"owner_email"`
	Pet        datatypes.JSONType[*PetProfile] `gorm:"column:pet;type:jsonb" json:"pet"`
	Tier       types.Tier                      `gorm:"column:tier;type:varchar(32)" json:"tier"`
	// PaymentStatus transitions pending -> paid exactly once.
	PaymentStatus ReportPaymentStatus `gorm:"column:payment_status;type:varchar(16);not null;default:'pending'" json:"payment_status"`
	// Content is set at most once; generation is skipped while it is non-empty.
	Content     datatypes.JSON     `gorm:"column:content;type:jsonb" json:"content"`
	PortraitURL *string            `gorm:"column:portrait_url;type:text" json:"portrait_url"`
	PhotoURL    *string            `gorm:"column:photo_url;type:text" json:"photo_url"`
	Occasion    types.OccasionMode `gorm:"column:occasion;type:varchar(16);not null;default:'standard'" json:"occasion"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (Report) TableName() string { return "report" }

func (r *Report) Paid() bool {
	return r != nil && r.PaymentStatus == ReportPaymentStatusPaid
}

func (r *Report) HasContent() bool {
	return r != nil && len(r.Content) > 0 && string(r.Content) != "null"
}
