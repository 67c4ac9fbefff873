package benefit

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/content"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/logctx"
	"github.com/astropaws/fulfillment/pkg/tool"
	"github.com/astropaws/fulfillment/pkg/types"
)

// Service applies resolved benefits to individual reports: payment marking,
// at-most-once content generation, optional portrait generation and
// idempotent horoscope enrollment. Both the fulfillment orchestrator and the
// gift redemption guard run their per-report unlocking through here.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	content content.Provider
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, provider content.Provider) *Service {
	return &Service{db: db, log: log, content: provider}
}

// ReportBenefits describes what one report actually received.
type ReportBenefits struct {
	ReportID          string           `json:"report_id"`
	Features          types.FeatureSet `json:"features"`
	ContentGenerated  bool             `json:"content_generated"`
	PortraitGenerated bool             `json:"portrait_generated"`
	HoroscopeEnrolled bool             `json:"horoscope_enrolled"`
}

// MarkPaid flips a report to paid and records the tier and occasion of the
// purchase. Re-marking an already paid report is harmless; paid is terminal
// and never reverted.
func (s *Service) MarkPaid(ctx context.Context, reportID string, t types.Tier, occasion types.OccasionMode) error {
	updates := map[string]any{
		"payment_status": models.ReportPaymentStatusPaid,
	}
	if t != "" {
		updates["tier"] = t
	}
	if occasion != "" {
		updates["occasion"] = occasion
	}
	res := s.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", reportID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to mark report %s paid: %w", reportID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("report %s not found", reportID)
	}
	return nil
}

// Apply unlocks the resolved features for one report. Content is generated
// only while the content blob is empty; the portrait only when the feature
// is present and a source photo exists. Collaborator failures are logged and
// reflected in the returned benefits, never returned as errors.
func (s *Service) Apply(ctx context.Context, report *models.Report, fs types.FeatureSet, photoURL string, cadence types.HoroscopeCadence) *ReportBenefits {
	lg := logctx.FromCtx(ctx, s.log)
	out := &ReportBenefits{ReportID: report.ID, Features: fs}

	if !report.HasContent() {
		if raw, err := s.content.GenerateReport(ctx, report.Pet.Data(), string(report.Occasion)); err != nil {
			lg.Errorw("content_generation_failed", "report_id", report.ID, "err", err)
		} else if err := s.storeContent(ctx, report.ID, raw); err != nil {
			lg.Errorw("content_store_failed", "report_id", report.ID, "err", err)
		} else {
			report.Content = datatypes.JSON(raw)
			out.ContentGenerated = true
		}
	}

	if fs.IncludesPortrait {
		if photoURL == "" {
			// not an error, the pet simply has no source photo
			lg.Infow("portrait_skipped_no_photo", "report_id", report.ID)
		} else if report.PortraitURL == nil {
			if ref, err := s.content.GeneratePortrait(ctx, report, photoURL); err != nil {
				lg.Errorw("portrait_generation_failed", "report_id", report.ID, "err", err)
			} else if err := s.db.WithContext(ctx).Model(&models.Report{}).
				Where("id = ?", report.ID).
				Updates(map[string]any{"portrait_url": ref, "photo_url": photoURL}).Error; err != nil {
				lg.Errorw("portrait_store_failed", "report_id", report.ID, "err", err)
			} else {
				report.PortraitURL = lo.ToPtr(ref)
				out.PortraitGenerated = true
			}
		}
	}

	if fs.IncludesWeeklyHoroscope {
		if err := s.EnrollHoroscope(ctx, report.OwnerEmail, report.ID, cadence); err != nil {
			lg.Errorw("horoscope_enrollment_failed", "report_id", report.ID, "err", err)
		} else {
			out.HoroscopeEnrolled = true
		}
	}

	return out
}

// storeContent writes the generated blob only if the report still has none,
// so a concurrent or repeated invocation cannot overwrite existing content.
func (s *Service) storeContent(ctx context.Context, reportID string, raw []byte) error {
	res := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND (content IS NULL OR content = 'null')", reportID).
		Update("content", datatypes.JSON(raw))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("report %s already has content", reportID)
	}
	return nil
}

// EnrollHoroscope creates the (email, report) subscription if none exists.
// Repeated enrollment for the same pair is a no-op, so validation retries
// cannot produce duplicate active subscriptions.
func (s *Service) EnrollHoroscope(ctx context.Context, email, reportID string, cadence types.HoroscopeCadence) error {
	if email == "" || reportID == "" {
		return fmt.Errorf("enrollment requires email and report id")
	}
	if cadence == "" {
		cadence = types.HoroscopeCadenceWeekly
	}

	var existing models.HoroscopeSubscription
	err := s.db.WithContext(ctx).
		Where("email = ? AND report_id = ?", email, reportID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing subscription: %w", err)
	}

	sub := &models.HoroscopeSubscription{
		ID:       tool.GenerateUUIDV7(),
		Email:    email,
		ReportID: reportID,
		Cadence:  cadence,
		Status:   models.HoroscopeSubscriptionStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// CancelHoroscope flips a subscription to cancelled. Driven by an external
// cancellation event; the row is kept.
func (s *Service) CancelHoroscope(ctx context.Context, email, reportID string) error {
	res := s.db.WithContext(ctx).Model(&models.HoroscopeSubscription{}).
		Where("email = ? AND report_id = ? AND status = ?", email, reportID, models.HoroscopeSubscriptionStatusActive).
		Updates(map[string]any{
			"status":       models.HoroscopeSubscriptionStatusCancelled,
			"cancelled_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to cancel subscription: %w", res.Error)
	}
	return nil
}
