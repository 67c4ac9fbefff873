package gift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/benefit"
	"github.com/astropaws/fulfillment/internal/app/service/notify"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/logctx"
	"github.com/astropaws/fulfillment/pkg/types"
)

type RedeemRequest struct {
	Code      string
	ReportIDs []string
	// PhotoURLsByReportID supplies optional portrait source photos.
	PhotoURLsByReportID map[string]string
}

type RedemptionResult struct {
	Code         string                    `json:"code"`
	PetCount     int                       `json:"pet_count"`
	Reports      []*benefit.ReportBenefits `json:"reports"`
	AnyPortrait  bool                      `json:"any_portrait"`
	AnyHoroscope bool                      `json:"any_horoscope"`
}

// Redeem validates and atomically claims a code, then unlocks the named
// reports. The claim is a single conditional write: under concurrent
// attempts at most one succeeds, the rest observe ErrAlreadyRedeemed.
func (s *Service) Redeem(ctx context.Context, req *RedeemRequest) (*RedemptionResult, error) {
	if req == nil || len(req.ReportIDs) == 0 {
		return nil, fmt.Errorf("redeem requires at least one report id")
	}
	now := time.Now()

	cert, err := s.lookup(ctx, req.Code, now)
	if err != nil {
		s.countRedemption(err)
		return nil, err
	}
	if len(req.ReportIDs) > cert.PetCount {
		s.countRedemption(ErrPetCountMismatch)
		return nil, ErrPetCountMismatch
	}

	cert, err = s.Claim(ctx, cert.Code, req.ReportIDs[0], now)
	if err != nil {
		s.countRedemption(err)
		return nil, err
	}
	s.countRedemption(nil)

	result := s.unlockReports(ctx, cert, req)
	s.notifyRedeemed(ctx, cert, result)
	return result, nil
}

// Claim performs the atomic false->true transition for a code. The
// precondition is part of the same write; losing the race surfaces as
// ErrAlreadyRedeemed, a store failure as retryable ErrClaimFailed.
func (s *Service) Claim(ctx context.Context, code, firstReportID string, now time.Time) (*models.GiftCertificate, error) {
	res := s.db.WithContext(ctx).Model(&models.GiftCertificate{}).
		Where("code = ? AND is_redeemed = ?", code, false).
		Updates(map[string]any{
			"is_redeemed":           true,
			"redeemed_at":           now,
			"redeemed_by_report_id": firstReportID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrClaimFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		// lost the race, or the code vanished between lookup and claim
		var cert models.GiftCertificate
		if err := s.db.WithContext(ctx).Where("code = ?", code).First(&cert).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCode
			}
			return nil, fmt.Errorf("%w: %v", ErrClaimFailed, err)
		}
		return nil, ErrAlreadyRedeemed
	}

	var cert models.GiftCertificate
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&cert).Error; err != nil {
		return nil, fmt.Errorf("failed to reload claimed certificate: %w", err)
	}
	return &cert, nil
}

// unlockReports marks every named report paid and applies the per-pet
// features. Failures on one report never abort the loop; the report keeps
// its prior state for manual reconciliation.
func (s *Service) unlockReports(ctx context.Context, cert *models.GiftCertificate, req *RedeemRequest) *RedemptionResult {
	lg := logctx.FromCtx(ctx, s.log)
	result := &RedemptionResult{Code: cert.Code, PetCount: cert.PetCount}

	for i, reportID := range req.ReportIDs {
		pt := cert.PetTierAt(i)
		fs := s.tiers.ResolvePet(pt)

		if err := s.benefits.MarkPaid(ctx, reportID, pt.Tier, types.OccasionModeGift); err != nil {
			lg.Errorw("gift_report_mark_paid_failed", "code", cert.Code, "report_id", reportID, "err", err)
			continue
		}

		var report models.Report
		if err := s.db.WithContext(ctx).Where("id = ?", reportID).First(&report).Error; err != nil {
			lg.Errorw("gift_report_load_failed", "code", cert.Code, "report_id", reportID, "err", err)
			continue
		}

		cadence := pt.HoroscopeAddon
		if cadence == "" {
			cadence = types.HoroscopeCadenceWeekly
		}
		b := s.benefits.Apply(ctx, &report, fs, req.PhotoURLsByReportID[reportID], cadence)
		result.Reports = append(result.Reports, b)
		result.AnyPortrait = result.AnyPortrait || fs.IncludesPortrait
		result.AnyHoroscope = result.AnyHoroscope || fs.IncludesWeeklyHoroscope
	}
	return result
}

func (s *Service) notifyRedeemed(ctx context.Context, cert *models.GiftCertificate, result *RedemptionResult) {
	err := s.disp.Send(ctx, &notify.Message{
		Template: notify.TemplateGiftRedeemed,
		To:       cert.PurchaserEmail,
		Data: map[string]any{
			"code":          cert.Code,
			"reports":       len(result.Reports),
			"any_portrait":  result.AnyPortrait,
			"any_horoscope": result.AnyHoroscope,
		},
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("gift_redeemed_notify_failed", "code", cert.Code, "err", err)
	}
}

func (s *Service) countRedemption(err error) {
	if s.pipeline == nil {
		return
	}
	label := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyRedeemed):
		label = "already_redeemed"
	case errors.Is(err, ErrExpired):
		label = "expired"
	case errors.Is(err, ErrPetCountMismatch):
		label = "pet_count_mismatch"
	case errors.Is(err, ErrInvalidCode):
		label = "invalid"
	default:
		label = "error"
	}
	s.pipeline.Redemptions.WithLabelValues(label).Inc()
}
