package fulfillment

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/benefit"
	"github.com/astropaws/fulfillment/internal/app/service/gift"
	"github.com/astropaws/fulfillment/internal/app/service/notify"
	"github.com/astropaws/fulfillment/internal/app/service/tier"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/config"
	"github.com/astropaws/fulfillment/pkg/logctx"
	"github.com/astropaws/fulfillment/pkg/metrics"
	"github.com/astropaws/fulfillment/pkg/tool"
	"github.com/astropaws/fulfillment/pkg/types"
)

// referralCodePattern is the strict shape of affiliate codes; anything else
// is dropped without creating a referral row.
var referralCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,12}$`)

// Service is the fulfillment orchestrator. Invoked once per verified payment
// confirmation; every step is independently fault-tolerant because the
// triggering payment already succeeded and must never be retried or reversed
// on account of a downstream failure.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *zap.SugaredLogger
	tiers    *tier.Resolver
	benefits *benefit.Service
	gifts    *gift.Service
	disp     notify.Dispatcher
	pipeline *metrics.Pipeline
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, tiers *tier.Resolver, benefits *benefit.Service, gifts *gift.Service, disp notify.Dispatcher, pipeline *metrics.Pipeline) *Service {
	return &Service{cfg: cfg, db: db, log: log, tiers: tiers, benefits: benefits, gifts: gifts, disp: disp, pipeline: pipeline}
}

func (s *Service) Logger() *zap.SugaredLogger { return s.log }

// Result aggregates what each pipeline step actually did. Step failures end
// up in StepErrors and the metrics counters, never in an error return.
type Result struct {
	EventID           string                    `json:"event_id"`
	ReferralCredited  bool                      `json:"referral_credited"`
	ReportsMarked     int                       `json:"reports_marked"`
	CouponIncremented bool                      `json:"coupon_incremented"`
	GiftClaimed       bool                      `json:"gift_claimed"`
	Reports           []*benefit.ReportBenefits `json:"reports"`
	NotificationSent  bool                      `json:"notification_sent"`
	StepErrors        map[string]string         `json:"step_errors,omitempty"`
}

func (r *Result) fail(step string, err error) {
	if r.StepErrors == nil {
		r.StepErrors = map[string]string{}
	}
	r.StepErrors[step] = err.Error()
}

// HandlePaymentEvent runs the fulfillment pipeline to completion. There is
// no cancellation concept: once a verified event arrives the pipeline runs
// every step, tolerating failures per step and per report.
func (s *Service) HandlePaymentEvent(ctx context.Context, evt *types.PaymentEvent) *Result {
	lg := logctx.FromCtx(ctx, s.log).With("event_id", evt.EventID)
	result := &Result{EventID: evt.EventID}

	s.creditReferral(ctx, lg, evt, result)
	s.markReports(ctx, lg, evt, result)
	s.incrementCoupon(ctx, lg, evt, result)
	s.claimCheckoutGift(ctx, lg, evt, result)
	s.generateContent(ctx, lg, evt, result)
	s.sendConfirmation(ctx, lg, evt, result)
	s.trackLifecycle(ctx, lg, evt, result)

	outcome := "handled"
	if len(result.StepErrors) > 0 {
		outcome = "partial"
	}
	if s.pipeline != nil {
		s.pipeline.FulfillmentEvents.WithLabelValues(outcome).Inc()
	}
	lg.Infow("payment_event_processed", "outcome", outcome, "reports", len(evt.ReportIDs))
	return result
}

func (s *Service) stepFailed(lg *zap.SugaredLogger, result *Result, step string, err error) {
	lg.Errorw("fulfillment_step_failed", "step", step, "err", err)
	result.fail(step, err)
	if s.pipeline != nil {
		s.pipeline.StepFailures.WithLabelValues(step).Inc()
	}
}

func (s *Service) creditReferral(ctx context.Context, lg *zap.SugaredLogger, evt *types.PaymentEvent, result *Result) {
	if evt.ReferralCode == "" {
		return
	}
	code := strings.ToUpper(strings.TrimSpace(evt.ReferralCode))
	if !referralCodePattern.MatchString(code) {
		lg.Warnw("referral_code_rejected", "code", evt.ReferralCode)
		return
	}
	commission := int64(float64(evt.AmountCents) * s.cfg.Affiliate.CommissionRate)
	row := &models.AffiliateReferral{
		ID:               tool.GenerateUUIDV7(),
		AffiliateCode:    code,
		EventID:          evt.EventID,
		GrossAmountCents: evt.AmountCents,
		CommissionCents:  commission,
		Status:           models.AffiliateReferralStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		s.stepFailed(lg, result, "referral", err)
		return
	}
	result.ReferralCredited = true
}

func (s *Service) markReports(ctx context.Context, lg *zap.SugaredLogger, evt *types.PaymentEvent, result *Result) {
	occasion := types.OccasionModeStandard
	if evt.GiftForward {
		occasion = types.OccasionModeGift
	}
	updates := map[string]any{
		"payment_status": models.ReportPaymentStatusPaid,
		"occasion":       occasion,
	}
	if evt.Tier != "" {
		updates["tier"] = evt.Tier
	}
	res := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id IN ?", evt.ReportIDs).
		Updates(updates)
	if res.Error != nil {
		s.stepFailed(lg, result, "mark_reports", res.Error)
		return
	}
	result.ReportsMarked = int(res.RowsAffected)
}

// incrementCoupon is a read-then-write increment. Contention on a coupon row
// is negligible and a lost increment is harmless, so no locking is used. A
// missing coupon row must not crash the pipeline.
func (s *Service) incrementCoupon(ctx context.Context, lg *zap.SugaredLogger, evt *types.PaymentEvent, result *Result) {
	if evt.CouponID == "" {
		return
	}
	var coupon models.Coupon
	if err := s.db.WithContext(ctx).Where("id = ?", evt.CouponID).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			lg.Warnw("coupon_not_found", "coupon_id", evt.CouponID)
			return
		}
		s.stepFailed(lg, result, "coupon", err)
		return
	}
	coupon.TimesUsed++
	if err := s.db.WithContext(ctx).Save(&coupon).Error; err != nil {
		s.stepFailed(lg, result, "coupon", err)
		return
	}
	result.CouponIncremented = true
}

// claimCheckoutGift marks a certificate applied at checkout as redeemed,
// using the same conditional claim as the post-hoc redemption flow.
func (s *Service) claimCheckoutGift(ctx context.Context, lg *zap.SugaredLogger, evt *types.PaymentEvent, result *Result) {
	if evt.GiftCertificateCode == "" {
		return
	}
	_, err := s.gifts.Claim(ctx, gift.NormalizeCode(evt.GiftCertificateCode), evt.ReportIDs[0], time.Now())
	if err != nil {
		s.stepFailed(lg, result, "gift_linkage", err)
		return
	}
	result.GiftClaimed = true
}

func (s *Service) generateContent(ctx context.Context, lg *zap.SugaredLogger, evt *types.PaymentEvent, result *Result) {
	fs := s.tiers.Resolve(evt.Tier)
	for _, reportID := range evt.ReportIDs {
		var report models.Report
		if err := s.db.WithContext(ctx).Where("id = ?", reportID).First(&report).Error; err != nil {
			s.stepFailed(lg, result, "content:"+reportID, err)
			continue
		}
		if !report.Paid() {
			// content generation is gated on payment_status=paid
			lg.Warnw("content_skipped_unpaid", "report_id", reportID)
			continue
		}
		b := s.benefits.Apply(ctx, &report, fs, evt.PhotoURLsByReportID[reportID], types.HoroscopeCadenceWeekly)
		result.Reports = append(result.Reports, b)
	}
}

func (s *Service) sendConfirmation(ctx context.Context, lg *zap.SugaredLogger, evt *types.PaymentEvent, result *Result) {
	fs := s.tiers.Resolve(evt.Tier)
	template := notify.TemplateOrderConfirmation
	if evt.GiftForward {
		template = notify.TemplateGiftRecipient
	}
	err := s.disp.Send(ctx, &notify.Message{
		Template: template,
		To:       evt.NotifyEmail(),
		Data: map[string]any{
			"report_ids":    evt.ReportIDs,
			"tier":          evt.Tier,
			"any_portrait":  fs.IncludesPortrait,
			"any_horoscope": fs.IncludesWeeklyHoroscope,
		},
	})
	if err != nil {
		s.stepFailed(lg, result, "notification", err)
		return
	}
	result.NotificationSent = true
}

// trackLifecycle advances the purchase's position in the marketing nurture
// flow. Fire-and-forget: failures are invisible to the rest of the pipeline.
func (s *Service) trackLifecycle(ctx context.Context, lg *zap.SugaredLogger, evt *types.PaymentEvent, result *Result) {
	lg.Infow("lifecycle_tracked", "tier", evt.Tier, "gift_forward", evt.GiftForward)
	if evt.Tier != types.TierCelestial {
		return
	}
	if err := s.disp.Send(ctx, &notify.Message{
		Template: notify.TemplateVipWelcome,
		To:       evt.NotifyEmail(),
		Data:     map[string]any{"tier": evt.Tier},
	}); err != nil {
		s.stepFailed(lg, result, "vip_welcome", err)
	}
}
