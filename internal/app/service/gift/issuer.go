package gift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/notify"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/logctx"
	"github.com/astropaws/fulfillment/pkg/tool"
	"github.com/astropaws/fulfillment/pkg/types"
)

const maxCodeAttempts = 5

type IssueRequest struct {
	PurchaserEmail string
	RecipientName  string
	RecipientEmail string
	GiftMessage    string
	DeliveryMethod models.GiftDeliveryMethod
	AmountCents    int64
	Tier           types.Tier
	PetTiers       []types.PetTier
	PetCount       int
	// ExpiresAt overrides the configured expiry horizon when non-zero.
	ExpiresAt time.Time
}

type IssueResult struct {
	Certificate *models.GiftCertificate `json:"certificate"`
	// NotifyWarning is set when certificate creation succeeded but one of
	// the best-effort notifications did not go out.
	NotifyWarning string `json:"notify_warning,omitempty"`
}

// Issue generates a collision-checked code and persists the certificate in
// an unredeemed state. Notification failures never roll the certificate back.
func (s *Service) Issue(ctx context.Context, req *IssueRequest) (*IssueResult, error) {
	if req == nil || req.PurchaserEmail == "" {
		return nil, fmt.Errorf("issue requires a purchaser email")
	}
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("issue requires a positive amount")
	}
	petCount := req.PetCount
	if petCount <= 0 {
		petCount = 1
	}
	if len(req.PetTiers) > 0 && len(req.PetTiers) != petCount {
		return nil, fmt.Errorf("per-pet tiers must cover every pet: got %d for %d pets", len(req.PetTiers), petCount)
	}

	code, err := s.freshCode(ctx)
	if err != nil {
		return nil, err
	}

	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.cfg.GiftExpiry())
	}

	cert := &models.GiftCertificate{
		ID:             tool.GenerateUUIDV7(),
		Code:           code,
		PurchaserEmail: req.PurchaserEmail,
		DeliveryMethod: req.DeliveryMethod,
		AmountCents:    req.AmountCents,
		Tier:           req.Tier,
		PetCount:       petCount,
		ExpiresAt:      expiresAt,
	}
	if cert.DeliveryMethod == "" {
		cert.DeliveryMethod = models.GiftDeliveryMethodEmail
	}
	if req.RecipientName != "" {
		cert.RecipientName = lo.ToPtr(req.RecipientName)
	}
	if req.RecipientEmail != "" {
		cert.RecipientEmail = lo.ToPtr(req.RecipientEmail)
	}
	if req.GiftMessage != "" {
		cert.GiftMessage = lo.ToPtr(req.GiftMessage)
	}
	if len(req.PetTiers) > 0 {
		cert.PetTiers = datatypes.NewJSONType(req.PetTiers)
	}

	if err := s.db.WithContext(ctx).Create(cert).Error; err != nil {
		return nil, fmt.Errorf("failed to persist gift certificate: %w", err)
	}

	res := &IssueResult{Certificate: cert}
	res.NotifyWarning = s.sendIssueNotifications(ctx, cert)
	return res, nil
}

// freshCode draws codes until one is unused, bounded by maxCodeAttempts. The
// code space makes exhaustion practically unreachable, but it is handled,
// not assumed impossible.
func (s *Service) freshCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		var existing models.GiftCertificate
		err = s.db.WithContext(ctx).Where("code = ?", code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		logctx.FromCtx(ctx, s.log).Warnw("gift_code_collision", "attempt", attempt+1)
	}
	return "", ErrCodeGenerationExhausted
}

func (s *Service) sendIssueNotifications(ctx context.Context, cert *models.GiftCertificate) string {
	lg := logctx.FromCtx(ctx, s.log)
	var warning string

	err := s.disp.Send(ctx, &notify.Message{
		Template: notify.TemplateGiftPurchaser,
		To:       cert.PurchaserEmail,
		Data: map[string]any{
			"code":         cert.Code,
			"amount_cents": cert.AmountCents,
			"pet_count":    cert.PetCount,
			"expires_at":   cert.ExpiresAt,
		},
	})
	if err != nil {
		lg.Errorw("gift_purchaser_notify_failed", "code", cert.Code, "err", err)
		warning = "purchaser notification failed"
	}

	if cert.DeliveryMethod == models.GiftDeliveryMethodEmail && cert.RecipientEmail != nil {
		err := s.disp.Send(ctx, &notify.Message{
			Template: notify.TemplateGiftRecipient,
			To:       *cert.RecipientEmail,
			Data: map[string]any{
				"code":           cert.Code,
				"purchaser":      cert.PurchaserEmail,
				"recipient_name": lo.FromPtr(cert.RecipientName),
				"message":        lo.FromPtr(cert.GiftMessage),
			},
		})
		if err != nil {
			lg.Errorw("gift_recipient_notify_failed", "code", cert.Code, "err", err)
			if warning != "" {
				warning += "; "
			}
			warning += "recipient notification failed"
		}
	}
	return warning
}
