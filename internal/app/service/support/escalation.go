package support

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/content"
	"github.com/astropaws/fulfillment/internal/app/service/notify"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/config"
	"github.com/astropaws/fulfillment/pkg/logctx"
	"github.com/astropaws/fulfillment/pkg/tool"
)

type Disposition string

const (
	DispositionReplied   Disposition = "replied"
	DispositionScheduled Disposition = "scheduled"
)

type InboundRequest struct {
	Email           string
	Message         string
	IsRefundRequest bool
}

type InboundResult struct {
	Disposition Disposition `json:"disposition"`
	// ScheduledFor is set when the reply was persisted for a later send.
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

// Service is the support escalation state machine. The state is derived
// fresh from the count of prior refund-tagged contacts on every message;
// there is no persisted stage field that could drift from the rows.
type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	log     *zap.SugaredLogger
	content content.Provider
	disp    notify.Dispatcher

	// delay is swapped out in tests
	delay func(time.Duration)
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, provider content.Provider, disp notify.Dispatcher) *Service {
	return &Service{cfg: cfg, db: db, log: log, content: provider, disp: disp, delay: time.Sleep}
}

// HandleInbound logs the contact first, so the next message's count is
// always correct, then picks one of three behaviors from the prior
// refund-contact count: immediate standard reply (with a cooldown delay for
// refund-flagged messages), a feedback request scheduled 24h out, or an
// immediate refund confirmation.
func (s *Service) HandleInbound(ctx context.Context, req *InboundRequest) (*InboundResult, error) {
	if req == nil || req.Email == "" || req.Message == "" {
		return nil, fmt.Errorf("inbound contact requires email and message")
	}
	lg := logctx.FromCtx(ctx, s.log).With("email", req.Email)

	prior, err := s.priorRefundCount(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to count prior refund contacts: %w", err)
	}

	attempt := &models.ContactAttempt{
		ID:              tool.GenerateUUIDV7(),
		Email:           req.Email,
		Message:         req.Message,
		IsRefundRequest: req.IsRefundRequest,
	}
	if err := s.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return nil, fmt.Errorf("failed to log contact attempt: %w", err)
	}

	if !req.IsRefundRequest {
		return s.replyNow(ctx, req, content.SupportReplyStandard, 0)
	}

	switch {
	case prior == 0:
		// first refund contact: same reply, behind a cooldown
		return s.replyNow(ctx, req, content.SupportReplyStandard, s.cfg.RefundCooldown())
	case prior == 1:
		return s.scheduleFeedback(ctx, lg, req)
	default:
		return s.replyNow(ctx, req, content.SupportReplyRefundOK, 0)
	}
}

func (s *Service) priorRefundCount(ctx context.Context, email string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ContactAttempt{}).
		Where("email = ? AND is_refund_request = ?", email, true).
		Count(&count).Error
	return count, err
}

func (s *Service) replyNow(ctx context.Context, req *InboundRequest, kind content.SupportReplyKind, cooldown time.Duration) (*InboundResult, error) {
	body, err := s.content.ComposeSupportReply(ctx, kind, req.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to compose reply: %w", err)
	}
	if cooldown > 0 {
		s.delay(cooldown)
	}
	template := notify.TemplateSupportReply
	if kind == content.SupportReplyRefundOK {
		template = notify.TemplateRefundConfirmation
	}
	err = s.disp.Send(ctx, &notify.Message{
		Template: template,
		To:       req.Email,
		Data:     map[string]any{"body": body},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send reply: %w", err)
	}
	return &InboundResult{Disposition: DispositionReplied}, nil
}

func (s *Service) scheduleFeedback(ctx context.Context, lg *zap.SugaredLogger, req *InboundRequest) (*InboundResult, error) {
	body, err := s.content.ComposeSupportReply(ctx, content.SupportReplyFeedbackAsk, req.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to compose feedback request: %w", err)
	}
	sendAt := time.Now().Add(s.cfg.FeedbackDelay())
	scheduled := &models.ScheduledEmail{
		ID:      tool.GenerateUUIDV7(),
		To:      req.Email,
		Subject: "Before we process your refund",
		Body:    body,
		SendAt:  sendAt,
		Status:  models.ScheduledEmailStatusScheduled,
	}
	if err := s.db.WithContext(ctx).Create(scheduled).Error; err != nil {
		return nil, fmt.Errorf("failed to persist scheduled reply: %w", err)
	}
	lg.Infow("feedback_request_scheduled", "send_at", sendAt)
	return &InboundResult{Disposition: DispositionScheduled, ScheduledFor: &sendAt}, nil
}
