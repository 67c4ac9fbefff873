package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/astropaws/fulfillment/internal/models"
)

// SupportReplyKind selects which support reply the provider composes.
type SupportReplyKind string

const (
	SupportReplyStandard    SupportReplyKind = "standard"
	SupportReplyFeedbackAsk SupportReplyKind = "feedback_ask"
	SupportReplyRefundOK    SupportReplyKind = "refund_confirmation"
)

// Provider is the content-generation collaborator: opaque, possibly slow,
// possibly failing. Callers treat every call as best-effort and fire-once.
type Provider interface {
	// GenerateReport returns the structured astrology content for a pet.
	GenerateReport(ctx context.Context, pet *models.PetProfile, occasion string) (json.RawMessage, error)
	// GeneratePortrait returns a portrait reference for a report, given a
	// source photo.
	GeneratePortrait(ctx context.Context, report *models.Report, photoURL string) (string, error)
	// ComposeSupportReply returns the reply body for an inbound support message.
	ComposeSupportReply(ctx context.Context, kind SupportReplyKind, inbound string) (string, error)
}

// StaticProvider is the deterministic default used until a hosted generator
// is wired in. It never fails.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

func (p *StaticProvider) GenerateReport(_ context.Context, pet *models.PetProfile, occasion string) (json.RawMessage, error) {
	if pet == nil {
		return nil, fmt.Errorf("nil pet profile")
	}
	payload := map[string]any{
		"pet_name": pet.Name,
		"species":  pet.Species,
		"occasion": occasion,
		"sections": []string{"sun_sign", "moon_sign", "personality", "year_ahead"},
	}
	return json.Marshal(payload)
}

func (p *StaticProvider) GeneratePortrait(_ context.Context, report *models.Report, photoURL string) (string, error) {
	if report == nil || photoURL == "" {
		return "", fmt.Errorf("portrait requires a report and a source photo")
	}
	return fmt.Sprintf("portraits/%s.png", report.ID), nil
}

func (p *StaticProvider) ComposeSupportReply(_ context.Context, kind SupportReplyKind, _ string) (string, error) {
	switch kind {
	case SupportReplyFeedbackAsk:
		return "We'd love to hear what went wrong before we process anything. Could you share a bit more?", nil
	case SupportReplyRefundOK:
		return "Your refund has been confirmed and will be processed shortly.", nil
	default:
		return "Thanks for reaching out! Our team will get back to you as soon as possible.", nil
	}
}
