package gift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/benefit"
	"github.com/astropaws/fulfillment/internal/app/service/notify"
	"github.com/astropaws/fulfillment/internal/app/service/tier"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/config"
	"github.com/astropaws/fulfillment/pkg/metrics"
	"github.com/astropaws/fulfillment/pkg/types"
)

// Service issues, validates and redeems gift certificates.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *zap.SugaredLogger
	tiers    *tier.Resolver
	benefits *benefit.Service
	disp     notify.Dispatcher
	pipeline *metrics.Pipeline
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, tiers *tier.Resolver, benefits *benefit.Service, disp notify.Dispatcher, pipeline *metrics.Pipeline) *Service {
	return &Service{cfg: cfg, db: db, log: log, tiers: tiers, benefits: benefits, disp: disp, pipeline: pipeline}
}

// CertificateInfo is the read-only view returned by Validate.
type CertificateInfo struct {
	Code         string          `json:"code"`
	PetCount     int             `json:"pet_count"`
	Tier         types.Tier      `json:"tier"`
	PetTiers     []types.PetTier `json:"pet_tiers,omitempty"`
	AnyPortrait  bool            `json:"any_portrait"`
	AnyHoroscope bool            `json:"any_horoscope"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// Validate prechecks a code without claiming it. It never sets is_redeemed.
func (s *Service) Validate(ctx context.Context, code string) (*CertificateInfo, error) {
	cert, err := s.lookup(ctx, code, time.Now())
	if err != nil {
		return nil, err
	}
	return s.describe(cert), nil
}

// lookup runs the shared fail-fast validation chain: format, existence,
// unredeemed, unexpired. Pet-count checks belong to Redeem since Validate
// has no report list.
func (s *Service) lookup(ctx context.Context, code string, now time.Time) (*models.GiftCertificate, error) {
	code = NormalizeCode(code)
	if !ValidCodeFormat(code) {
		return nil, ErrInvalidCode
	}
	var cert models.GiftCertificate
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to load gift certificate: %w", err)
	}
	if cert.IsRedeemed {
		return nil, ErrAlreadyRedeemed
	}
	if cert.Expired(now) {
		return nil, ErrExpired
	}
	return &cert, nil
}

func (s *Service) describe(cert *models.GiftCertificate) *CertificateInfo {
	info := &CertificateInfo{
		Code:      cert.Code,
		PetCount:  cert.PetCount,
		Tier:      cert.Tier,
		PetTiers:  cert.PetTiers.Data(),
		ExpiresAt: cert.ExpiresAt,
	}
	if len(info.PetTiers) > 0 {
		res := s.tiers.ResolvePets(info.PetTiers)
		info.AnyPortrait = res.AnyPortrait
		info.AnyHoroscope = res.AnyHoroscope
	} else {
		fs := s.tiers.Resolve(cert.Tier)
		info.AnyPortrait = fs.IncludesPortrait
		info.AnyHoroscope = fs.IncludesWeeklyHoroscope
	}
	return info
}
