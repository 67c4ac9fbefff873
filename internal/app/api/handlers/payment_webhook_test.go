package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/benefit"
	"github.com/astropaws/fulfillment/internal/app/service/content"
	"github.com/astropaws/fulfillment/internal/app/service/eventlog"
	"github.com/astropaws/fulfillment/internal/app/service/fulfillment"
	"github.com/astropaws/fulfillment/internal/app/service/gift"
	"github.com/astropaws/fulfillment/internal/app/service/notify"
	"github.com/astropaws/fulfillment/internal/app/service/tier"
	"github.com/astropaws/fulfillment/internal/models"
	cfgpkg "github.com/astropaws/fulfillment/pkg/config"
	"github.com/astropaws/fulfillment/pkg/tool"
	"github.com/astropaws/fulfillment/pkg/types"
)

const testWebhookSecret = "test-webhook-secret"

type testEnv struct {
	db     *gorm.DB
	cfg    *cfgpkg.Config
	gifts  *gift.Service
	events *eventlog.Service
	svc    *fulfillment.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Report{},
		&models.GiftCertificate{},
		&models.HoroscopeSubscription{},
		&models.AffiliateReferral{},
		&models.Coupon{},
		&models.PaymentEventLog{},
	))

	log := zap.NewNop().Sugar()
	cfg := &cfgpkg.Config{
		Webhook:   cfgpkg.WebhookConfig{Secret: testWebhookSecret},
		Affiliate: cfgpkg.AffiliateConfig{CommissionRate: 0.2},
		Gift:      cfgpkg.GiftConfig{ExpiryDays: 365},
	}
	nop := notify.DispatcherFunc(func(_ context.Context, _ *notify.Message) error { return nil })

	tiers := tier.NewResolver(log)
	benefits := benefit.NewService(db, log, content.NewStaticProvider())
	gifts := gift.NewService(cfg, db, log, tiers, benefits, nop, nil)
	svc := fulfillment.NewService(cfg, db, log, tiers, benefits, gifts, nop, nil)
	return &testEnv{
		db:     db,
		cfg:    cfg,
		gifts:  gifts,
		events: eventlog.New(db, log),
		svc:    svc,
	}
}

func signedEvent(t *testing.T, evt *types.PaymentEvent, secret string) string {
	t.Helper()
	claims := jwt.MapClaims{"event": evt, "iat": time.Now().Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func seedPendingReport(t *testing.T, db *gorm.DB) *models.Report {
	t.Helper()
	report := &models.Report{
		ID:         tool.GenerateUUIDV7(),
		OwnerEmail: "buyer@example.com",
		Pet:        datatypes.NewJSONType(&models.PetProfile{Name: "Milo", Species: "dog", BirthDate: "2019-02-11"}),
		Occasion:   types.OccasionModeStandard,
	}
	require.NoError(t, db.Create(report).Error)
	return report
}

func TestApiPaymentWebhook_RejectsUnsignedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)
	r := gin.New()
	r.POST("/api/v1/payment/webhook", ApiPaymentWebhook(env.svc, env.events, env.cfg))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook", strings.NewReader("not.a.jws"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "40100")

	// nothing was processed
	var count int64
	require.NoError(t, env.db.Model(&models.PaymentEventLog{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestApiPaymentWebhook_RejectsWrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)
	r := gin.New()
	r.POST("/api/v1/payment/webhook", ApiPaymentWebhook(env.svc, env.events, env.cfg))

	report := seedPendingReport(t, env.db)
	payload := signedEvent(t, &types.PaymentEvent{
		EventID:        "evt-1",
		PurchaserEmail: "buyer@example.com",
		ReportIDs:      []string{report.ID},
		Tier:           types.TierEssential,
		AmountCents:    1999,
	}, "wrong-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook", bytes.NewReader([]byte(payload)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var stored models.Report
	require.NoError(t, env.db.Where("id = ?", report.ID).First(&stored).Error)
	require.Equal(t, models.ReportPaymentStatusPending, stored.PaymentStatus)
}

func TestApiPaymentWebhook_ProcessesVerifiedEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)
	r := gin.New()
	r.POST("/api/v1/payment/webhook", ApiPaymentWebhook(env.svc, env.events, env.cfg))

	report := seedPendingReport(t, env.db)
	payload := signedEvent(t, &types.PaymentEvent{
		EventID:        "evt-2",
		PurchaserEmail: "buyer@example.com",
		ReportIDs:      []string{report.ID},
		Tier:           types.TierPortrait,
		AmountCents:    4999,
	}, testWebhookSecret)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook", bytes.NewReader([]byte(payload)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "evt-2")

	var stored models.Report
	require.NoError(t, env.db.Where("id = ?", report.ID).First(&stored).Error)
	require.Equal(t, models.ReportPaymentStatusPaid, stored.PaymentStatus)
	require.True(t, stored.HasContent())
}
