package benefit

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/content"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/tool"
	"github.com/astropaws/fulfillment/pkg/types"
)

// countingProvider wraps the static provider and counts report generations,
// so at-most-once behavior is observable.
type countingProvider struct {
	content.StaticProvider
	reportCalls int
}

func (p *countingProvider) GenerateReport(ctx context.Context, pet *models.PetProfile, occasion string) (json.RawMessage, error) {
	p.reportCalls++
	return p.StaticProvider.GenerateReport(ctx, pet, occasion)
}

type failingProvider struct {
	content.StaticProvider
}

func (p *failingProvider) GenerateReport(_ context.Context, _ *models.PetProfile, _ string) (json.RawMessage, error) {
	return nil, fmt.Errorf("generator unavailable")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Report{}, &models.HoroscopeSubscription{}))
	return db
}

func seedReport(t *testing.T, db *gorm.DB) *models.Report {
	t.Helper()
	report := &models.Report{
		ID:         tool.GenerateUUIDV7(),
		OwnerEmail: "owner@example.com",
		Pet:        datatypes.NewJSONType(&models.PetProfile{Name: "Biscuit", Species: "dog", BirthDate: "2020-06-15"}),
		Occasion:   types.OccasionModeStandard,
	}
	require.NoError(t, db.Create(report).Error)
	return report
}

func TestMarkPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), content.NewStaticProvider())
	report := seedReport(t, db)

	require.NoError(t, svc.MarkPaid(context.Background(), report.ID, types.TierPortrait, types.OccasionModeGift))

	var stored models.Report
	require.NoError(t, db.Where("id = ?", report.ID).First(&stored).Error)
	require.Equal(t, models.ReportPaymentStatusPaid, stored.PaymentStatus)
	require.Equal(t, types.TierPortrait, stored.Tier)
	require.Equal(t, types.OccasionModeGift, stored.Occasion)

	// re-marking is harmless
	require.NoError(t, svc.MarkPaid(context.Background(), report.ID, types.TierPortrait, types.OccasionModeGift))
}

func TestMarkPaid_UnknownReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), content.NewStaticProvider())

	err := svc.MarkPaid(context.Background(), tool.GenerateUUIDV7(), types.TierEssential, "")
	require.Error(t, err)
}

func TestApply_ContentAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	provider := &countingProvider{}
	svc := NewService(db, zap.NewNop().Sugar(), provider)
	report := seedReport(t, db)

	out := svc.Apply(context.Background(), report, types.FeatureSet{}, "", types.HoroscopeCadenceWeekly)
	require.True(t, out.ContentGenerated)
	require.Equal(t, 1, provider.reportCalls)

	// reload and apply again: existing content blocks regeneration
	var reloaded models.Report
	require.NoError(t, db.Where("id = ?", report.ID).First(&reloaded).Error)
	require.True(t, reloaded.HasContent())

	out = svc.Apply(context.Background(), &reloaded, types.FeatureSet{}, "", types.HoroscopeCadenceWeekly)
	require.False(t, out.ContentGenerated)
	require.Equal(t, 1, provider.reportCalls)
}

func TestApply_GeneratorFailureLeavesContentEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), &failingProvider{})
	report := seedReport(t, db)

	out := svc.Apply(context.Background(), report, types.FeatureSet{}, "", types.HoroscopeCadenceWeekly)
	require.False(t, out.ContentGenerated)

	var stored models.Report
	require.NoError(t, db.Where("id = ?", report.ID).First(&stored).Error)
	require.False(t, stored.HasContent())
}

func TestApply_PortraitNeedsFeatureAndPhoto(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), content.NewStaticProvider())

	// feature present, no photo: skipped without error
	r1 := seedReport(t, db)
	out := svc.Apply(context.Background(), r1, types.FeatureSet{IncludesPortrait: true}, "", "")
	require.False(t, out.PortraitGenerated)

	// feature absent, photo present: never generated
	r2 := seedReport(t, db)
	out = svc.Apply(context.Background(), r2, types.FeatureSet{}, "https://cdn.example.com/p.jpg", "")
	require.False(t, out.PortraitGenerated)

	// both present
	r3 := seedReport(t, db)
	out = svc.Apply(context.Background(), r3, types.FeatureSet{IncludesPortrait: true}, "https://cdn.example.com/p.jpg", "")
	require.True(t, out.PortraitGenerated)

	var stored models.Report
	require.NoError(t, db.Where("id = ?", r3.ID).First(&stored).Error)
	require.NotNil(t, stored.PortraitURL)
	require.NotNil(t, stored.PhotoURL)
}

func TestEnrollHoroscope_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), content.NewStaticProvider())
	report := seedReport(t, db)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.EnrollHoroscope(context.Background(), report.OwnerEmail, report.ID, types.HoroscopeCadenceWeekly))
	}

	var count int64
	require.NoError(t, db.Model(&models.HoroscopeSubscription{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// a different report for the same email is its own subscription
	other := seedReport(t, db)
	require.NoError(t, svc.EnrollHoroscope(context.Background(), report.OwnerEmail, other.ID, types.HoroscopeCadenceMonthly))
	require.NoError(t, db.Model(&models.HoroscopeSubscription{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestEnrollHoroscope_RequiresEmailAndReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), content.NewStaticProvider())

	require.Error(t, svc.EnrollHoroscope(context.Background(), "", "r-1", ""))
	require.Error(t, svc.EnrollHoroscope(context.Background(), "a@example.com", "", ""))
}

func TestCancelHoroscope(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), content.NewStaticProvider())
	report := seedReport(t, db)

	require.NoError(t, svc.EnrollHoroscope(context.Background(), report.OwnerEmail, report.ID, types.HoroscopeCadenceWeekly))
	require.NoError(t, svc.CancelHoroscope(context.Background(), report.OwnerEmail, report.ID))

	var sub models.HoroscopeSubscription
	require.NoError(t, db.Where("report_id = ?", report.ID).First(&sub).Error)
	require.Equal(t, models.HoroscopeSubscriptionStatusCancelled, sub.Status)
	require.NotNil(t, sub.CancelledAt)

	// cancelling an already cancelled subscription is a no-op
	require.NoError(t, svc.CancelHoroscope(context.Background(), report.OwnerEmail, report.ID))
}
