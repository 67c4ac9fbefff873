package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/response"
	"github.com/astropaws/fulfillment/pkg/tool"
	"github.com/astropaws/fulfillment/pkg/types"
)

func giftRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)
	r := gin.New()
	RegisterGiftRoutes(r.Group("/api/v1/gift"), env.gifts)
	return r, env
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) response.APIResponseCode {
	t.Helper()
	var envelope struct {
		Code response.APIResponseCode `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Code
}

func TestApiRedeemGift_DistinctErrorCodes(t *testing.T) {
	r, env := giftRouter(t)

	require.NoError(t, env.db.Create(&models.GiftCertificate{
		ID:             tool.GenerateUUIDV7(),
		Code:           "ACDE-2346",
		PurchaserEmail: "buyer@example.com",
		DeliveryMethod: models.GiftDeliveryMethodEmail,
		AmountCents:    4999,
		Tier:           types.TierEssential,
		PetCount:       1,
		IsRedeemed:     true,
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}).Error)
	require.NoError(t, env.db.Create(&models.GiftCertificate{
		ID:             tool.GenerateUUIDV7(),
		Code:           "MNPQ-7764",
		PurchaserEmail: "buyer@example.com",
		DeliveryMethod: models.GiftDeliveryMethodEmail,
		AmountCents:    4999,
		Tier:           types.TierEssential,
		PetCount:       1,
		ExpiresAt:      time.Now().Add(-time.Hour),
	}).Error)

	cases := []struct {
		name string
		code string
		want response.APIResponseCode
	}{
		{"unknown code", "ZZZZ-9999", response.APIResponseCodeGiftInvalidCode},
		{"already redeemed", "ACDE-2346", response.APIResponseCodeGiftAlreadyRedeemed},
		{"expired", "MNPQ-7764", response.APIResponseCodeGiftExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/v1/gift/redeem", map[string]any{
				"code":       tc.code,
				"report_ids": []string{tool.GenerateUUIDV7()},
			})
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tc.want, decodeCode(t, w))
		})
	}
}

func TestApiIssueThenRedeem_EndToEnd(t *testing.T) {
	r, env := giftRouter(t)

	w := postJSON(t, r, "/api/v1/gift", map[string]any{
		"purchaser_email": "buyer@example.com",
		"recipient_email": "friend@example.com",
		"amount_cents":    4999,
		"tier":            "portrait",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var issued struct {
		Data struct {
			Certificate models.GiftCertificate `json:"certificate"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))
	code := issued.Data.Certificate.Code
	require.NotEmpty(t, code)

	report := seedPendingReport(t, env.db)
	w = postJSON(t, r, "/api/v1/gift/redeem", map[string]any{
		"code":       code,
		"report_ids": []string{report.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.APIResponseCodeOK, decodeCode(t, w))

	var stored models.Report
	require.NoError(t, env.db.Where("id = ?", report.ID).First(&stored).Error)
	require.Equal(t, models.ReportPaymentStatusPaid, stored.PaymentStatus)
}
