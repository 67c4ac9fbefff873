package fulfillment

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"

	"github.com/astropaws/fulfillment/pkg/types"
)

const testSecret = "test-webhook-secret"

func signEvent(t *testing.T, evt *types.PaymentEvent, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &eventClaims{
		StandardClaims: jwt.StandardClaims{IssuedAt: time.Now().Unix()},
		Event:          evt,
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testEvent() *types.PaymentEvent {
	return &types.PaymentEvent{
		EventID:        "evt-1",
		PurchaserEmail: "buyer@example.com",
		ReportIDs:      []string{"report-1"},
		Tier:           types.TierPortrait,
		AmountCents:    4999,
		Currency:       "usd",
		OccurredAt:     time.Now(),
	}
}

func TestParseEvent_ValidSignature(t *testing.T) {
	payload := signEvent(t, testEvent(), testSecret)

	evt, err := ParseEvent(payload, testSecret)
	require.NoError(t, err)
	require.Equal(t, "evt-1", evt.EventID)
	require.Equal(t, []string{"report-1"}, evt.ReportIDs)
	require.Equal(t, types.TierPortrait, evt.Tier)
}

func TestParseEvent_WrongSecret(t *testing.T) {
	payload := signEvent(t, testEvent(), "some-other-secret")

	_, err := ParseEvent(payload, testSecret)
	require.ErrorIs(t, err, ErrUnauthorizedEvent)
}

func TestParseEvent_GarbagePayload(t *testing.T) {
	_, err := ParseEvent("not.a.jws", testSecret)
	require.ErrorIs(t, err, ErrUnauthorizedEvent)
}

func TestParseEvent_MissingSecret(t *testing.T) {
	payload := signEvent(t, testEvent(), testSecret)

	_, err := ParseEvent(payload, "")
	require.Error(t, err)
}

func TestParseEvent_IncompleteEvent(t *testing.T) {
	evt := testEvent()
	evt.ReportIDs = nil
	payload := signEvent(t, evt, testSecret)

	_, err := ParseEvent(payload, testSecret)
	require.Error(t, err)

	evt = testEvent()
	evt.EventID = ""
	payload = signEvent(t, evt, testSecret)

	_, err = ParseEvent(payload, testSecret)
	require.Error(t, err)
}
