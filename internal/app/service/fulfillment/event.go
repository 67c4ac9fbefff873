package fulfillment

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"

	"github.com/astropaws/fulfillment/pkg/types"
)

// ErrUnauthorizedEvent marks a webhook delivery whose signature could not be
// verified against the configured secret. Nothing is processed for it.
var ErrUnauthorizedEvent = errors.New("payment event signature could not be verified")

// eventClaims is the JWS payload the payment processor signs with the shared
// webhook secret.
type eventClaims struct {
	jwt.StandardClaims
	Event *types.PaymentEvent `json:"event"`
}

// ParseEvent verifies the JWS signature and decodes the payment event. This
// is the only hard security gate in the pipeline: any verification failure
// rejects the delivery as unauthorized.
func ParseEvent(payload string, secret string) (*types.PaymentEvent, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret is not configured")
	}

	claims := &eventClaims{}
	token, err := jwt.ParseWithClaims(payload, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorizedEvent, err)
	}

	evt := claims.Event
	if evt == nil || evt.EventID == "" || len(evt.ReportIDs) == 0 {
		return nil, fmt.Errorf("payment event is missing event_id or report_ids")
	}
	return evt, nil
}
