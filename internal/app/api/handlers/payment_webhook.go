package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/astropaws/fulfillment/internal/app/service/eventlog"
	"github.com/astropaws/fulfillment/internal/app/service/fulfillment"
	"github.com/astropaws/fulfillment/internal/models"
	cfgpkg "github.com/astropaws/fulfillment/pkg/config"
	"github.com/astropaws/fulfillment/pkg/logctx"
	"github.com/astropaws/fulfillment/pkg/response"
)

// @Summary      Payment webhook
// @Description  Handles signed payment confirmation events. The request body is a JWS payload signed with the shared webhook secret.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body string true "Signed payment confirmation event"
// @Success      200  {object}  response.APIResponse[fulfillment.Result]
// @Failure      401  {object}  response.APIResponse[any]
// @Router       /api/v1/payment/webhook [post]
func ApiPaymentWebhook(svc *fulfillment.Service, events *eventlog.Service, cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := logctx.FromGin(c, svc.Logger())
		lg.Infow("payment_webhook_received")

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		evt, err := fulfillment.ParseEvent(string(body), cfg.Webhook.Secret)
		if err != nil {
			// unverifiable events are rejected without processing anything
			lg.Warnw("payment_webhook_rejected", "err", err.Error())
			c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
			return
		}

		traceID := c.GetString("traceID")
		payload, _ := json.Marshal(evt)
		events.Save(c.Request.Context(), &models.PaymentEventLog{
			EventID: evt.EventID,
			TraceID: traceID,
			Payload: datatypes.JSON(payload),
			Status:  models.PaymentEventLogStatusReceived,
		})

		result := svc.HandlePaymentEvent(c.Request.Context(), evt)

		status := models.PaymentEventLogStatusHandled
		if len(result.StepErrors) > 0 {
			status = models.PaymentEventLogStatusHandleFailed
		}
		resBytes, _ := json.Marshal(result)
		resJSON := datatypes.JSON(resBytes)
		events.Save(c.Request.Context(), &models.PaymentEventLog{
			EventID: evt.EventID,
			TraceID: traceID,
			Payload: datatypes.JSON(payload),
			Result:  &resJSON,
			Status:  status,
		})

		// the payment already succeeded: partial pipeline failures are never
		// reported back to the payment source
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, svc *fulfillment.Service, events *eventlog.Service, cfg *cfgpkg.Config) {
	r.POST("/webhook", ApiPaymentWebhook(svc, events, cfg))
}
