package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astropaws/fulfillment/internal/app/service/support"
	"github.com/astropaws/fulfillment/pkg/response"
)

type supportContactReq struct {
	Email           string `json:"email" binding:"required,email"`
	Message         string `json:"message" binding:"required"`
	IsRefundRequest bool   `json:"is_refund_request"`
}

// @Summary      Inbound support contact
// @Description  Logs the contact and replies or schedules a reply based on the sender's refund-contact history.
// @Tags         Support
// @Accept       json
// @Produce      json
// @Param        request body handlers.supportContactReq true "Inbound message"
// @Success      200  {object}  response.APIResponse[support.InboundResult]
// @Router       /api/v1/support/contact [post]
func ApiSupportContact(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req supportContactReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.HandleInbound(c.Request.Context(), &support.InboundRequest{
			Email:           req.Email,
			Message:         req.Message,
			IsRefundRequest: req.IsRefundRequest,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterSupportRoutes(r gin.IRouter, svc *support.Service) {
	r.POST("/contact", ApiSupportContact(svc))
}
