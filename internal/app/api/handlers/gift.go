package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astropaws/fulfillment/internal/app/service/gift"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/response"
	"github.com/astropaws/fulfillment/pkg/types"
)

type issueGiftReq struct {
	PurchaserEmail string          `json:"purchaser_email" binding:"required,email"`
	RecipientName  string          `json:"recipient_name"`
	RecipientEmail string          `json:"recipient_email"`
	GiftMessage    string          `json:"gift_message"`
	DeliveryMethod string          `json:"delivery_method"`
	AmountCents    int64           `json:"amount_cents" binding:"required"`
	Tier           types.Tier      `json:"tier" binding:"required"`
	PetTiers       []types.PetTier `json:"pet_tiers"`
	PetCount       int             `json:"pet_count"`
}

type redeemGiftReq struct {
	Code                string            `json:"code" binding:"required"`
	ReportIDs           []string          `json:"report_ids" binding:"required"`
	PhotoURLsByReportID map[string]string `json:"photo_urls_by_report_id"`
}

// @Summary      Issue gift certificate
// @Description  Generates a shareable gift code and persists the certificate unredeemed.
// @Tags         Gift
// @Accept       json
// @Produce      json
// @Param        request body handlers.issueGiftReq true "Certificate details"
// @Success      200  {object}  response.APIResponse[gift.IssueResult]
// @Router       /api/v1/gift [post]
func ApiIssueGift(svc *gift.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req issueGiftReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Issue(c.Request.Context(), &gift.IssueRequest{
			PurchaserEmail: req.PurchaserEmail,
			RecipientName:  req.RecipientName,
			RecipientEmail: req.RecipientEmail,
			GiftMessage:    req.GiftMessage,
			DeliveryMethod: models.GiftDeliveryMethod(req.DeliveryMethod),
			AmountCents:    req.AmountCents,
			Tier:           req.Tier,
			PetTiers:       req.PetTiers,
			PetCount:       req.PetCount,
		})
		if err != nil {
			if errors.Is(err, gift.ErrCodeGenerationExhausted) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeGiftRetryable, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Validate gift code
// @Description  Read-only precheck: returns tier and pet-count info without claiming the code.
// @Tags         Gift
// @Produce      json
// @Param        code query string true "Gift code"
// @Success      200  {object}  response.APIResponse[gift.CertificateInfo]
// @Router       /api/v1/gift/validate [get]
func ApiValidateGift(svc *gift.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := svc.Validate(c.Request.Context(), c.Query("code"))
		if err != nil {
			c.JSON(http.StatusOK, giftError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Redeem gift code
// @Description  Atomically claims a gift code and unlocks the named reports. At most one claim ever succeeds per code.
// @Tags         Gift
// @Accept       json
// @Produce      json
// @Param        request body handlers.redeemGiftReq true "Redemption request"
// @Success      200  {object}  response.APIResponse[gift.RedemptionResult]
// @Router       /api/v1/gift/redeem [post]
func ApiRedeemGift(svc *gift.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req redeemGiftReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Redeem(c.Request.Context(), &gift.RedeemRequest{
			Code:                req.Code,
			ReportIDs:           req.ReportIDs,
			PhotoURLsByReportID: req.PhotoURLsByReportID,
		})
		if err != nil {
			c.JSON(http.StatusOK, giftError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// giftError maps redemption errors to distinct response codes so the
// storefront can show "already used" versus "invalid code".
func giftError(err error) *response.APIResponse[any] {
	switch {
	case errors.Is(err, gift.ErrAlreadyRedeemed):
		return response.ErrorT[any](response.APIResponseCodeGiftAlreadyRedeemed, err.Error())
	case errors.Is(err, gift.ErrExpired):
		return response.ErrorT[any](response.APIResponseCodeGiftExpired, err.Error())
	case errors.Is(err, gift.ErrPetCountMismatch):
		return response.ErrorT[any](response.APIResponseCodeGiftPetCountMismatch, err.Error())
	case errors.Is(err, gift.ErrInvalidCode):
		return response.ErrorT[any](response.APIResponseCodeGiftInvalidCode, err.Error())
	case errors.Is(err, gift.ErrClaimFailed):
		return response.ErrorT[any](response.APIResponseCodeGiftRetryable, err.Error())
	default:
		return response.ErrorT[any](response.APIResponseCodeError, err.Error())
	}
}

func RegisterGiftRoutes(r gin.IRouter, svc *gift.Service) {
	r.POST("", ApiIssueGift(svc))
	r.GET("/validate", ApiValidateGift(svc))
	r.POST("/redeem", ApiRedeemGift(svc))
}
