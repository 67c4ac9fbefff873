package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/astropaws/fulfillment/internal/app/service/benefit"
	"github.com/astropaws/fulfillment/internal/models"
	"github.com/astropaws/fulfillment/pkg/response"
	"github.com/astropaws/fulfillment/pkg/tool"
)

type intakeReportReq struct {
	OwnerEmail string            `json:"owner_email" binding:"required,email"`
	Pet        models.PetProfile `json:"pet" binding:"required"`
	PhotoURL   string            `json:"photo_url"`
}

// @Summary      Report intake
// @Description  Creates a pending report for one pet. Payment and fulfillment happen later via the webhook.
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        request body handlers.intakeReportReq true "Pet details"
// @Success      200  {object}  response.APIResponse[models.Report]
// @Router       /api/v1/report [post]
func ApiIntakeReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req intakeReportReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		pet := req.Pet
		report := &models.Report{
			ID:            tool.GenerateUUIDV7(),
			OwnerEmail:    req.OwnerEmail,
			Pet:           datatypes.NewJSONType(&pet),
			PaymentStatus: models.ReportPaymentStatusPending,
		}
		if req.PhotoURL != "" {
			report.PhotoURL = &req.PhotoURL
		}
		if err := db.WithContext(c.Request.Context()).Create(report).Error; err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(report))
	}
}

type cancelHoroscopeReq struct {
	Email    string `json:"email" binding:"required,email"`
	ReportID string `json:"report_id" binding:"required"`
}

// @Summary      Cancel horoscope subscription
// @Description  Flips the (email, report) subscription to cancelled. The row is kept.
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        request body handlers.cancelHoroscopeReq true "Subscription key"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/horoscope/cancel [post]
func ApiCancelHoroscope(benefits *benefit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cancelHoroscopeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := benefits.CancelHoroscope(c.Request.Context(), req.Email, req.ReportID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterReportRoutes(r gin.IRouter, db *gorm.DB, benefits *benefit.Service) {
	r.POST("/report", ApiIntakeReport(db))
	r.POST("/horoscope/cancel", ApiCancelHoroscope(benefits))
}
