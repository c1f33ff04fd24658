package subscriptions

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"madrasa-backend/internal/platform/apierr"
	"madrasa-backend/internal/report"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.PUT("/subscriptions/:student_id/:month", h.SetPayment)
	r.GET("/subscriptions", h.MonthOverview)
}

func (h *Handler) SetPayment(c *gin.Context) {
	var req SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.SetPayment(c.Request.Context(), c.Param("student_id"), c.Param("month"), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) MonthOverview(c *gin.Context) {
	month := c.DefaultQuery("month", report.CurrentPeriod(time.Now()))
	items, err := h.svc.MonthOverview(c.Request.Context(), month)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items), "month": month})
}
