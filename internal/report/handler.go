package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"madrasa-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// authed: ログイン済み全員（教師含む）。admin: 財務・アラート系。
func RegisterRoutes(authed, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	authed.GET("/reports/students/:student_id", h.StudentReport)
	authed.GET("/dashboard/stats", h.Stats)

	admin.GET("/reports/finance", h.Finance)
	admin.GET("/reports/finance/export", h.ExportFinance)
	admin.GET("/dashboard/alerts", h.Alerts)
}

// GET /reports/finance?month=YYYY-MM
func (h *Handler) Finance(c *gin.Context) {
	month := c.DefaultQuery("month", CurrentPeriod(time.Now()))
	rep, err := h.svc.Finance(c.Request.Context(), month)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /reports/finance/export?month=YYYY-MM
func (h *Handler) ExportFinance(c *gin.Context) {
	month := c.DefaultQuery("month", CurrentPeriod(time.Now()))
	rep, err := h.svc.Finance(c.Request.Context(), month)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="finance-`+month+`.csv"`)
	c.Status(http.StatusOK)
	if err := WriteFinanceCSV(c.Writer, rep); err != nil {
		// ヘッダ送出後なのでステータスは変えられない。ログだけ残す。
		_ = c.Error(err)
	}
}

// GET /reports/students/:student_id?months=4
func (h *Handler) StudentReport(c *gin.Context) {
	months := DefaultReportMonths
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierr.DTO(apierr.CodeInvalidArgument, "months must be a number"))
			return
		}
		months = n
	}

	rep, err := h.svc.StudentReport(c.Request.Context(), c.Param("student_id"), months, time.Now())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /dashboard/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /dashboard/alerts
func (h *Handler) Alerts(c *gin.Context) {
	alerts, err := h.svc.Alerts(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, alerts)
}
