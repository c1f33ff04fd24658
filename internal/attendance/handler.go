package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"madrasa-backend/internal/platform/apierr"
	"madrasa-backend/internal/report"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/attendance/sessions", h.SaveSession)
	r.GET("/attendance/sessions", h.Session)
	r.GET("/attendance", h.List)
	r.GET("/attendance/absentees", h.Absentees)
}

func (h *Handler) SaveSession(c *gin.Context) {
	var req SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.SaveSession(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Session(c *gin.Context) {
	q := SessionQuery{
		ClassID:       c.Query("class_id"),
		MonthYear:     c.Query("month"),
		DayNumber:     atoiDef(c.Query("day"), 0),
		SessionNumber: atoiDef(c.Query("session"), 0),
	}
	items, err := h.svc.Session(c.Request.Context(), q)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if v := c.Query("student_id"); v != "" {
		q.StudentID = &v
	}
	if v := c.Query("class_id"); v != "" {
		q.ClassID = &v
	}
	if v := c.Query("month"); v != "" {
		q.MonthYear = &v
	}
	if v := c.Query("status"); v != "" {
		q.Status = &v
	}
	q.Limit = atoiDef(c.Query("limit"), DefaultPageLimit)
	q.Offset = atoiDef(c.Query("offset"), 0)

	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "next_offset": nextOffset(total, q.Limit, q.Offset)})
}

func (h *Handler) Absentees(c *gin.Context) {
	threshold := atoiDef(c.Query("threshold"), report.DefaultAbsenceThreshold)
	items, err := h.svc.Absentees(c.Request.Context(), c.Query("class_id"), c.Query("month"), threshold)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items), "threshold": threshold})
}

// ===== helpers =====

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

func nextOffset(total int64, limit, offset int) int {
	n := offset + limit
	if n >= int(total) {
		return 0
	}
	return n
}
