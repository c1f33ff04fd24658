package evaluations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"madrasa-backend/internal/platform/apierr"
	"madrasa-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/evaluations", h.Create)
	r.GET("/evaluations", h.ListByStudent)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.DTO(apierr.CodeInvalidArgument, "invalid json"))
		return
	}

	// 教師は自分名義でしか書けない。アカウントIDは教師行のidと同一運用。
	if auth.RoleFrom(c) == auth.RoleTeacher {
		req.TeacherID = auth.SubjectFrom(c)
	}

	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.Header("Location", "/evaluations/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListByStudent(c *gin.Context) {
	limit := DefaultLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	items, err := h.svc.ListByStudent(c.Request.Context(), c.Query("student_id"), limit)
	if err != nil {
		c.JSON(apierr.ToHTTPStatus(err), apierr.From(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
