package auditlog

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/auth"
	"github.com/hrms/hrms/internal/platform/web"
	"github.com/hrms/hrms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/system", auth.RequireRole(auth.RoleAdmin))
	g.GET("/logs", h.List)
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Module: c.QueryParam("module"),
		Action: c.QueryParam("action"),
	}
	if v := c.QueryParam("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil && id > 0 {
			f.UserID = id
		}
	}
	if v := c.QueryParam("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.From = &t
		}
	}
	if v := c.QueryParam("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.To = &end
		}
	}

	p := pagination.FromContext(c)
	logs, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return web.Paginated(c, logs, pagination.New(p, total))
}
