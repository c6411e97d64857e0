package statistics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/auth"
	"github.com/hrms/hrms/internal/platform/web"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the statistics endpoints for admins and doctors.
// Extra middleware (the response cache) is appended by the caller.
func (h *Handler) RegisterRoutes(api *echo.Group, extra ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{auth.RequireRole("doctor")}, extra...)
	g := api.Group("/statistics", mw...)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/visits", h.Visits)
	g.GET("/visits/trend", h.VisitTrend)
	g.GET("/departments", h.Departments)
	g.GET("/doctors", h.Doctors)
	g.GET("/patients", h.Patients)
	g.GET("/diseases", h.Diseases)
	g.GET("/prescriptions", h.Prescriptions)
	g.GET("/report", h.Report)
}

func (h *Handler) rangeFromQuery(c echo.Context) DateRange {
	var from, to *time.Time
	if v := c.QueryParam("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = &t
		}
	}
	if v := c.QueryParam("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = &t
		}
	}
	return h.svc.ResolveRange(from, to)
}

func limitFromQuery(c echo.Context) int {
	n, _ := strconv.Atoi(c.QueryParam("limit"))
	return n
}

func (h *Handler) Dashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return web.OK(c, d)
}

func (h *Handler) Visits(c echo.Context) error {
	v, err := h.svc.Visits(c.Request().Context(), h.rangeFromQuery(c))
	if err != nil {
		return err
	}
	return web.OK(c, v)
}

func (h *Handler) VisitTrend(c echo.Context) error {
	trend, err := h.svc.VisitTrend(c.Request().Context(), h.rangeFromQuery(c))
	if err != nil {
		return err
	}
	return web.OK(c, trend)
}

func (h *Handler) Departments(c echo.Context) error {
	list, err := h.svc.Departments(c.Request().Context())
	if err != nil {
		return err
	}
	return web.OK(c, list)
}

func (h *Handler) Doctors(c echo.Context) error {
	list, err := h.svc.Doctors(c.Request().Context(), limitFromQuery(c))
	if err != nil {
		return err
	}
	return web.OK(c, list)
}

func (h *Handler) Patients(c echo.Context) error {
	stats, err := h.svc.Patients(c.Request().Context())
	if err != nil {
		return err
	}
	return web.OK(c, stats)
}

func (h *Handler) Diseases(c echo.Context) error {
	list, err := h.svc.Diseases(c.Request().Context(), h.rangeFromQuery(c), limitFromQuery(c))
	if err != nil {
		return err
	}
	return web.OK(c, list)
}

func (h *Handler) Prescriptions(c echo.Context) error {
	stats, err := h.svc.Prescriptions(c.Request().Context(), h.rangeFromQuery(c))
	if err != nil {
		return err
	}
	return web.OK(c, stats)
}

func (h *Handler) Report(c echo.Context) error {
	report, err := h.svc.Report(c.Request().Context(), h.rangeFromQuery(c))
	if err != nil {
		return err
	}
	return web.OK(c, report)
}
