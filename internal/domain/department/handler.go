package department

import (
	"strconv"

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
	g := api.Group("/departments")
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	admin := g.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

type departmentRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Code        *string `json:"code" validate:"omitempty,max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *int    `json:"status" validate:"omitempty,oneof=0 1"`
}

func (h *Handler) Create(c echo.Context) error {
	var req departmentRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	d, err := h.svc.Create(c.Request().Context(), Input{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return web.Created(c, d)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, d)
}

type departmentUpdateRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=2,max=100"`
	Code        *string `json:"code" validate:"omitempty,max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *int    `json:"status" validate:"omitempty,oneof=0 1"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req departmentUpdateRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	d, err := h.svc.Update(c.Request().Context(), id, Input{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return web.OK(c, d)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return web.OK(c, nil)
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Name: c.QueryParam("name"),
		Code: c.QueryParam("code"),
	}
	if v := c.QueryParam("status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Status = &n
		}
	}
	p := pagination.FromContext(c)
	depts, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return web.Paginated(c, depts, pagination.New(p, total))
}
