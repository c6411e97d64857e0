package doctor

import (
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
	g := api.Group("/doctors")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/by-department/:id", h.ListByDepartment)

	admin := g.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

type doctorRequest struct {
	UserID       int64   `json:"userId" validate:"required,gt=0"`
	DepartmentID *int64  `json:"departmentId" validate:"omitempty,gt=0"`
	Name         string  `json:"name" validate:"required,min=2,max=50"`
	Title        *string `json:"title" validate:"omitempty,max=50"`
	Specialty    *string `json:"specialty" validate:"omitempty,max=100"`
	LicenseNo    *string `json:"licenseNo" validate:"omitempty,max=50"`
	Introduction *string `json:"introduction" validate:"omitempty,max=1000"`
}

func (h *Handler) Create(c echo.Context) error {
	var req doctorRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	d, err := h.svc.Create(c.Request().Context(), Input{
		UserID:       req.UserID,
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Title:        req.Title,
		Specialty:    req.Specialty,
		LicenseNo:    req.LicenseNo,
		Introduction: req.Introduction,
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

type doctorUpdateRequest struct {
	DepartmentID *int64  `json:"departmentId" validate:"omitempty,gt=0"`
	Name         string  `json:"name" validate:"omitempty,min=2,max=50"`
	Title        *string `json:"title" validate:"omitempty,max=50"`
	Specialty    *string `json:"specialty" validate:"omitempty,max=100"`
	LicenseNo    *string `json:"licenseNo" validate:"omitempty,max=50"`
	Introduction *string `json:"introduction" validate:"omitempty,max=1000"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req doctorUpdateRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	d, err := h.svc.Update(c.Request().Context(), id, Input{
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Title:        req.Title,
		Specialty:    req.Specialty,
		LicenseNo:    req.LicenseNo,
		Introduction: req.Introduction,
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
		Name:         c.QueryParam("name"),
		Title:        c.QueryParam("title"),
		Specialty:    c.QueryParam("specialty"),
		DepartmentID: web.QueryInt64(c, "departmentId"),
	}
	p := pagination.FromContext(c)
	doctors, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return web.Paginated(c, doctors, pagination.New(p, total))
}

func (h *Handler) ListByDepartment(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	doctors, err := h.svc.ListByDepartment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, doctors)
}
