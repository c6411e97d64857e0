package attachment

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/web"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	rec := api.Group("/medical-records/:id/attachments")
	rec.POST("", h.Upload)
	rec.GET("", h.ListByRecord)

	g := api.Group("/attachments")
	g.GET("/:id", h.Get)
	g.GET("/:id/download", h.Download)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

type attachmentUpdateRequest struct {
	Description *string `json:"description" validate:"omitempty,max=255"`
}

func (h *Handler) Upload(c echo.Context) error {
	recordID, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation(apperr.FieldError{Field: "file", Message: "file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	var description *string
	if v := c.FormValue("description"); v != "" {
		description = &v
	}

	a, err := h.svc.Create(c.Request().Context(), recordID, Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
		Description: description,
	})
	if err != nil {
		return err
	}
	return web.Created(c, a)
}

func (h *Handler) ListByRecord(c echo.Context) error {
	recordID, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.svc.ListByRecord(c.Request().Context(), recordID)
	if err != nil {
		return err
	}
	return web.OK(c, list)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, a)
}

func (h *Handler) Download(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	a, rc, err := h.svc.Download(c.Request().Context(), id)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, a.FileName))
	return c.Stream(http.StatusOK, a.FileType, rc)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req attachmentUpdateRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	a, err := h.svc.UpdateDescription(c.Request().Context(), id, req.Description)
	if err != nil {
		return err
	}
	return web.OK(c, a)
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
