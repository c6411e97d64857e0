package prescription

import (
	"github.com/labstack/echo/v4"

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
	rec := api.Group("/medical-records/:id/prescriptions")
	rec.POST("", h.Create)
	rec.POST("/batch", h.CreateBatch)
	rec.GET("", h.ListByRecord)
	rec.DELETE("", h.DeleteByRecord)

	g := api.Group("/prescriptions")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

type prescriptionRequest struct {
	MedicineName  string  `json:"medicineName" validate:"required,max=200"`
	Specification *string `json:"specification" validate:"omitempty,max=200"`
	Dosage        *string `json:"dosage" validate:"omitempty,max=100"`
	Frequency     *string `json:"frequency" validate:"omitempty,max=100"`
	Duration      *string `json:"duration" validate:"omitempty,max=100"`
	Quantity      *int    `json:"quantity" validate:"omitempty,gt=0"`
	Notes         *string `json:"notes" validate:"omitempty,max=500"`
}

func (r prescriptionRequest) toInput() Input {
	return Input{
		MedicineName:  r.MedicineName,
		Specification: r.Specification,
		Dosage:        r.Dosage,
		Frequency:     r.Frequency,
		Duration:      r.Duration,
		Quantity:      r.Quantity,
		Notes:         r.Notes,
	}
}

func (h *Handler) Create(c echo.Context) error {
	recordID, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req prescriptionRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	p, err := h.svc.Create(c.Request().Context(), recordID, req.toInput())
	if err != nil {
		return err
	}
	return web.Created(c, p)
}

type prescriptionBatchRequest struct {
	Prescriptions []prescriptionRequest `json:"prescriptions" validate:"required,min=1,max=50,dive"`
}

func (h *Handler) CreateBatch(c echo.Context) error {
	recordID, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req prescriptionBatchRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	ins := make([]Input, len(req.Prescriptions))
	for i, r := range req.Prescriptions {
		ins[i] = r.toInput()
	}
	list, err := h.svc.CreateBatch(c.Request().Context(), recordID, ins)
	if err != nil {
		return err
	}
	return web.Created(c, list)
}

func (h *Handler) DeleteByRecord(c echo.Context) error {
	recordID, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	deleted, err := h.svc.DeleteByRecord(c.Request().Context(), recordID)
	if err != nil {
		return err
	}
	return web.OK(c, map[string]int64{"deletedCount": deleted})
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
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, p)
}

type prescriptionUpdateRequest struct {
	MedicineName  string  `json:"medicineName" validate:"omitempty,max=200"`
	Specification *string `json:"specification" validate:"omitempty,max=200"`
	Dosage        *string `json:"dosage" validate:"omitempty,max=100"`
	Frequency     *string `json:"frequency" validate:"omitempty,max=100"`
	Duration      *string `json:"duration" validate:"omitempty,max=100"`
	Quantity      *int    `json:"quantity" validate:"omitempty,gt=0"`
	Notes         *string `json:"notes" validate:"omitempty,max=500"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req prescriptionUpdateRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), id, Input{
		MedicineName:  req.MedicineName,
		Specification: req.Specification,
		Dosage:        req.Dosage,
		Frequency:     req.Frequency,
		Duration:      req.Duration,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return web.OK(c, p)
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
		RecordID:     web.QueryInt64(c, "recordId"),
		MedicineName: c.QueryParam("medicineName"),
	}
	p := pagination.FromContext(c)
	list, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return web.Paginated(c, list, pagination.New(p, total))
}
