package record

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
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
	g := api.Group("/medical-records")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PUT("/:id/status", h.ChangeStatus)
	g.DELETE("/:id", h.Delete)
}

type recordRequest struct {
	PatientID      int64   `json:"patientId" validate:"required,gt=0"`
	DoctorID       int64   `json:"doctorId" validate:"required,gt=0"`
	DepartmentID   *int64  `json:"departmentId" validate:"omitempty,gt=0"`
	VisitType      string  `json:"visitType" validate:"required,oneof=outpatient emergency inpatient"`
	VisitDate      string  `json:"visitDate" validate:"required"`
	ChiefComplaint *string `json:"chiefComplaint" validate:"omitempty,max=500"`
	PresentIllness *string `json:"presentIllness" validate:"omitempty,max=2000"`
	PhysicalExam   *string `json:"physicalExam" validate:"omitempty,max=2000"`
	Diagnosis      *string `json:"diagnosis" validate:"omitempty,max=1000"`
	TreatmentPlan  *string `json:"treatmentPlan" validate:"omitempty,max=2000"`
	Prescription   *string `json:"prescription" validate:"omitempty,max=2000"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
}

func parseVisitDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation(apperr.FieldError{Field: "visitDate", Message: "visitDate must be YYYY-MM-DD or RFC3339"})
}

func (h *Handler) Create(c echo.Context) error {
	var req recordRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	visitDate, err := parseVisitDate(req.VisitDate)
	if err != nil {
		return err
	}
	rec, err := h.svc.Create(c.Request().Context(), Input{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		DepartmentID:   req.DepartmentID,
		VisitType:      VisitType(req.VisitType),
		VisitDate:      visitDate,
		ChiefComplaint: req.ChiefComplaint,
		PresentIllness: req.PresentIllness,
		PhysicalExam:   req.PhysicalExam,
		Diagnosis:      req.Diagnosis,
		TreatmentPlan:  req.TreatmentPlan,
		Prescription:   req.Prescription,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}
	return web.Created(c, rec)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	rec, err := h.svc.GetDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, rec)
}

type recordUpdateRequest struct {
	PatientID      int64   `json:"patientId" validate:"omitempty,gt=0"`
	DoctorID       int64   `json:"doctorId" validate:"omitempty,gt=0"`
	DepartmentID   *int64  `json:"departmentId" validate:"omitempty,gt=0"`
	VisitType      string  `json:"visitType" validate:"omitempty,oneof=outpatient emergency inpatient"`
	VisitDate      string  `json:"visitDate" validate:"omitempty"`
	ChiefComplaint *string `json:"chiefComplaint" validate:"omitempty,max=500"`
	PresentIllness *string `json:"presentIllness" validate:"omitempty,max=2000"`
	PhysicalExam   *string `json:"physicalExam" validate:"omitempty,max=2000"`
	Diagnosis      *string `json:"diagnosis" validate:"omitempty,max=1000"`
	TreatmentPlan  *string `json:"treatmentPlan" validate:"omitempty,max=2000"`
	Prescription   *string `json:"prescription" validate:"omitempty,max=2000"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req recordUpdateRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	in := Input{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		DepartmentID:   req.DepartmentID,
		VisitType:      VisitType(req.VisitType),
		ChiefComplaint: req.ChiefComplaint,
		PresentIllness: req.PresentIllness,
		PhysicalExam:   req.PhysicalExam,
		Diagnosis:      req.Diagnosis,
		TreatmentPlan:  req.TreatmentPlan,
		Prescription:   req.Prescription,
		Notes:          req.Notes,
	}
	if req.VisitDate != "" {
		visitDate, err := parseVisitDate(req.VisitDate)
		if err != nil {
			return err
		}
		in.VisitDate = visitDate
	}
	rec, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return web.OK(c, rec)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft confirmed archived"`
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	rec, err := h.svc.ChangeStatus(c.Request().Context(), id, Status(req.Status))
	if err != nil {
		return err
	}
	return web.OK(c, rec)
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
		RecordNo:     c.QueryParam("recordNo"),
		PatientID:    web.QueryInt64(c, "patientId"),
		PatientName:  c.QueryParam("patientName"),
		DoctorID:     web.QueryInt64(c, "doctorId"),
		DepartmentID: web.QueryInt64(c, "departmentId"),
		VisitType:    c.QueryParam("visitType"),
		Status:       c.QueryParam("status"),
	}
	if v := c.QueryParam("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.VisitFrom = &t
		}
	}
	if v := c.QueryParam("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.VisitTo = &end
		}
	}
	p := pagination.FromContext(c)
	records, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return web.Paginated(c, records, pagination.New(p, total))
}
