package patient

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
	g := api.Group("/patients")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/history", h.History)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

type patientRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=50"`
	IDCard           *string `json:"idCard" validate:"omitempty,max=18"`
	Gender           *string `json:"gender" validate:"omitempty,oneof=male female other"`
	BirthDate        *string `json:"birthDate" validate:"omitempty"`
	Phone            *string `json:"phone" validate:"omitempty,max=20"`
	EmergencyContact *string `json:"emergencyContact" validate:"omitempty,max=50"`
	EmergencyPhone   *string `json:"emergencyPhone" validate:"omitempty,max=20"`
	Address          *string `json:"address" validate:"omitempty,max=200"`
	BloodType        *string `json:"bloodType" validate:"omitempty,oneof=A B AB O unknown"`
	Allergies        *string `json:"allergies" validate:"omitempty,max=500"`
	MedicalHistory   *string `json:"medicalHistory" validate:"omitempty,max=2000"`
}

func (r *patientRequest) toInput() (Input, error) {
	in := Input{
		Name:             r.Name,
		IDCard:           r.IDCard,
		Gender:           r.Gender,
		Phone:            r.Phone,
		EmergencyContact: r.EmergencyContact,
		EmergencyPhone:   r.EmergencyPhone,
		Address:          r.Address,
		BloodType:        r.BloodType,
		Allergies:        r.Allergies,
		MedicalHistory:   r.MedicalHistory,
	}
	if r.BirthDate != nil && *r.BirthDate != "" {
		t, err := time.Parse("2006-01-02", *r.BirthDate)
		if err != nil {
			return Input{}, apperr.Validation(apperr.FieldError{Field: "birthDate", Message: "birthDate must be YYYY-MM-DD"})
		}
		in.BirthDate = &t
	}
	return in, nil
}

func (h *Handler) Create(c echo.Context) error {
	var req patientRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return web.Created(c, p)
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

func (h *Handler) History(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	hist, err := h.svc.GetHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, hist)
}

type patientUpdateRequest struct {
	Name             string  `json:"name" validate:"omitempty,min=2,max=50"`
	IDCard           *string `json:"idCard" validate:"omitempty,max=18"`
	Gender           *string `json:"gender" validate:"omitempty,oneof=male female other"`
	BirthDate        *string `json:"birthDate" validate:"omitempty"`
	Phone            *string `json:"phone" validate:"omitempty,max=20"`
	EmergencyContact *string `json:"emergencyContact" validate:"omitempty,max=50"`
	EmergencyPhone   *string `json:"emergencyPhone" validate:"omitempty,max=20"`
	Address          *string `json:"address" validate:"omitempty,max=200"`
	BloodType        *string `json:"bloodType" validate:"omitempty,oneof=A B AB O unknown"`
	Allergies        *string `json:"allergies" validate:"omitempty,max=500"`
	MedicalHistory   *string `json:"medicalHistory" validate:"omitempty,max=2000"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := web.PathID(c, "id")
	if err != nil {
		return err
	}
	var req patientUpdateRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	full := patientRequest{
		Name:             req.Name,
		IDCard:           req.IDCard,
		Gender:           req.Gender,
		BirthDate:        req.BirthDate,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		Address:          req.Address,
		BloodType:        req.BloodType,
		Allergies:        req.Allergies,
		MedicalHistory:   req.MedicalHistory,
	}
	in, err := full.toInput()
	if err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
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
		MedicalNo: c.QueryParam("medicalNo"),
		Name:      c.QueryParam("name"),
		IDCard:    c.QueryParam("idCard"),
		Phone:     c.QueryParam("phone"),
		Gender:    c.QueryParam("gender"),
		BloodType: c.QueryParam("bloodType"),
	}
	p := pagination.FromContext(c)
	patients, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return web.Paginated(c, patients, pagination.New(p, total))
}
