package user

import (
	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
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
	// login and refresh are skipped by the bearer middleware
	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/profile", h.Profile)
	authGroup.PUT("/password", h.ChangePassword)

	admin := api.Group("/system/users", auth.RequireRole(auth.RoleAdmin))
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.PUT("/:id/status", h.ToggleStatus)
	admin.PUT("/:id/password", h.ResetPassword)
}

type loginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	result, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return web.OK(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	pair, err := h.svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return web.OK(c, pair)
}

func (h *Handler) Logout(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}
	h.svc.Logout(c.Request().Context(), id.UserID)
	return web.OK(c, nil)
}

func (h *Handler) Profile(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}
	u, err := h.svc.Profile(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return web.OK(c, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=100"`
}

func (h *Handler) ChangePassword(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}
	var req changePasswordRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.ChangePassword(c.Request().Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return web.OK(c, nil)
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Username: c.QueryParam("username"),
		Role:     c.QueryParam("role"),
		Status:   c.QueryParam("status"),
	}
	if v := c.QueryParam("hasDoctor"); v != "" {
		b := v == "true" || v == "1"
		f.HasDoctor = &b
	}
	p := pagination.FromContext(c)
	users, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return web.Paginated(c, users, pagination.New(p, total))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, u)
}

type createRequest struct {
	Username string  `json:"username" validate:"required,min=2,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Role     string  `json:"role" validate:"required,oneof=admin doctor nurse receptionist"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	u, err := h.svc.Create(c.Request().Context(), CreateInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return web.Created(c, u)
}

type updateRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
	Role  string  `json:"role" validate:"omitempty,oneof=admin doctor nurse receptionist"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	u, err := h.svc.Update(c.Request().Context(), id, UpdateInput{
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return web.OK(c, u)
}

func (h *Handler) ToggleStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return web.OK(c, u)
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=100"`
}

func (h *Handler) ResetPassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req resetPasswordRequest
	if err := web.Bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.ResetPassword(c.Request().Context(), id, req.Password); err != nil {
		return err
	}
	return web.OK(c, nil)
}

func pathID(c echo.Context) (int64, error) {
	return web.PathID(c, "id")
}
