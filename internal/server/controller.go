package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/voice-bot/internal/usecase"
)

type Controller interface {
	Health(c echo.Context) error

	CreateProfile(c echo.Context) error
	GetProfile(c echo.Context) error
	UpdateProfile(c echo.Context) error
	UpdateModeSettings(c echo.Context) error
	GetModeAnalytics(c echo.Context) error

	ProvisionAgent(c echo.Context) error
	ReprovisionAgent(c echo.Context) error

	StartCall(c echo.Context) error
	EndCall(c echo.Context) error
}

type controller struct {
	profileRepo mongodb.UserProfileRepository
	provisioner usecase.AgentProvisioner
	sessions    usecase.CallSessions
}

func NewController(
	profileRepo mongodb.UserProfileRepository,
	provisioner usecase.AgentProvisioner,
	sessions usecase.CallSessions,
) Controller {
	return &controller{
		profileRepo: profileRepo,
		provisioner: provisioner,
		sessions:    sessions,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "voice-bot",
	})
}

type createProfileRequest struct {
	UserID             string `json:"userId" validate:"required"`
	RestaurantName     string `json:"restaurantName" validate:"required"`
	SeatingCapacity    int    `json:"seatingCapacity" validate:"gte=0"`
	Address            string `json:"address"`
	Menu               string `json:"menu"`
	CallTransferNumber string `json:"callTransferNumber"`
}

func (h *controller) CreateProfile(c echo.Context) error {
	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile := &models.UserProfile{
		ID:                 req.UserID,
		RestaurantName:     req.RestaurantName,
		SeatingCapacity:    req.SeatingCapacity,
		Address:            req.Address,
		Menu:               req.Menu,
		CallTransferNumber: req.CallTransferNumber,
	}
	if err := h.profileRepo.Create(c.Request().Context(), profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, profile)
}

func (h *controller) GetProfile(c echo.Context) error {
	profile, err := h.profileRepo.GetByID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	RestaurantName     string `json:"restaurantName" validate:"required"`
	SeatingCapacity    int    `json:"seatingCapacity" validate:"gte=0"`
	Address            string `json:"address"`
	Menu               string `json:"menu"`
	CallTransferNumber string `json:"callTransferNumber"`
}

func (h *controller) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	info := mongodb.ProfileInfo{
		RestaurantName:     req.RestaurantName,
		SeatingCapacity:    req.SeatingCapacity,
		Address:            req.Address,
		Menu:               req.Menu,
		CallTransferNumber: req.CallTransferNumber,
	}
	if err := h.profileRepo.UpdateInfo(c.Request().Context(), c.Param("userId"), info); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

type updateModeSettingsRequest struct {
	BotName      string `json:"botName" validate:"required"`
	Tone         string `json:"tone" validate:"required,oneof=friendly professional casual formal"`
	BeginMessage string `json:"beginMessage"`
	Model        string `json:"model" validate:"required,oneof=gpt-4o gpt-4o-mini claude-3.5-sonnet claude-3-haiku"`
}

func (h *controller) UpdateModeSettings(c echo.Context) error {
	mode, err := models.ParseMode(c.Param("mode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode parameter")
	}

	var req updateModeSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	settings := mongodb.ModeSettings{
		BotName:      req.BotName,
		Tone:         req.Tone,
		BeginMessage: req.BeginMessage,
		Model:        req.Model,
	}
	if err := h.profileRepo.UpdateModeSettings(c.Request().Context(), c.Param("userId"), mode, settings); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (h *controller) GetModeAnalytics(c echo.Context) error {
	mode, err := models.ParseMode(c.QueryParam("mode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode parameter")
	}

	profile, err := h.profileRepo.GetByID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, profile.AnalyticsOf(mode))
}

func (h *controller) ProvisionAgent(c echo.Context) error {
	mode, err := models.ParseMode(c.Param("mode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode parameter")
	}

	cfg, err := h.provisioner.Provision(c.Request().Context(), c.Param("userId"), mode)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, cfg)
}

func (h *controller) ReprovisionAgent(c echo.Context) error {
	mode, err := models.ParseMode(c.Param("mode"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode parameter")
	}

	if err := h.provisioner.Reprovision(c.Request().Context(), c.Param("userId"), mode); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

type startCallRequest struct {
	UserID string `json:"userId" validate:"required"`
	Mode   string `json:"mode" validate:"required,mode"`
}

func (h *controller) StartCall(c echo.Context) error {
	var req startCallRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode parameter")
	}

	call, err := h.sessions.Start(c.Request().Context(), req.UserID, mode)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, call)
}

func (h *controller) EndCall(c echo.Context) error {
	if err := h.sessions.End(c.Request().Context(), c.Param("callId")); err != nil {
		return mapError(err)
	}
	// analytics retrieval continues in the background
	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, models.ErrInvalidMode):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode parameter")
	case errors.Is(err, models.ErrAgentNotProvisioned), errors.Is(err, models.ErrLLMNotProvisioned):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrCallNotActive):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
