package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	mw "github.com/nguyentranbao-ct/voice-bot/internal/server/middleware"
	"github.com/nguyentranbao-ct/voice-bot/internal/usecase"
	"github.com/nguyentranbao-ct/voice-bot/pkg/util"
)

// RelayController serves the shared-dashboard endpoints: an
// unauthenticated viewer cannot write the store directly, so it relays
// retrieved analytics through here and we perform the same merge
// server-side. Route names and payload shapes are the public contract
// of the original cloud functions and stay as-is.
type RelayController interface {
	SaveSharedDashboardAnalytics(c echo.Context) error
	GetUserData(c echo.Context) error
	SaveModeDashboardAnalytics(c echo.Context) error
	GetModeUserData(c echo.Context) error
}

type relayController struct {
	profileRepo mongodb.UserProfileRepository
	analytics   usecase.CallAnalytics
}

func NewRelayController(
	profileRepo mongodb.UserProfileRepository,
	analytics usecase.CallAnalytics,
) RelayController {
	return &relayController{
		profileRepo: profileRepo,
		analytics:   analytics,
	}
}

type saveSharedAnalyticsRequest struct {
	UserID        string         `json:"userId"`
	CallID        string         `json:"callId"`
	AnalyticsData map[string]any `json:"analyticsData"`
}

func (rc *relayController) SaveSharedDashboardAnalytics(c echo.Context) error {
	var req saveSharedAnalyticsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Missing required parameters")
	}
	if req.UserID == "" || req.CallID == "" || len(req.AnalyticsData) == 0 {
		return badRequest("Missing required parameters")
	}

	record, err := decodeCallRecord(req.CallID, req.AnalyticsData)
	if err != nil {
		return badRequest("Invalid analyticsData payload")
	}

	ctx := c.Request().Context()
	if err := rc.analytics.StoreShared(ctx, req.UserID, req.CallID, *record); err != nil {
		return relayError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Analytics saved successfully",
	})
}

func (rc *relayController) GetUserData(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return badRequest("Missing userId parameter")
	}

	profile, err := rc.profileRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return relayError(err)
	}

	// the legacy un-moded dashboard maps onto the customer persona
	cfg := profile.ModeConfigOf(models.ModeCustomer)
	return c.JSON(http.StatusOK, map[string]any{
		"restaurantName": profile.RestaurantName,
		"agentData":      cfg.AgentData,
	})
}

type saveModeAnalyticsRequest struct {
	UserID        string         `json:"userId"`
	CallID        string         `json:"callId"`
	AnalyticsData map[string]any `json:"analyticsData"`
	Mode          string         `json:"mode"`
}

func (rc *relayController) SaveModeDashboardAnalytics(c echo.Context) error {
	var req saveModeAnalyticsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Missing required parameters")
	}
	if req.UserID == "" || req.CallID == "" || len(req.AnalyticsData) == 0 || req.Mode == "" {
		return badRequest("Missing required parameters")
	}

	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		return badRequest("Invalid mode parameter")
	}

	record, err := decodeCallRecord(req.CallID, req.AnalyticsData)
	if err != nil {
		return badRequest("Invalid analyticsData payload")
	}

	ctx := c.Request().Context()
	if err := rc.analytics.StoreRetrieved(ctx, req.UserID, req.CallID, mode, *record); err != nil {
		return relayError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Analytics saved successfully",
	})
}

func (rc *relayController) GetModeUserData(c echo.Context) error {
	userID := c.QueryParam("userId")
	modeParam := c.QueryParam("mode")
	if userID == "" || modeParam == "" {
		return badRequest("Missing required parameters")
	}

	mode, err := models.ParseMode(modeParam)
	if err != nil {
		return badRequest("Invalid mode parameter")
	}

	profile, err := rc.profileRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return relayError(err)
	}

	cfg := profile.ModeConfigOf(mode)
	resp := map[string]any{
		"restaurantName":  profile.RestaurantName,
		"seatingCapacity": profile.SeatingCapacity,
		"address":         profile.Address,
		"menu":            profile.Menu,
	}
	resp[fmt.Sprintf("%sAgentData", mode)] = cfg.AgentData
	resp[fmt.Sprintf("%sLlmData", mode)] = cfg.LLMData
	return c.JSON(http.StatusOK, resp)
}

// decodeCallRecord maps the relayed vendor payload onto the stored
// record shape, keying it by the call id from the request.
func decodeCallRecord(callID string, payload map[string]any) (*models.CallRecord, error) {
	record := &models.CallRecord{}
	if err := util.TranscodeJSON(payload, record); err != nil {
		return nil, err
	}
	if record.CallID == "" {
		record.CallID = callID
	}
	return record, nil
}

func badRequest(message string) error {
	return &mw.ResponseError{
		Status:       http.StatusBadRequest,
		ErrorMessage: message,
	}
}

func relayError(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return &mw.ResponseError{
			Status:       http.StatusNotFound,
			ErrorMessage: "User not found",
		}
	}
	return &mw.ResponseError{
		Status:       http.StatusInternalServerError,
		Err:          err,
		ErrorMessage: "Internal server error",
		ErrorDetails: err.Error(),
	}
}
