package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"courierdash/internal/api"
	"courierdash/internal/apierr"
	"courierdash/internal/guard"
)

// APIHandler exposes the data loaders as JSON endpoints, proxying the courier
// API with the session's credential attached.
type APIHandler struct {
	courier api.Courier
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(courier api.Courier) *APIHandler {
	return &APIHandler{courier: courier}
}

// Track godoc
// @Summary Public tracking lookup
// @Tags track
// @Produce json
// @Param trackingId path string true "Tracking ID"
// @Success 200 {object} model.TrackResult
// @Failure 404 {object} map[string]string
// @Router /track/{trackingId} [get]
func (h *APIHandler) Track(c echo.Context) error {
	result, err := h.courier.Track(c.Request().Context(), c.Param("trackingId"))
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Stats godoc
// @Summary Dashboard statistics for the signed-in role
// @Tags dashboard
// @Produce json
// @Success 200 {object} model.Stats
// @Failure 401 {object} map[string]string
// @Router /stats [get]
func (h *APIHandler) Stats(c echo.Context) error {
	sess := guard.FromContext(c)
	stats, err := h.courier.Stats(c.Request().Context(), sess.Token)
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Shipments godoc
// @Summary Shipments visible to the signed-in user
// @Tags shipments
// @Produce json
// @Success 200 {array} model.Shipment
// @Failure 401 {object} map[string]string
// @Router /shipments [get]
func (h *APIHandler) Shipments(c echo.Context) error {
	sess := guard.FromContext(c)
	shipments, err := h.courier.ListShipments(c.Request().Context(), sess.Token)
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(http.StatusOK, shipments)
}

// History godoc
// @Summary Tracking history of one shipment
// @Tags shipments
// @Produce json
// @Param id path int true "Shipment ID"
// @Success 200 {array} model.TrackingEvent
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shipments/{id}/history [get]
func (h *APIHandler) History(c echo.Context) error {
	sess := guard.FromContext(c)
	shipmentID, err := shipmentParam(c)
	if err != nil {
		return err
	}
	events, err := h.courier.History(c.Request().Context(), sess.Token, shipmentID)
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// Users godoc
// @Summary All user accounts
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users [get]
func (h *APIHandler) Users(c echo.Context) error {
	sess := guard.FromContext(c)
	users, err := h.courier.ListUsers(c.Request().Context(), sess.Token)
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// proxyError converts an upstream failure into the gateway's own JSON error,
// preserving the upstream status and message.
func proxyError(err error) error {
	var apiErr *apierr.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(apiErr.Status, map[string]string{"error": apiErr.Message})
	}
	return echo.NewHTTPError(http.StatusBadGateway, map[string]string{"error": apierr.UserMessage(err)})
}
