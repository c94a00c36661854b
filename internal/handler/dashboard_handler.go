package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courierdash/internal/api"
	"courierdash/internal/apierr"
	"courierdash/internal/guard"
	"courierdash/internal/model"
	"courierdash/internal/render"
	"courierdash/internal/session"
)

// sectionLoader fetches one section's data into the view before rendering.
type sectionLoader func(c echo.Context, sess *session.Session, v *DashboardView) error

// dashboard describes one role's dashboard: its nav, its sections, and the
// loader behind each section.
type dashboard struct {
	title          string
	path           string
	isAdmin        bool
	nav            []NavItem
	defaultSection string
	loaders        map[string]sectionLoader
}

// DashboardHandler serves the role dashboards section by section.
type DashboardHandler struct {
	courier    api.Courier
	dashboards map[string]dashboard
}

// NewDashboardHandler creates a dashboard handler with the section registry
// for all three roles.
func NewDashboardHandler(courier api.Courier) *DashboardHandler {
	h := &DashboardHandler{courier: courier}

	overview := NavItem{Name: "overview", Label: "Overview"}
	create := NavItem{Name: "create", Label: "New Shipment"}
	shipments := NavItem{Name: "shipments", Label: "Shipments"}
	users := NavItem{Name: "users", Label: "Users"}
	createAdmin := NavItem{Name: "create-admin", Label: "Create Admin"}

	h.dashboards = map[string]dashboard{
		model.RoleCustomer: {
			title:          "Customer Dashboard",
			path:           customerDashboardPath,
			nav:            []NavItem{overview, create, {Name: "shipments", Label: "My Shipments"}},
			defaultSection: "overview",
			loaders: map[string]sectionLoader{
				"overview":  h.loadStats,
				"create":    noLoad,
				"shipments": h.loadShipments,
			},
		},
		model.RoleAdmin: {
			title:          "Admin Dashboard",
			path:           adminDashboardPath,
			isAdmin:        true,
			nav:            []NavItem{overview, create, shipments},
			defaultSection: "overview",
			loaders: map[string]sectionLoader{
				"overview":  h.loadStats,
				"create":    noLoad,
				"shipments": h.loadShipments,
			},
		},
		model.RoleSuperadmin: {
			title:          "Super Admin Dashboard",
			path:           superadminDashboardPath,
			isAdmin:        true,
			nav:            []NavItem{overview, users, createAdmin, shipments},
			defaultSection: "overview",
			loaders: map[string]sectionLoader{
				"overview":     h.loadStats,
				"users":        h.loadUsers,
				"create-admin": noLoad,
				"shipments":    h.loadShipments,
			},
		},
	}
	return h
}

// Show renders the requested section of the given dashboard. Unknown section
// names fail loudly with a 404 rather than silently showing nothing.
func (h *DashboardHandler) Show(role string) echo.HandlerFunc {
	d := h.dashboards[role]
	return func(c echo.Context) error {
		sess := guard.FromContext(c)
		view := h.newView(d, sess, c)

		section := c.QueryParam("section")
		if section == "" {
			section = d.defaultSection
		}
		loader, ok := d.loaders[section]
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown section %q", section))
		}
		view.Section = section

		if err := loader(c, sess, view); err != nil {
			// Never show stale success content: the section renders an
			// explicit failure state instead.
			view.LoadError = apierr.UserMessage(err)
		}
		return c.Render(http.StatusOK, "dashboard", view)
	}
}

// History renders the tracking timeline of one shipment as a dashboard page.
func (h *DashboardHandler) History(role string) echo.HandlerFunc {
	d := h.dashboards[role]
	return func(c echo.Context) error {
		sess := guard.FromContext(c)
		shipmentID, err := shipmentParam(c)
		if err != nil {
			return err
		}

		view := h.newView(d, sess, c)
		view.Section = "history"

		events, err := h.courier.History(c.Request().Context(), sess.Token, shipmentID)
		if err != nil {
			view.LoadError = apierr.UserMessage(err)
			return c.Render(http.StatusOK, "dashboard", view)
		}
		view.History = &HistoryView{
			ShipmentID: shipmentID,
			TrackingID: c.QueryParam("tracking_id"),
			Events:     events,
		}
		if view.History.TrackingID == "" {
			view.History.TrackingID = fmt.Sprintf("Shipment #%d", shipmentID)
		}
		return c.Render(http.StatusOK, "dashboard", view)
	}
}

// EditUser renders the structured edit form for one account, prefilled from
// a fresh user list fetch.
func (h *DashboardHandler) EditUser(c echo.Context) error {
	sess := guard.FromContext(c)
	userID, err := userParam(c)
	if err != nil {
		return err
	}

	d := h.dashboards[model.RoleSuperadmin]
	view := h.newView(d, sess, c)
	view.Section = "edit-user"

	users, err := h.courier.ListUsers(c.Request().Context(), sess.Token)
	if err != nil {
		view.LoadError = apierr.UserMessage(err)
		return c.Render(http.StatusOK, "dashboard", view)
	}
	for i := range users {
		if users[i].ID == userID {
			view.EditUser = &users[i]
			break
		}
	}
	if view.EditUser == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.Render(http.StatusOK, "dashboard", view)
}

func (h *DashboardHandler) newView(d dashboard, sess *session.Session, c echo.Context) *DashboardView {
	return &DashboardView{
		Title:    d.title,
		Path:     d.path,
		Role:     sess.User.Role,
		UserName: sess.User.FullName,
		Nav:      d.nav,
		IsAdmin:  d.isAdmin,
		Flash:    c.QueryParam("flash"),
		Error:    c.QueryParam("error"),
		Statuses: shipmentStatuses,
	}
}

func (h *DashboardHandler) loadStats(c echo.Context, sess *session.Session, v *DashboardView) error {
	stats, err := h.courier.Stats(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	v.Stats = stats
	return nil
}

func (h *DashboardHandler) loadShipments(c echo.Context, sess *session.Session, v *DashboardView) error {
	shipments, err := h.courier.ListShipments(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	v.Shipments = shipments
	return nil
}

func (h *DashboardHandler) loadUsers(c echo.Context, sess *session.Session, v *DashboardView) error {
	users, err := h.courier.ListUsers(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}
	v.Groups = render.PartitionUsers(users)
	return nil
}

func noLoad(echo.Context, *session.Session, *DashboardView) error {
	return nil
}

func shipmentParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid shipment id")
	}
	return uint(id), nil
}

func userParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return uint(id), nil
}
