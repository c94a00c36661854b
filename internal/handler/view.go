package handler

import (
	"courierdash/internal/model"
	"courierdash/internal/render"
)

// NavItem is one sidebar entry of a dashboard.
type NavItem struct {
	Name  string
	Label string
}

// TrackView feeds the public tracking page.
type TrackView struct {
	Query    string
	Result   *model.TrackResult
	NotFound bool
	Error    string
}

// LoginView feeds a role's login page.
type LoginView struct {
	Role         string
	Title        string
	Action       string
	ShowRegister bool
	Flash        string
	Error        string
}

// HistoryView feeds the per-shipment history section.
type HistoryView struct {
	ShipmentID uint
	TrackingID string
	Events     []model.TrackingEvent
}

// DashboardView feeds the dashboard frame and whichever section is active.
type DashboardView struct {
	Title     string
	Path      string
	Role      string
	UserName  string
	Section   string
	Nav       []NavItem
	IsAdmin   bool
	Flash     string
	Error     string
	LoadError string
	Statuses  []string

	Stats     *model.Stats
	Shipments []model.Shipment
	Groups    []render.UserGroup
	History   *HistoryView
	EditUser  *model.User
}

// shipmentStatuses are the values offered in status selectors. The server
// remains the authority on which transitions it accepts.
var shipmentStatuses = []string{
	"payment_received",
	"pending",
	"in_transit",
	"out_for_delivery",
	"delivered",
	"returned",
}

const (
	customerDashboardPath   = "/dashboard/customer"
	adminDashboardPath      = "/dashboard/admin"
	superadminDashboardPath = "/dashboard/superadmin"

	customerLoginPath   = "/login/customer"
	adminLoginPath      = "/login/admin"
	superadminLoginPath = "/login/superadmin"
)

// dashboardPathFor maps a session role to its home dashboard.
func dashboardPathFor(role string) string {
	switch role {
	case model.RoleAdmin:
		return adminDashboardPath
	case model.RoleSuperadmin:
		return superadminDashboardPath
	default:
		return customerDashboardPath
	}
}
