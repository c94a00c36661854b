package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"courierdash/internal/guard"
	"courierdash/internal/handler"
	"courierdash/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	g *guard.Guard,
	pageHandler *handler.PageHandler,
	dashboardHandler *handler.DashboardHandler,
	mutationHandler *handler.MutationHandler,
	apiHandler *handler.APIHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public pages
	e.GET("/", pageHandler.Tracking)
	for _, role := range []string{model.RoleCustomer, model.RoleAdmin, model.RoleSuperadmin} {
		e.GET("/login/"+role, pageHandler.LoginPage(role))
		e.POST("/login/"+role, pageHandler.Login(role))
	}
	e.POST("/register", pageHandler.Register)
	e.POST("/logout", pageHandler.Logout)

	// Role dashboards. The guard runs before any section loader.
	customer := e.Group("/dashboard/customer",
		g.Require("/login/customer", model.RoleCustomer))
	customer.GET("", dashboardHandler.Show(model.RoleCustomer))
	customer.GET("/shipments/:id/history", dashboardHandler.History(model.RoleCustomer))

	admin := e.Group("/dashboard/admin",
		g.Require("/login/admin", model.RoleAdmin, model.RoleSuperadmin))
	admin.GET("", dashboardHandler.Show(model.RoleAdmin))
	admin.GET("/shipments/:id/history", dashboardHandler.History(model.RoleAdmin))

	superadmin := e.Group("/dashboard/superadmin",
		g.Require("/login/superadmin", model.RoleSuperadmin))
	superadmin.GET("", dashboardHandler.Show(model.RoleSuperadmin))
	superadmin.GET("/shipments/:id/history", dashboardHandler.History(model.RoleSuperadmin))
	superadmin.GET("/users/:id/edit", dashboardHandler.EditUser)

	// Mutations. Redirect targets come from the session role, so these share
	// one group per required role set.
	anyRole := []string{model.RoleCustomer, model.RoleAdmin, model.RoleSuperadmin}
	adminRoles := []string{model.RoleAdmin, model.RoleSuperadmin}

	e.POST("/dashboard/shipments", mutationHandler.CreateShipment,
		g.Require("/login/customer", anyRole...))
	e.POST("/dashboard/shipments/:id/status", mutationHandler.UpdateStatus,
		g.Require("/login/admin", adminRoles...))
	e.POST("/dashboard/shipments/:id/delete", mutationHandler.DeleteShipment,
		g.Require("/login/admin", adminRoles...))
	e.POST("/dashboard/users", mutationHandler.CreateAdmin,
		g.Require("/login/superadmin", model.RoleSuperadmin))
	e.POST("/dashboard/users/:id/toggle", mutationHandler.ToggleUser,
		g.Require("/login/superadmin", model.RoleSuperadmin))
	e.POST("/dashboard/users/:id/edit", mutationHandler.EditUser,
		g.Require("/login/superadmin", model.RoleSuperadmin))
	e.POST("/dashboard/users/:id/delete", mutationHandler.DeleteUser,
		g.Require("/login/superadmin", model.RoleSuperadmin))

	// JSON loaders
	api := e.Group("/api")
	api.GET("/track/:trackingId", apiHandler.Track)
	api.GET("/stats", apiHandler.Stats, g.RequireJSON(anyRole...))
	api.GET("/shipments", apiHandler.Shipments, g.RequireJSON(anyRole...))
	api.GET("/shipments/:id/history", apiHandler.History, g.RequireJSON(anyRole...))
	api.GET("/users", apiHandler.Users, g.RequireJSON(model.RoleSuperadmin))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
