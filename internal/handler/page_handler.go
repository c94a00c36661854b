package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"courierdash/internal/api"
	"courierdash/internal/apierr"
	"courierdash/internal/model"
	"courierdash/internal/session"
)

// PageHandler serves the public tracking page and the auth flows.
type PageHandler struct {
	courier  api.Courier
	sessions session.Store
	cookies  session.Cookies
}

// NewPageHandler creates a new page handler.
func NewPageHandler(courier api.Courier, sessions session.Store, cookies session.Cookies) *PageHandler {
	return &PageHandler{courier: courier, sessions: sessions, cookies: cookies}
}

// portal describes one role's login page.
type portal struct {
	role         string
	title        string
	allowedRoles []string
	dashboard    string
	mismatch     string
	showRegister bool
}

var portals = map[string]portal{
	model.RoleCustomer: {
		role:         model.RoleCustomer,
		title:        "Customer Portal",
		allowedRoles: []string{model.RoleCustomer},
		dashboard:    customerDashboardPath,
		mismatch:     "This is the customer portal. Please use the appropriate portal for your role.",
		showRegister: true,
	},
	model.RoleAdmin: {
		role:         model.RoleAdmin,
		title:        "Admin Portal",
		allowedRoles: []string{model.RoleAdmin, model.RoleSuperadmin},
		dashboard:    adminDashboardPath,
		mismatch:     "Admin access required",
	},
	model.RoleSuperadmin: {
		role:         model.RoleSuperadmin,
		title:        "Super Admin Portal",
		allowedRoles: []string{model.RoleSuperadmin},
		dashboard:    superadminDashboardPath,
		mismatch:     "Super Admin access required",
	},
}

// Tracking renders the public tracking page, looking up the tracking ID from
// the query when one was submitted. A miss is a rendered not-found state,
// not an error page.
func (h *PageHandler) Tracking(c echo.Context) error {
	view := TrackView{Query: c.QueryParam("tracking_id")}
	if view.Query != "" {
		result, err := h.courier.Track(c.Request().Context(), view.Query)
		switch {
		case err == nil:
			view.Result = result
		case apierr.IsNotFound(err):
			view.NotFound = true
		default:
			view.Error = apierr.UserMessage(err)
		}
	}
	return c.Render(http.StatusOK, "track", view)
}

// LoginPage renders the login page for the given portal role.
func (h *PageHandler) LoginPage(role string) echo.HandlerFunc {
	p := portals[role]
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "login", LoginView{
			Role:         p.role,
			Title:        p.title,
			Action:       "/login/" + p.role,
			ShowRegister: p.showRegister,
			Flash:        c.QueryParam("flash"),
			Error:        c.QueryParam("error"),
		})
	}
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Login authenticates against the courier API and opens a session. A valid
// login with the wrong role for this portal is rejected without creating a
// session, mirroring the per-portal gating of the original dashboards.
func (h *PageHandler) Login(role string) echo.HandlerFunc {
	p := portals[role]
	return func(c echo.Context) error {
		var form loginForm
		if err := c.Bind(&form); err != nil {
			return h.loginError(c, p, "invalid login form")
		}
		if err := c.Validate(&form); err != nil {
			return h.loginError(c, p, "email and password are required")
		}

		result, err := h.courier.Login(c.Request().Context(), form.Email, form.Password)
		if err != nil {
			return h.loginError(c, p, apierr.UserMessage(err))
		}
		if !contains(p.allowedRoles, result.User.Role) {
			return h.loginError(c, p, p.mismatch)
		}

		sess, err := h.sessions.Create(c.Request().Context(), result.Token, result.User)
		if err != nil {
			return h.loginError(c, p, "failed to start session")
		}
		h.cookies.Write(c, sess)
		return c.Redirect(http.StatusSeeOther, p.dashboard)
	}
}

func (h *PageHandler) loginError(c echo.Context, p portal, message string) error {
	return c.Render(http.StatusOK, "login", LoginView{
		Role:         p.role,
		Title:        p.title,
		Action:       "/login/" + p.role,
		ShowRegister: p.showRegister,
		Error:        message,
	})
}

// Logout destroys the session and clears the cookie together, then returns
// to the public tracking page.
func (h *PageHandler) Logout(c echo.Context) error {
	if sess, err := session.FromCookie(c, h.cookies.Name, h.sessions); err == nil {
		_ = h.sessions.Destroy(c.Request().Context(), sess.ID)
	}
	h.cookies.Clear(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

type registerForm struct {
	FullName string `form:"full_name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone"`
	Password string `form:"password" validate:"required,min=4"`
}

// Register creates a customer account and bounces back to the customer login.
func (h *PageHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return redirectWithError(c, customerLoginPath, "invalid registration form")
	}
	if err := c.Validate(&form); err != nil {
		return redirectWithError(c, customerLoginPath, "all registration fields are required")
	}

	err := h.courier.RegisterCustomer(c.Request().Context(), model.Registration{
		FullName: form.FullName,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
	})
	if err != nil {
		return redirectWithError(c, customerLoginPath, apierr.UserMessage(err))
	}
	return redirectWithFlash(c, customerLoginPath, "Registration successful! Please login.")
}

func redirectWithFlash(c echo.Context, path, flash string) error {
	return c.Redirect(http.StatusSeeOther, path+"?flash="+url.QueryEscape(flash))
}

func redirectWithError(c echo.Context, path, message string) error {
	return c.Redirect(http.StatusSeeOther, path+"?error="+url.QueryEscape(message))
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
