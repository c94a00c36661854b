package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"courierdash/internal/auth"
	"courierdash/internal/session"
)

// contextKey is where the guard stashes the session for downstream handlers.
const contextKey = "courier_session"

// Guard gates dashboard routes on a live session with an allowed role.
type Guard struct {
	store   session.Store
	cookies session.Cookies
}

// New creates a guard backed by the given session store.
func New(store session.Store, cookies session.Cookies) *Guard {
	return &Guard{store: store, cookies: cookies}
}

// Require returns middleware that redirects to loginPath unless the request
// carries a session whose role is in roles. It runs before any data loader,
// so no privileged content is ever rendered for an unauthenticated request.
// A session whose token has expired is destroyed on the spot.
func (g *Guard) Require(loginPath string, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.FromCookie(c, g.cookies.Name, g.store)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			if auth.Expired(sess.Token) {
				_ = g.store.Destroy(c.Request().Context(), sess.ID)
				g.cookies.Clear(c)
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			if !roleAllowed(sess.User.Role, roles) {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			c.Set(contextKey, sess)
			return next(c)
		}
	}
}

// RequireJSON is Require for the JSON endpoints: failures answer with a
// status and an error body instead of a redirect.
func (g *Guard) RequireJSON(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.FromCookie(c, g.cookies.Name, g.store)
			if err != nil || auth.Expired(sess.Token) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !roleAllowed(sess.User.Role, roles) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			c.Set(contextKey, sess)
			return next(c)
		}
	}
}

// FromContext returns the session a Require middleware stored, or nil.
func FromContext(c echo.Context) *session.Session {
	sess, _ := c.Get(contextKey).(*session.Session)
	return sess
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
