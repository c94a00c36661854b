package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"courierdash/internal/model"
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// Session binds an upstream bearer token to the profile it was issued for.
// It is the server-side stand-in for the browser's token/user storage.
type Session struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// Store persists sessions for the lifetime of a login.
type Store interface {
	// Create stores a new session for the given token and user and returns it.
	Create(ctx context.Context, token string, user model.User) (*Session, error)
	// Get returns the session with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Destroy removes a session. Token and profile go together; there is no
	// partially cleared state a later Get could observe.
	Destroy(ctx context.Context, id string) error
}

// Cookies writes and clears the session cookie on responses.
type Cookies struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Write sets the session cookie for sess on the response.
func (k Cookies) Write(c echo.Context, sess *Session) {
	c.SetCookie(&http.Cookie{
		Name:     k.Name,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(k.TTL.Seconds()),
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie on the response.
func (k Cookies) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     k.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromCookie returns the session referenced by the request's cookie, or
// ErrNotFound when there is no cookie or the session has expired.
func FromCookie(c echo.Context, name string, store Store) (*Session, error) {
	cookie, err := c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return nil, ErrNotFound
	}
	return store.Get(c.Request().Context(), cookie.Value)
}
