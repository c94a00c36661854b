package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"courierdash/internal/api"
	"courierdash/internal/apierr"
	"courierdash/internal/guard"
	"courierdash/internal/handler"
	"courierdash/internal/model"
	"courierdash/internal/render"
	"courierdash/internal/router"
	"courierdash/internal/session"
)

const testCookie = "courier_session"

// fakeCourier is an in-memory stand-in for the remote courier API, behaving
// like the real one: bearer tokens, role scoping, {"error": ...} failures.
type fakeCourier struct {
	mu          sync.Mutex
	users       []model.User
	passwords   map[string]string
	tokens      map[string]uint
	shipments   map[uint]*model.Shipment
	history     map[uint][]model.TrackingEvent
	nextUserID  uint
	nextShipID  uint
	statsCalls  int
	createCalls int
	failStats   bool
}

func newFakeCourier() *fakeCourier {
	f := &fakeCourier{
		passwords:  map[string]string{},
		tokens:     map[string]uint{},
		shipments:  map[uint]*model.Shipment{},
		history:    map[uint][]model.TrackingEvent{},
		nextUserID: 1,
		nextShipID: 1,
	}
	f.addUser("Super Administrator", "root@courier.com", "root123", model.RoleSuperadmin)
	f.addUser("Admin User", "admin@courier.com", "admin123", model.RoleAdmin)
	return f
}

var _ api.Courier = (*fakeCourier)(nil)

func (f *fakeCourier) addUser(name, email, password, role string) model.User {
	u := model.User{ID: f.nextUserID, Email: email, FullName: name, Role: role, IsActive: true}
	f.nextUserID++
	f.users = append(f.users, u)
	f.passwords[email] = password
	return u
}

func (f *fakeCourier) addShipment(trackingID, status string) *model.Shipment {
	s := &model.Shipment{
		ID:            f.nextShipID,
		TrackingID:    trackingID,
		SenderName:    "Warehouse",
		RecipientName: "Recipient",
		Status:        status,
		AmountPaid:    25,
		CreatedAt:     "2024-03-05T10:00:00",
	}
	f.nextShipID++
	f.shipments[s.ID] = s
	f.history[s.ID] = []model.TrackingEvent{{Status: status, Location: "Store", Notes: "Shipment created", Timestamp: s.CreatedAt}}
	return s
}

func (f *fakeCourier) userFor(token string) (*model.User, error) {
	id, ok := f.tokens[token]
	if !ok {
		return nil, &apierr.APIError{Status: http.StatusUnauthorized, Message: "Invalid token"}
	}
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, &apierr.APIError{Status: http.StatusUnauthorized, Message: "Invalid user"}
}

func (f *fakeCourier) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[email] != password {
		return nil, &apierr.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	for _, u := range f.users {
		if u.Email == email {
			token := fmt.Sprintf("tok-%d-%d", u.ID, len(f.tokens))
			f.tokens[token] = u.ID
			return &model.AuthResult{Token: token, User: u}, nil
		}
	}
	return nil, &apierr.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
}

func (f *fakeCourier) RegisterCustomer(ctx context.Context, reg model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.passwords[reg.Email]; exists {
		return &apierr.APIError{Status: http.StatusBadRequest, Message: "Email already exists"}
	}
	f.addUser(reg.FullName, reg.Email, reg.Password, model.RoleCustomer)
	return nil
}

func (f *fakeCourier) RegisterAdmin(ctx context.Context, token string, reg model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.userFor(token)
	if err != nil {
		return err
	}
	if u.Role != model.RoleSuperadmin {
		return &apierr.APIError{Status: http.StatusForbidden, Message: "Forbidden"}
	}
	if _, exists := f.passwords[reg.Email]; exists {
		return &apierr.APIError{Status: http.StatusBadRequest, Message: "Email exists"}
	}
	f.addUser(reg.FullName, reg.Email, reg.Password, model.RoleAdmin)
	return nil
}

func (f *fakeCourier) Track(ctx context.Context, trackingID string) (*model.TrackResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.shipments {
		if s.TrackingID == trackingID {
			return &model.TrackResult{
				TrackingID:    s.TrackingID,
				Status:        s.Status,
				SenderName:    s.SenderName,
				RecipientName: s.RecipientName,
				History:       append([]model.TrackingEvent{}, f.history[id]...),
			}, nil
		}
	}
	return nil, &apierr.APIError{Status: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeCourier) Stats(ctx context.Context, token string) (*model.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.failStats {
		return nil, &apierr.APIError{Status: http.StatusInternalServerError, Message: "stats unavailable"}
	}
	if _, err := f.userFor(token); err != nil {
		return nil, err
	}
	return &model.Stats{TotalShipments: len(f.shipments)}, nil
}

func (f *fakeCourier) ListShipments(ctx context.Context, token string) ([]model.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.userFor(token)
	if err != nil {
		return nil, err
	}
	var out []model.Shipment
	for _, s := range f.shipments {
		if u.Role == model.RoleCustomer && s.CustomerID != u.ID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeCourier) CreateShipment(ctx context.Context, token string, ns model.NewShipment) (*model.CreatedShipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	u, err := f.userFor(token)
	if err != nil {
		return nil, err
	}
	status := ns.Status
	if status == "" {
		status = "payment_received"
	}
	s := &model.Shipment{
		ID:            f.nextShipID,
		TrackingID:    fmt.Sprintf("TRK%010d", f.nextShipID),
		CustomerID:    u.ID,
		SenderName:    ns.SenderName,
		RecipientName: ns.RecipientName,
		PackageWeight: ns.PackageWeight,
		PaymentMethod: ns.PaymentMethod,
		AmountPaid:    ns.AmountPaid,
		Status:        status,
		CreatedAt:     time.Now().UTC().Format("2006-01-02T15:04:05"),
	}
	f.nextShipID++
	f.shipments[s.ID] = s
	f.history[s.ID] = []model.TrackingEvent{{Status: status, Location: "Store", Notes: "Shipment created", Timestamp: s.CreatedAt}}
	return &model.CreatedShipment{TrackingID: s.TrackingID, Message: "Shipment created"}, nil
}

func (f *fakeCourier) UpdateStatus(ctx context.Context, token string, shipmentID uint, upd model.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.userFor(token); err != nil {
		return err
	}
	s, ok := f.shipments[shipmentID]
	if !ok {
		return &apierr.APIError{Status: http.StatusNotFound, Message: "Not found"}
	}
	s.Status = upd.Status
	f.history[shipmentID] = append(f.history[shipmentID], model.TrackingEvent{
		Status:    upd.Status,
		Location:  upd.Location,
		Notes:     upd.Notes,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05"),
	})
	return nil
}

func (f *fakeCourier) DeleteShipment(ctx context.Context, token string, shipmentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.userFor(token); err != nil {
		return err
	}
	if _, ok := f.shipments[shipmentID]; !ok {
		return &apierr.APIError{Status: http.StatusNotFound, Message: "Not found"}
	}
	delete(f.shipments, shipmentID)
	delete(f.history, shipmentID)
	return nil
}

func (f *fakeCourier) History(ctx context.Context, token string, shipmentID uint) ([]model.TrackingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.userFor(token); err != nil {
		return nil, err
	}
	events, ok := f.history[shipmentID]
	if !ok {
		return nil, &apierr.APIError{Status: http.StatusNotFound, Message: "Not found"}
	}
	return append([]model.TrackingEvent{}, events...), nil
}

func (f *fakeCourier) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.userFor(token)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleSuperadmin {
		return nil, &apierr.APIError{Status: http.StatusForbidden, Message: "Forbidden"}
	}
	return append([]model.User{}, f.users...), nil
}

func (f *fakeCourier) ToggleUser(ctx context.Context, token string, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.userFor(token); err != nil {
		return err
	}
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].IsActive = !f.users[i].IsActive
			return nil
		}
	}
	return &apierr.APIError{Status: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeCourier) UpdateUser(ctx context.Context, token string, userID uint, upd model.UserUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.userFor(token); err != nil {
		return err
	}
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].FullName = upd.FullName
			f.users[i].Phone = upd.Phone
			return nil
		}
	}
	return &apierr.APIError{Status: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeCourier) DeleteUser(ctx context.Context, token string, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.userFor(token); err != nil {
		return err
	}
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return &apierr.APIError{Status: http.StatusNotFound, Message: "Not found"}
}

// newTestApp wires the full gateway against the fake upstream with an
// in-memory session store.
func newTestApp(t *testing.T, courier api.Courier) (*echo.Echo, *session.MemoryStore) {
	t.Helper()
	e := echo.New()
	renderer, err := render.New()
	assert.NoError(t, err)
	e.Renderer = renderer

	store := session.NewMemoryStore(time.Hour)
	cookies := session.Cookies{Name: testCookie, TTL: time.Hour}
	g := guard.New(store, cookies)

	router.Register(e,
		g,
		handler.NewPageHandler(courier, store, cookies),
		handler.NewDashboardHandler(courier),
		handler.NewMutationHandler(courier),
		handler.NewAPIHandler(courier),
	)
	return e, store
}

func openSession(t *testing.T, f *fakeCourier, store *session.MemoryStore, email, password string) *session.Session {
	t.Helper()
	result, err := f.Login(context.Background(), email, password)
	assert.NoError(t, err)
	sess, err := store.Create(context.Background(), result.Token, result.User)
	assert.NoError(t, err)
	return sess
}

func get(e *echo.Echo, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, path, sessionID string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDashboardRedirectsWithoutSession(t *testing.T) {
	f := newFakeCourier()
	e, _ := newTestApp(t, f)

	rec := get(e, "/dashboard/customer", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/customer", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, f.statsCalls, "no protected fetch may run before the guard passes")
}

func TestDashboardRedirectsOnRoleMismatch(t *testing.T) {
	f := newFakeCourier()
	f.addUser("A B", "a@b.com", "x", model.RoleCustomer)
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "a@b.com", "x")

	rec := get(e, "/dashboard/superadmin", sess.ID)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/superadmin", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, f.statsCalls)
}

func TestSuperadminMayUseAdminDashboard(t *testing.T) {
	f := newFakeCourier()
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "root@courier.com", "root123")

	rec := get(e, "/dashboard/admin", sess.ID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Super Administrator")
}

func TestUnknownSectionFailsLoudly(t *testing.T) {
	f := newFakeCourier()
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "admin@courier.com", "admin123")

	rec := get(e, "/dashboard/admin?section=bogus", sess.ID)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginRejectsWrongPortalRole(t *testing.T) {
	f := newFakeCourier()
	e, _ := newTestApp(t, f)

	rec := postForm(e, "/login/customer", "", url.Values{
		"email":    {"root@courier.com"},
		"password": {"root123"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This is the customer portal")
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, testCookie, c.Name, "no session may be created on a portal mismatch")
	}
}

func TestLoginSurfacesUpstreamError(t *testing.T) {
	f := newFakeCourier()
	e, _ := newTestApp(t, f)

	rec := postForm(e, "/login/admin", "", url.Values{
		"email":    {"admin@courier.com"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestDeleteShipmentRefreshesList(t *testing.T) {
	f := newFakeCourier()
	s := f.addShipment("TRK0000000001", "in_transit")
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "admin@courier.com", "admin123")

	before := get(e, "/dashboard/admin?section=shipments", sess.ID)
	assert.Contains(t, before.Body.String(), "TRK0000000001")

	rec := postForm(e, fmt.Sprintf("/dashboard/shipments/%d/delete", s.ID), sess.ID, url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	after := get(e, "/dashboard/admin?section=shipments", sess.ID)
	assert.NotContains(t, after.Body.String(), "TRK0000000001", "next render must reflect server state")

	// Deleting again is a NotFound-class failure, not a crash.
	again := postForm(e, fmt.Sprintf("/dashboard/shipments/%d/delete", s.ID), sess.ID, url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, again.Code)
	assert.Contains(t, again.Header().Get(echo.HeaderLocation), "error=Not+found")
}

func TestDeleteShipmentRequiresConfirmation(t *testing.T) {
	f := newFakeCourier()
	s := f.addShipment("TRK0000000002", "pending")
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "admin@courier.com", "admin123")

	rec := postForm(e, fmt.Sprintf("/dashboard/shipments/%d/delete", s.ID), sess.ID, url.Values{})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "error=")
	assert.Contains(t, f.shipments, s.ID, "unconfirmed deletes must not reach the API")
}

func TestCreateShipmentRejectsMalformedNumbers(t *testing.T) {
	f := newFakeCourier()
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "admin@courier.com", "admin123")

	form := url.Values{
		"sender_name":       {"S"},
		"sender_phone":      {"1"},
		"sender_address":    {"addr"},
		"recipient_name":    {"R"},
		"recipient_phone":   {"2"},
		"recipient_address": {"addr2"},
		"package_weight":    {"not-a-number"},
		"payment_method":    {"cash"},
		"amount_paid":       {"10"},
	}
	rec := postForm(e, "/dashboard/shipments", sess.ID, form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "error=")
	assert.Zero(t, f.createCalls, "malformed numeric input must never reach the API")
}

func TestStatusUpdateAppendsHistory(t *testing.T) {
	f := newFakeCourier()
	s := f.addShipment("TRK0000000003", "payment_received")
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "admin@courier.com", "admin123")

	rec := postForm(e, fmt.Sprintf("/dashboard/shipments/%d/status", s.ID), sess.ID, url.Values{
		"status":   {"in_transit"},
		"location": {"Hub A"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "in_transit", f.shipments[s.ID].Status)
	assert.Len(t, f.history[s.ID], 2)

	page := get(e, fmt.Sprintf("/dashboard/admin/shipments/%d/history", s.ID), sess.ID)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "IN TRANSIT")
	assert.Contains(t, page.Body.String(), "Hub A")
}

func TestUsersSectionPartitionsAndProtects(t *testing.T) {
	f := newFakeCourier()
	f.addUser("A B", "a@b.com", "x", model.RoleCustomer)
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "root@courier.com", "root123")

	rec := get(e, "/dashboard/superadmin?section=users", sess.ID)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Super Administrators (1)")
	assert.Contains(t, body, "Administrators (1)")
	assert.Contains(t, body, "Customers (1)")
	assert.Contains(t, body, "Protected Account")
}

func TestLoadFailureShowsExplicitState(t *testing.T) {
	f := newFakeCourier()
	f.failStats = true
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "admin@courier.com", "admin123")

	rec := get(e, "/dashboard/admin?section=overview", sess.ID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load")
	assert.Contains(t, rec.Body.String(), "stats unavailable")
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFakeCourier()
	e, store := newTestApp(t, f)
	sess := openSession(t, f, store, "admin@courier.com", "admin123")

	rec := postForm(e, "/logout", sess.ID, url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	_, err := store.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestEndToEndCustomerJourney(t *testing.T) {
	f := newFakeCourier()
	e, _ := newTestApp(t, f)

	// Register a customer.
	rec := postForm(e, "/register", "", url.Values{
		"full_name": {"A B"},
		"email":     {"a@b.com"},
		"phone":     {"555"},
		"password":  {"pass1234"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "/login/customer")

	// Login with the same credentials.
	rec = postForm(e, "/login/customer", "", url.Values{
		"email":    {"a@b.com"},
		"password": {"pass1234"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/customer", rec.Header().Get(echo.HeaderLocation))

	var sessionID string
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			sessionID = c.Value
		}
	}
	assert.NotEmpty(t, sessionID, "login must set the session cookie")

	// Create a shipment.
	rec = postForm(e, "/dashboard/shipments", sessionID, url.Values{
		"sender_name":       {"A B"},
		"sender_phone":      {"555"},
		"sender_address":    {"1 Main St"},
		"recipient_name":    {"C D"},
		"recipient_phone":   {"556"},
		"recipient_address": {"2 Side St"},
		"package_weight":    {"1.5"},
		"payment_method":    {"cash"},
		"amount_paid":       {"12.5"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)
	assert.Contains(t, location, "section=shipments")
	assert.Contains(t, location, "TRK", "the flash must carry the generated tracking ID")

	var trackingID string
	for _, s := range f.shipments {
		trackingID = s.TrackingID
	}
	assert.NotEmpty(t, trackingID)

	// The public track endpoint sees it without credentials.
	rec = get(e, "/api/track/"+trackingID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status"`)
	assert.Contains(t, rec.Body.String(), `"history"`)

	// And the public page renders it.
	rec = get(e, "/?tracking_id="+trackingID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), trackingID)
	assert.Contains(t, rec.Body.String(), "PAYMENT RECEIVED")
}

func TestPublicTrackingMissRendersNotFound(t *testing.T) {
	f := newFakeCourier()
	e, _ := newTestApp(t, f)

	rec := get(e, "/?tracking_id=TRK9999999999", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tracking ID not found")
}
