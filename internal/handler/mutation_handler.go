package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"courierdash/internal/api"
	"courierdash/internal/apierr"
	"courierdash/internal/guard"
	"courierdash/internal/model"
)

// MutationHandler submits form actions to the courier API. Each handler
// issues exactly one upstream call, then redirects back to the affected
// section so the next render reflects server state (no optimistic updates).
type MutationHandler struct {
	courier api.Courier
}

// NewMutationHandler creates a new mutation handler.
func NewMutationHandler(courier api.Courier) *MutationHandler {
	return &MutationHandler{courier: courier}
}

type shipmentForm struct {
	CustomerEmail      string  `form:"customer_email"`
	SenderName         string  `form:"sender_name" validate:"required"`
	SenderPhone        string  `form:"sender_phone" validate:"required"`
	SenderAddress      string  `form:"sender_address" validate:"required"`
	RecipientName      string  `form:"recipient_name" validate:"required"`
	RecipientPhone     string  `form:"recipient_phone" validate:"required"`
	RecipientAddress   string  `form:"recipient_address" validate:"required"`
	PackageWeight      float64 `form:"package_weight" validate:"required,gt=0"`
	PackageDescription string  `form:"package_description"`
	PaymentMethod      string  `form:"payment_method" validate:"required"`
	AmountPaid         float64 `form:"amount_paid" validate:"gte=0"`
	Status             string  `form:"status"`
}

// CreateShipment submits a new shipment. Malformed numeric input is rejected
// here with a validation message; it never reaches the API.
func (h *MutationHandler) CreateShipment(c echo.Context) error {
	sess := guard.FromContext(c)

	var form shipmentForm
	if err := c.Bind(&form); err != nil {
		return h.back(c, "create", "", "weight and amount must be valid numbers")
	}
	if err := c.Validate(&form); err != nil {
		return h.back(c, "create", "", "please fill all required fields; weight must be positive")
	}

	created, err := h.courier.CreateShipment(c.Request().Context(), sess.Token, model.NewShipment{
		CustomerEmail:      form.CustomerEmail,
		SenderName:         form.SenderName,
		SenderPhone:        form.SenderPhone,
		SenderAddress:      form.SenderAddress,
		RecipientName:      form.RecipientName,
		RecipientPhone:     form.RecipientPhone,
		RecipientAddress:   form.RecipientAddress,
		PackageWeight:      form.PackageWeight,
		PackageDescription: form.PackageDescription,
		PaymentMethod:      form.PaymentMethod,
		AmountPaid:         form.AmountPaid,
		Status:             form.Status,
	})
	if err != nil {
		return h.back(c, "create", "", apierr.UserMessage(err))
	}
	return h.back(c, "shipments", "Shipment created! Tracking ID: "+created.TrackingID, "")
}

type statusForm struct {
	Status   string `form:"status" validate:"required"`
	Location string `form:"location"`
	Notes    string `form:"notes"`
}

// UpdateStatus proposes a status change for a shipment.
func (h *MutationHandler) UpdateStatus(c echo.Context) error {
	sess := guard.FromContext(c)
	shipmentID, err := shipmentParam(c)
	if err != nil {
		return err
	}

	var form statusForm
	if err := c.Bind(&form); err != nil {
		return h.back(c, "shipments", "", "invalid status form")
	}
	if err := c.Validate(&form); err != nil {
		return h.back(c, "shipments", "", "a status value is required")
	}

	err = h.courier.UpdateStatus(c.Request().Context(), sess.Token, shipmentID, model.StatusUpdate{
		Status:   form.Status,
		Location: form.Location,
		Notes:    form.Notes,
	})
	if err != nil {
		return h.back(c, "shipments", "", apierr.UserMessage(err))
	}
	return h.back(c, "shipments", "Status updated successfully", "")
}

// DeleteShipment removes a shipment after an explicit confirmation.
func (h *MutationHandler) DeleteShipment(c echo.Context) error {
	sess := guard.FromContext(c)
	shipmentID, err := shipmentParam(c)
	if err != nil {
		return err
	}
	if !confirmed(c) {
		return h.back(c, "shipments", "", "deletion requires confirmation")
	}

	if err := h.courier.DeleteShipment(c.Request().Context(), sess.Token, shipmentID); err != nil {
		return h.back(c, "shipments", "", apierr.UserMessage(err))
	}
	return h.back(c, "shipments", "Shipment deleted", "")
}

// CreateAdmin registers a new admin account on behalf of the superadmin.
func (h *MutationHandler) CreateAdmin(c echo.Context) error {
	sess := guard.FromContext(c)

	var form registerForm
	if err := c.Bind(&form); err != nil {
		return h.back(c, "create-admin", "", "invalid admin form")
	}
	if err := c.Validate(&form); err != nil {
		return h.back(c, "create-admin", "", "please fill all required fields")
	}

	err := h.courier.RegisterAdmin(c.Request().Context(), sess.Token, model.Registration{
		FullName: form.FullName,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
	})
	if err != nil {
		return h.back(c, "create-admin", "", apierr.UserMessage(err))
	}
	return h.back(c, "users", "Admin account created successfully", "")
}

// ToggleUser flips an account's active flag after confirmation.
func (h *MutationHandler) ToggleUser(c echo.Context) error {
	sess := guard.FromContext(c)
	userID, err := userParam(c)
	if err != nil {
		return err
	}
	if !confirmed(c) {
		return h.back(c, "users", "", "toggling requires confirmation")
	}

	if err := h.courier.ToggleUser(c.Request().Context(), sess.Token, userID); err != nil {
		return h.back(c, "users", "", apierr.UserMessage(err))
	}
	return h.back(c, "users", "User status updated", "")
}

type editUserForm struct {
	FullName string `form:"full_name" validate:"required"`
	Phone    string `form:"phone"`
}

// EditUser submits both editable profile fields in one structured update;
// there is no partial submit.
func (h *MutationHandler) EditUser(c echo.Context) error {
	sess := guard.FromContext(c)
	userID, err := userParam(c)
	if err != nil {
		return err
	}

	var form editUserForm
	if err := c.Bind(&form); err != nil {
		return h.back(c, "users", "", "invalid edit form")
	}
	if err := c.Validate(&form); err != nil {
		return h.back(c, "users", "", "a full name is required")
	}

	err = h.courier.UpdateUser(c.Request().Context(), sess.Token, userID, model.UserUpdate{
		FullName: form.FullName,
		Phone:    form.Phone,
	})
	if err != nil {
		return h.back(c, "users", "", apierr.UserMessage(err))
	}
	return h.back(c, "users", "User updated successfully", "")
}

// DeleteUser permanently removes an account after confirmation.
func (h *MutationHandler) DeleteUser(c echo.Context) error {
	sess := guard.FromContext(c)
	userID, err := userParam(c)
	if err != nil {
		return err
	}
	if !confirmed(c) {
		return h.back(c, "users", "", "deletion requires confirmation")
	}

	if err := h.courier.DeleteUser(c.Request().Context(), sess.Token, userID); err != nil {
		return h.back(c, "users", "", apierr.UserMessage(err))
	}
	return h.back(c, "users", "User deleted", "")
}

// confirmed reports whether the form carried the explicit confirmation field
// destructive actions require.
func confirmed(c echo.Context) bool {
	return c.FormValue("confirm") == "yes"
}

// back redirects to the session role's dashboard with the given section
// active, carrying a flash or error message for the next render.
func (h *MutationHandler) back(c echo.Context, section, flash, errMsg string) error {
	sess := guard.FromContext(c)
	q := url.Values{"section": {section}}
	if flash != "" {
		q.Set("flash", flash)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	return c.Redirect(http.StatusSeeOther, dashboardPathFor(sess.User.Role)+"?"+q.Encode())
}
