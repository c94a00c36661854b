package model

// Shipment represents a shipment record as the courier API reports it.
// The tracking ID is assigned server-side and never changes once set.
type Shipment struct {
	ID                 uint    `json:"id"`
	TrackingID         string  `json:"tracking_id"`
	CustomerID         uint    `json:"customer_id,omitempty"`
	SenderName         string  `json:"sender_name"`
	SenderPhone        string  `json:"sender_phone,omitempty"`
	SenderAddress      string  `json:"sender_address,omitempty"`
	RecipientName      string  `json:"recipient_name"`
	RecipientPhone     string  `json:"recipient_phone,omitempty"`
	RecipientAddress   string  `json:"recipient_address,omitempty"`
	PackageWeight      float64 `json:"package_weight"`
	PackageDescription string  `json:"package_description,omitempty"`
	PaymentMethod      string  `json:"payment_method"`
	AmountPaid         float64 `json:"amount_paid"`
	Status             string  `json:"status"`
	CreatedAt          string  `json:"created_at"`
}

// NewShipment carries the fields submitted when creating a shipment.
// CustomerEmail and Status are only honored for admin callers.
type NewShipment struct {
	CustomerEmail      string  `json:"customer_email,omitempty"`
	SenderName         string  `json:"sender_name"`
	SenderPhone        string  `json:"sender_phone"`
	SenderAddress      string  `json:"sender_address"`
	RecipientName      string  `json:"recipient_name"`
	RecipientPhone     string  `json:"recipient_phone"`
	RecipientAddress   string  `json:"recipient_address"`
	PackageWeight      float64 `json:"package_weight"`
	PackageDescription string  `json:"package_description,omitempty"`
	PaymentMethod      string  `json:"payment_method"`
	AmountPaid         float64 `json:"amount_paid"`
	Status             string  `json:"status,omitempty"`
}

// CreatedShipment is the API response to a create call.
type CreatedShipment struct {
	TrackingID string `json:"tracking_id"`
	Message    string `json:"message,omitempty"`
}

// StatusUpdate carries a proposed status change for a shipment.
type StatusUpdate struct {
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// TrackingEvent is one immutable entry in a shipment's history,
// ordered by timestamp ascending.
type TrackingEvent struct {
	Status    string `json:"status"`
	Location  string `json:"location,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Timestamp string `json:"timestamp"`
}

// TrackResult is the public tracking lookup response.
type TrackResult struct {
	TrackingID       string          `json:"tracking_id"`
	Status           string          `json:"status"`
	SenderName       string          `json:"sender_name,omitempty"`
	RecipientName    string          `json:"recipient_name,omitempty"`
	RecipientAddress string          `json:"recipient_address,omitempty"`
	History          []TrackingEvent `json:"history"`
}
