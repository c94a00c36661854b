package model

// Stats is the dashboard overview payload. Customer callers only receive
// totals for their own shipments; the remaining fields stay zero.
type Stats struct {
	TotalShipments int `json:"total_shipments"`
	Delivered      int `json:"delivered"`
	InTransit      int `json:"in_transit"`
	TotalCustomers int `json:"total_customers"`
}

// Registration carries the fields submitted when registering an account.
type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// UserUpdate carries the editable profile fields of a user account.
type UserUpdate struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}
