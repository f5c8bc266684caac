package model

// Customer is the customer-directory collaborator's view of a customer.
// Type drives the opening limits (personal/business); Profile drives the
// credit-card gate (e.g. vip, pyme).
type Customer struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Profile string `json:"profile"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}
