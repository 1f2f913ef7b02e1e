package model

import "time"

// Method is a communication-method catalog entry. The catalog is
// admin-managed; event methods are validated against it at write time.
type Method struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Sequence    int       `json:"sequence"`
	Mandatory   bool      `json:"mandatory"`
	CreatedAt   time.Time `json:"created_at"`
}

// Default method names installed by the seed migration, in sequence order.
const (
	MethodLinkedInPost    = "LinkedIn Post"
	MethodLinkedInMessage = "LinkedIn Message"
	MethodEmail           = "Email"
	MethodPhoneCall       = "Phone Call"
	MethodOther           = "Other"
)
