package models

type Role string

const (
	RoleUser            Role = "user"
	RoleVendor          Role = "vendor"
	RoleAdmin           Role = "admin"
	RoleServiceProvider Role = "service_provider"
)

type KycStatus string

const (
	KycPending   KycStatus = "pending"
	KycSubmitted KycStatus = "submitted"
	KycApproved  KycStatus = "approved"
	KycRejected  KycStatus = "rejected"
)

// Principal is the authenticated caller for the current request.
// It is derived per-request from trusted headers or a bearer token
// and never persisted.
type Principal struct {
	ID        uint      `json:"id"`
	Role      Role      `json:"role"`
	KycStatus KycStatus `json:"kycStatus,omitempty"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
