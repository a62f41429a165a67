package domain

// UserRole is the role picked on the Mini-App role-selection screen.
type UserRole string

const (
	RoleOwner      UserRole = "owner"
	RoleAdvertiser UserRole = "advertiser"
)
