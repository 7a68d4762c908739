package domain

import "time"

// AccountRole enumerates roles of password-authenticated accounts.
type AccountRole string

const (
	AccountRoleAdmin AccountRole = "admin"
	AccountRoleStaff AccountRole = "staff"
)

// DefaultAdminUsername is the account that must always exist.
const DefaultAdminUsername = "admin"

// SystemCreator marks accounts created by the bootstrap step.
const SystemCreator = "system"

// Valid reports whether r is a known role.
func (r AccountRole) Valid() bool {
	return r == AccountRoleAdmin || r == AccountRoleStaff
}

// CredentialAccount is a staff or admin account authenticated by password.
type CredentialAccount struct {
	ID           string
	Username     string
	PasswordHash string
	Role         AccountRole
	// AllowedForms is only consulted when Role is staff.
	AllowedForms []string
	CreatedAt    time.Time
	CreatedBy    *string
}

// CanAccessForm reports whether formID is on the account allow-list.
func (a *CredentialAccount) CanAccessForm(formID string) bool {
	for _, id := range a.AllowedForms {
		if id == formID {
			return true
		}
	}
	return false
}
