package auth

import "github.com/spec-kit/rp-admin-service/internal/domain"

// DenialReason distinguishes why a policy rejected a principal.
type DenialReason string

const (
	ReasonAdminRequired            DenialReason = "ADMIN_REQUIRED"
	ReasonStaffOrAdminRequired     DenialReason = "STAFF_OR_ADMIN_REQUIRED"
	ReasonFormAccessDenied         DenialReason = "FORM_ACCESS_DENIED"
	ReasonCannotActOnSelf          DenialReason = "CANNOT_ACT_ON_SELF"
	ReasonCannotDeleteDefaultAdmin DenialReason = "CANNOT_DELETE_DEFAULT_ADMIN"
	ReasonCannotDemoteDefaultAdmin DenialReason = "CANNOT_DEMOTE_DEFAULT_ADMIN"
)

var denialMessages = map[DenialReason]string{
	ReasonAdminRequired:            "admin access required",
	ReasonStaffOrAdminRequired:     "staff or admin access required",
	ReasonFormAccessDenied:         "access to this form denied",
	ReasonCannotActOnSelf:          "cannot modify or delete your own account",
	ReasonCannotDeleteDefaultAdmin: "cannot delete default admin account",
	ReasonCannotDemoteDefaultAdmin: "cannot rename or demote default admin account",
}

// DenialError is returned by a policy predicate that denies.
type DenialError struct {
	Reason DenialReason
}

func (e *DenialError) Error() string {
	if msg, ok := denialMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

// Is matches any DenialError with the same reason.
func (e *DenialError) Is(target error) bool {
	t, ok := target.(*DenialError)
	return ok && t.Reason == e.Reason
}

var (
	ErrAdminRequired            error = &DenialError{Reason: ReasonAdminRequired}
	ErrStaffOrAdminRequired     error = &DenialError{Reason: ReasonStaffOrAdminRequired}
	ErrFormAccessDenied         error = &DenialError{Reason: ReasonFormAccessDenied}
	ErrCannotActOnSelf          error = &DenialError{Reason: ReasonCannotActOnSelf}
	ErrCannotDeleteDefaultAdmin error = &DenialError{Reason: ReasonCannotDeleteDefaultAdmin}
	ErrCannotDemoteDefaultAdmin error = &DenialError{Reason: ReasonCannotDemoteDefaultAdmin}
)

// IsAdmin reports whether p holds full administrative rights.
func IsAdmin(p Principal) bool {
	switch v := p.(type) {
	case CredentialPrincipal:
		return v.Account.Role == domain.AccountRoleAdmin
	case DiscordPrincipal:
		return v.Identity.IsAdmin
	}
	return false
}

// RequireAdmin allows admin-role accounts and Discord admins.
func RequireAdmin(p Principal) error {
	if IsAdmin(p) {
		return nil
	}
	return ErrAdminRequired
}

// RequireStaffOrAdmin allows admin and staff accounts and Discord admins.
func RequireStaffOrAdmin(p Principal) error {
	switch v := p.(type) {
	case CredentialPrincipal:
		if v.Account.Role == domain.AccountRoleAdmin || v.Account.Role == domain.AccountRoleStaff {
			return nil
		}
	case DiscordPrincipal:
		if v.Identity.IsAdmin {
			return nil
		}
	}
	return ErrStaffOrAdminRequired
}

// RequireFormAccess allows admins unconditionally and staff only for forms on
// their allow-list.
func RequireFormAccess(p Principal, formID string) error {
	switch v := p.(type) {
	case CredentialPrincipal:
		switch v.Account.Role {
		case domain.AccountRoleAdmin:
			return nil
		case domain.AccountRoleStaff:
			if v.Account.CanAccessForm(formID) {
				return nil
			}
		}
	case DiscordPrincipal:
		if v.Identity.IsAdmin {
			return nil
		}
	}
	return ErrFormAccessDenied
}

// SelfModificationGuard denies role changes and deletes aimed at the caller's
// own record. Read operations must not use it.
func SelfModificationGuard(p Principal, targetID string) error {
	if p != nil && p.ID() == targetID {
		return ErrCannotActOnSelf
	}
	return nil
}

// ProtectedAccountGuard denies deleting the default admin account.
func ProtectedAccountGuard(targetUsername string) error {
	if targetUsername == domain.DefaultAdminUsername {
		return ErrCannotDeleteDefaultAdmin
	}
	return nil
}

// DefaultAdminChangeGuard denies renaming the default admin account or giving it
// a role other than admin, either of which would leave no account named admin.
func DefaultAdminChangeGuard(target *domain.CredentialAccount, newUsername string, newRole domain.AccountRole) error {
	if target.Username != domain.DefaultAdminUsername {
		return nil
	}
	if newUsername != target.Username || newRole != domain.AccountRoleAdmin {
		return ErrCannotDemoteDefaultAdmin
	}
	return nil
}

// VisibleForms keeps the ids p may access, preserving order.
func VisibleForms(p Principal, formIDs []string) []string {
	out := make([]string, 0, len(formIDs))
	for _, id := range formIDs {
		if RequireFormAccess(p, id) == nil {
			out = append(out, id)
		}
	}
	return out
}
