package auth

import "github.com/spec-kit/rp-admin-service/internal/domain"

// Principal is the resolved identity making a request. It has exactly two
// variants, CredentialPrincipal and DiscordPrincipal; policies type-switch on them.
type Principal interface {
	// ID is the stable store identifier of the underlying record.
	ID() string
	// Name is a human readable label used for audit fields such as created_by.
	Name() string
	Kind() domain.PrincipalKind
	sealed()
}

// CredentialPrincipal wraps a password-authenticated account.
type CredentialPrincipal struct {
	Account *domain.CredentialAccount
}

func (p CredentialPrincipal) ID() string                 { return p.Account.ID }
func (p CredentialPrincipal) Name() string               { return p.Account.Username }
func (p CredentialPrincipal) Kind() domain.PrincipalKind { return domain.PrincipalKindCredential }
func (CredentialPrincipal) sealed()                      {}

// DiscordPrincipal wraps an identity created through Discord OAuth.
type DiscordPrincipal struct {
	Identity *domain.DiscordIdentity
}

func (p DiscordPrincipal) ID() string                 { return p.Identity.ID }
func (p DiscordPrincipal) Name() string               { return "discord:" + p.Identity.Username }
func (p DiscordPrincipal) Kind() domain.PrincipalKind { return domain.PrincipalKindDiscord }
func (DiscordPrincipal) sealed()                      {}
