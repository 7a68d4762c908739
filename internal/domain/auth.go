package domain

// PrincipalKind differentiates credential accounts from Discord identities in tokens.
type PrincipalKind string

const (
	PrincipalKindCredential PrincipalKind = "credential"
	PrincipalKindDiscord    PrincipalKind = "discord"
)
