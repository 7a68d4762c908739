package auth

import (
	"context"
	"errors"

	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository"
)

// ErrPrincipalNotFound is returned when the token subject no longer exists.
var ErrPrincipalNotFound = errors.New("principal not found")

// Resolver reconstructs the acting principal from verified claims.
type Resolver struct {
	accounts   repository.AccountRepository
	identities repository.DiscordIdentityRepository
}

// NewResolver builds a resolver over the two identity stores.
func NewResolver(accounts repository.AccountRepository, identities repository.DiscordIdentityRepository) *Resolver {
	return &Resolver{accounts: accounts, identities: identities}
}

// Resolve loads the principal named by claims. Tokens without a kind predate
// Discord login and are treated as credential tokens.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (Principal, error) {
	switch claims.Kind {
	case domain.PrincipalKindCredential, "":
		account, err := r.accounts.GetByUsername(ctx, claims.Subject)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		return CredentialPrincipal{Account: account}, nil
	case domain.PrincipalKindDiscord:
		identity, err := r.identities.GetByDiscordID(ctx, claims.Subject)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		return DiscordPrincipal{Identity: identity}, nil
	default:
		return nil, ErrMalformedToken
	}
}
