package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// ErrMissingToken is returned when a protected route is called without a bearer token.
var ErrMissingToken = errors.New("missing authorization header")

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	resolver *Resolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, resolver *Resolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return MapError(ErrMissingToken)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return MapError(ErrMalformedToken)
	}

	claims, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return MapError(err)
	}

	principal, err := m.resolver.Resolve(c.UserContext(), claims)
	if err != nil {
		return MapError(err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// Require runs each predicate against the authenticated principal in order and
// stops at the first denial. It must be mounted after Handle.
func Require(policies ...func(Principal) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return MapError(ErrMissingToken)
		}
		for _, policy := range policies {
			if err := policy(principal); err != nil {
				return MapError(err)
			}
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(Principal)
	return principal, ok
}

// MapError translates authentication and policy failures into transport errors.
// Errors it does not recognise are returned unchanged.
func MapError(err error) error {
	var denial *DenialError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingToken):
		return apperrors.NewUnauthorized(err.Error())
	case errors.Is(err, ErrExpiredToken):
		return apperrors.NewUnauthorizedCode("EXPIRED_TOKEN", "token expired")
	case errors.Is(err, ErrMalformedToken):
		return apperrors.NewUnauthorizedCode("MALFORMED_TOKEN", "invalid token")
	case errors.Is(err, ErrPrincipalNotFound):
		return apperrors.NewUnauthorizedCode("PRINCIPAL_NOT_FOUND", "account no longer exists")
	case errors.As(err, &denial):
		return apperrors.NewForbidden(string(denial.Reason), denial.Error())
	}
	return err
}
