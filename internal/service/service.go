package service

import (
	"strings"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/repository"
	apperrors "github.com/spec-kit/rp-admin-service/pkg/util/errorutil"
)

// authorize returns the first policy denial as a transport error. Callers pass
// predicate results in the order they should be reported.
func authorize(results ...error) error {
	for _, err := range results {
		if err != nil {
			return auth.MapError(err)
		}
	}
	return nil
}

// notFoundOr maps a repository miss to a 404 for resource and anything else
// through the generic mapping.
func notFoundOr(err error, resource, id string) error {
	if repository.IsNotFound(err) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}

func required(fields map[string]string) error {
	missing := map[string]any{}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing[name] = "required"
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", missing)
	}
	return nil
}
