package handlers

import (
	"errors"
	"net/http"

	domainErrors "github.com/retailpoint/counterd/internal/domain/errors"
)

// statusFromError maps domain sentinels to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrTabNotFound),
		errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrDuplicateItem),
		errors.Is(err, domainErrors.ErrNoSelection),
		errors.Is(err, domainErrors.ErrNoEditInProgress):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrShortAllocation),
		errors.Is(err, domainErrors.ErrOverAllocation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
