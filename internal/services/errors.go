package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Rsplitstone/compcase-backend/internal/platform/apierr"
)

var (
	// ErrNotFound marks a lookup or mutator whose target id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks missing required input or an absent linked case.
	ErrValidation = errors.New("validation failed")
	// ErrCollaborator marks a failed, timed out, or unparseable call to the
	// summarization service.
	ErrCollaborator = errors.New("summarization collaborator failed")
	// ErrConflict marks a unique key collision such as a reused case number.
	ErrConflict = errors.New("conflict")
)

func notFound(code string, format string, args ...interface{}) *apierr.Error {
	return apierr.New(http.StatusNotFound, code, fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...)))
}

func invalid(code string, format string, args ...interface{}) *apierr.Error {
	return apierr.New(http.StatusBadRequest, code, fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...)))
}

func collaboratorFailure(code string, cause error) *apierr.Error {
	return apierr.New(http.StatusBadGateway, code, fmt.Errorf("%w: %w", ErrCollaborator, cause))
}

func conflict(code string, format string, args ...interface{}) *apierr.Error {
	return apierr.New(http.StatusConflict, code, fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...)))
}

func internalErr(code string, err error) *apierr.Error {
	return apierr.New(http.StatusInternalServerError, code, err)
}
