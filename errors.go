package scheduler

import (
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/pkg/errors"
)

// Errors returned across the service. Callers add context with errors.Wrap
// and classify with errors.Is.
var (
	ErrInvalidFormat = dateutil.ErrInvalidFormat
	ErrInvalidDate   = dateutil.ErrInvalidDate
	ErrInvalidRange  = errors.New("end time must be after start time")
	ErrValidation    = errors.New("validation failed")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")

	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
