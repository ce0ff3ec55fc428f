package errors

import "errors"

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrEventNotFound       = errors.New("event not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketEventMismatch = errors.New("ticket does not belong to event")
	ErrAlreadyCheckedIn    = errors.New("ticket already checked in for this day")
	ErrAlreadyDistributed  = errors.New("item already distributed to attendee")
	ErrStorageDisabled     = errors.New("object storage is not configured")
)
