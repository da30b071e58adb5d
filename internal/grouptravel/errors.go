package grouptravel

import (
	"errors"

	"github.com/bwise1/travel_planner_api/util/values"
)

// Error is a rejected group operation. Status is one of the values.* kinds so
// the HTTP layer can map it without inspecting messages.
type Error struct {
	Status  string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(status, message string) *Error {
	return &Error{Status: status, Message: message}
}

func badRequest(message string) *Error { return newError(values.BadRequestBody, message) }
func forbidden(message string) *Error  { return newError(values.NotAllowed, message) }
func conflict(message string) *Error   { return newError(values.Conflict, message) }
func notFound(message string) *Error   { return newError(values.NotFound, message) }

var (
	ErrGroupNotFound        = notFound("group not found")
	ErrNotParticipant       = forbidden("you are not a participant of this group")
	ErrNotOrganizer         = forbidden("only organizers can perform this action")
	ErrNotOwner             = forbidden("only the group owner can perform this action")
	ErrAlreadyMember        = conflict("you are already a member of this group")
	ErrNotMember            = conflict("you are not a member of this group")
	ErrNoSpots              = conflict("no available spots")
	ErrOwnerCannotLeave     = forbidden("the group owner cannot leave the group")
	ErrExpensesDisabled     = forbidden("expense submission is not allowed in this group")
	ErrExpenseNotFound      = notFound("expense not found")
	ErrExpenseDecided       = conflict("expense has already been reviewed")
	ErrInvalidAction        = badRequest(`action must be "approved" or "rejected"`)
	ErrInvalidAmount        = badRequest("amount must be a positive number")
	ErrCheckNotFound        = notFound("attendance check not found")
	ErrCheckInactive        = newError(values.Unprocessable, "attendance check is no longer active")
	ErrCheckExpired         = newError(values.Unprocessable, "attendance check has expired")
	ErrNotInCheck           = forbidden("you are not part of this attendance check")
	ErrAlreadyMarked        = conflict("attendance already marked")
	ErrSOSNotFound          = notFound("SOS alert not found")
	ErrAnnouncementNotFound = notFound("announcement not found")
	ErrTooManyConflicts     = conflict("the group was modified concurrently, please retry")
)

// Store errors. Implementations of Store return these so the service can tell
// a lost race from a missing document.
var (
	ErrNotFound        = errors.New("grouptravel: document not found")
	ErrVersionConflict = errors.New("grouptravel: version conflict")
	ErrConditionFailed = errors.New("grouptravel: update condition not met")
)

// AsError unwraps err into a domain *Error when it is one.
func AsError(err error) (*Error, bool) {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr, true
	}
	return nil, false
}
