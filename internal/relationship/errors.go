package relationship

import "errors"

// Kind classifies an operation failure so the transport layer can pick a
// status code without string matching.
type Kind int

const (
	// KindStorage covers unexpected storage faults; everything the service
	// cannot classify falls through to it.
	KindStorage Kind = iota
	// KindNotFound covers missing users and edges, including edges that
	// exist but are not owned by the caller. The two are deliberately
	// indistinguishable so callers cannot probe other users' data.
	KindNotFound
	// KindValidation covers malformed input: bad category, bad code,
	// self-invites.
	KindValidation
	// KindConflict covers transitions the current state forbids.
	KindConflict
)

// Error is a classified business failure. Code mirrors the machine-readable
// message codes the mobile clients already switch on.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrUserNotFound       = &Error{KindNotFound, "USER_NOT_FOUND", "user not found"}
	ErrInvitationNotFound = &Error{KindNotFound, "INVITATION_NOT_FOUND", "invitation not found or already processed"}
	ErrResultNotFound     = &Error{KindNotFound, "RESULT_NOT_FOUND", "friend result not found"}

	ErrInvalidCode      = &Error{KindValidation, "INVALID_INVITE_CODE", "please enter a valid friend invite code"}
	ErrInvalidCategory  = &Error{KindValidation, "INVALID_RELATION_TYPE", "relation type must be 0 (medical), 1 (family), or 2 (peer)"}
	ErrCannotInviteSelf = &Error{KindValidation, "CANNOT_INVITE_SELF", "cannot invite yourself"}

	ErrAlreadyFriends        = &Error{KindConflict, "ALREADY_FRIENDS", "already friends"}
	ErrInvitationAlreadySent = &Error{KindConflict, "INVITATION_ALREADY_SENT", "invitation already sent"}
	ErrAlreadyRejected       = &Error{KindConflict, "ALREADY_REJECTED", "invitation was already rejected"}
)

// KindOf returns the classification of err, defaulting to KindStorage for
// anything that is not a relationship *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// CodeOf returns the machine-readable code of err, or a generic storage code.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "STORAGE_ERROR"
}
