package service

import "errors"

// Granular failure reasons for grant and request operations. Handlers map
// these onto the HTTP error taxonomy; the authorization boundary itself
// never exposes them.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNotALawyer       = errors.New("user is not a lawyer")
	ErrUserInactive     = errors.New("user account is deactivated")
	ErrCaseNotFound     = errors.New("case not found")
	ErrNotGranted       = errors.New("no access grant for this case and lawyer")
	ErrAlreadyGranted   = errors.New("access already granted")
	ErrDuplicatePending = errors.New("a pending access request already exists")
	ErrRequestNotFound  = errors.New("access request not found")
	ErrAlreadyReviewed  = errors.New("access request already reviewed")
	ErrReviewForbidden  = errors.New("not allowed to review this request")
	ErrNotCaseOwner     = errors.New("only a client can own a case")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidLogin     = errors.New("invalid email or password")
)
