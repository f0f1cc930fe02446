package domain

import "errors"

var (
	// ErrAccessDenied means the permission oracle rejected the action.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound means the requested document does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrBadCredentials means the login email/password pair did not match.
	ErrBadCredentials = errors.New("bad email or password")
	// ErrUnprocessable means a filter or payload value could not be coerced,
	// typically an identifier that is not a valid ObjectID.
	ErrUnprocessable = errors.New("unprocessable value")
	// ErrInvalidSession means the request carried no resolvable session.
	ErrInvalidSession = errors.New("invalid session")
)
