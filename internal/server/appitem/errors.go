package appitem

import "errors"

var (
	// ErrMissingAppID is returned when a launch request carries no app id.
	ErrMissingAppID = errors.New("request has no app id")

	// ErrAlreadyReplied is returned when a second reply is attempted on
	// the same request.
	ErrAlreadyReplied = errors.New("request already replied")
)

// Error codes used on service replies.
const (
	// ErrCodeNotExist is the reply code for an unknown app id.
	ErrCodeNotExist = -101

	// ErrCodeLaunchGeneral is the reply code for launches that were
	// cancelled or failed without a more specific code.
	ErrCodeLaunchGeneral = -1
)
