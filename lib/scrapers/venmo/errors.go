package venmo

import "errors"

// every operation surfaces exactly one of these to its caller, none of
// them are retried internally. recovery (re-prompt, re-login, abort) is
// the caller's decision.
var (
	ErrSessionInit  = errors.New("failed to bootstrap session")
	ErrCsrfFetch    = errors.New("failed to fetch csrf token")
	ErrLogin        = errors.New("login failed! please retry...")
	ErrUnauthorized = errors.New("unauthorized!")
	ErrLogout       = errors.New("logout failed! please retry...")
	ErrUserQuery    = errors.New("failed to query user! please retry...")
	ErrNoMatch      = errors.New("no user matched the query")
	ErrFeedFetch    = errors.New("failed to fetch the transaction feed")
	ErrPaymentSend  = errors.New("payment request failed! please retry...")
)
