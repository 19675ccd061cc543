package onepassword

import "fmt"

// Error is the uniform failure shape of the Connect API. Remote errors
// arrive on the wire in this form already; configuration problems,
// builder validation and lookup-policy failures are reported with the
// same shape so callers only ever handle one error type.
//
// A StatusCode of zero means no HTTP response existed to report, e.g.
// the transport failed before a status line arrived.
type Error struct {
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("1Password Connect error (%d): %s", e.StatusCode, e.Message)
}
