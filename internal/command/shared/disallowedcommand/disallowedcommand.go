// Package disallowedcommand provides the error returned for commands that cannot run in the
// current mode.
package disallowedcommand

import "errors"

var (
	// Error is returned for unknown commands and for commands batch mode does not run.
	Error = errors.New("Disallowed command") //nolint:stylecheck // Used to display the error message to the user.
)
