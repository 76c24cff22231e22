// Package errors provides error handling conventions for the gamelog CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. It also re-exports the wrapping
// helpers from cockroachdb/errors (New, Wrap, Is, ...) so most packages
// only need a single errors import.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrNoCredentials) {
//		// prompt the user to run gamelog init
//	}
//
// # Exit Codes
//
// Commands wrap failures in [ExitError] so main can map errors to process
// exit codes without inspecting error strings.
package errors
