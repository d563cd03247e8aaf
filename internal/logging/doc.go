// Package logging provides leveled console logging for justvault.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always shown on stderr.
//
// Never pass key material, seeds or recovery phrases to a Logger.
package logging
