// Package log provides the logging abstraction shared by memship components.
//
// Components accept a Logger rather than a concrete zerolog.Logger so the
// parser and the transfer session can be exercised in tests with NoopLogger
// or a recording fake.
//
// # Usage
//
// The CLI builds a console logger on stderr:
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)
//
// Tests usually discard output:
//
//	logger := log.NewNoopLogger()
package log
