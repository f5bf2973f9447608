// Package errors provides the classified error type used at sitegen's outer
// edges: configuration loading, content discovery, output writing and plugins.
//
// The collection rules themselves never fail; absent or mistyped metadata is
// treated as the empty case. Errors here describe what went wrong around
// them and drive the CLI exit code.
//
// Example usage:
//
//	err := errors.FileSystemError("read content root").
//		WithContext("path", root).
//		WithCause(ioErr).
//		Build()
package errors
