// Package apperr holds the error kinds shared by the builder, the navigator
// and the command line.
package apperr

import "errors"

var (
	// ErrNotText marks file content that cannot be decoded as text.
	ErrNotText = errors.New("not decodable as text")
	// ErrInvalidInput marks a prompt answer outside the accepted alphabet.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedPath marks a target that is neither a regular file nor a directory.
	ErrUnsupportedPath = errors.New("unsupported path")
)
