package uuid

import "errors"

var (
	// ErrInvalidFormat indicates that the UUID string format is invalid
	ErrInvalidFormat = errors.New("uuid: invalid UUID format")

	// ErrInvalidLength indicates that the UUID byte slice has incorrect length
	ErrInvalidLength = errors.New("uuid: invalid UUID length (expected 16 bytes)")

	// ErrInvalidVersion indicates that a version-bound accessor was invoked on
	// a UUID whose version does not carry the requested field
	ErrInvalidVersion = errors.New("uuid: invalid or unsupported UUID version")
)
