package pcpack

import "errors"

var (
	// ErrFormat indicates container geometry inconsistent with the fixed
	// layout: a truncated header, a directory or vector that would read
	// past the end of the file, or a base field disagreement.
	ErrFormat = errors.New("pcpack: malformed container")

	// ErrOffsetRange indicates rebuild arithmetic that would place a
	// payload or vector beyond the representable 32-bit offset range.
	ErrOffsetRange = errors.New("pcpack: offset out of 32-bit range")
)
