package cfbf

import "errors"

// Sentinel errors. Wrapped with %w throughout the package so callers can
// use errors.Is/errors.As instead of matching on message text.
var (
	ErrInvalidCFB         = errors.New("invalid cfb file")
	ErrUnsupportedVersion = errors.New("unsupported cfb version")
	ErrEmpty              = errors.New("document has no objects")
	ErrFileTooLarge       = errors.New("stream exceeds the writer's size limit")
	ErrFilenameTooLong    = errors.New("name exceeds 31 UTF-16 code units")
	ErrInvalidName        = errors.New("invalid name")
	ErrDuplicateName      = errors.New("duplicate name within parent")
	ErrNotAStorage        = errors.New("entry is not a storage")
	ErrNotAStream         = errors.New("entry is not a stream")
	ErrNotFound           = errors.New("entry not found")
	ErrCorruptFAT         = errors.New("corrupt allocation table")
	ErrOutOfRange         = errors.New("sector reference out of range")
	ErrCyclicChain        = errors.New("cyclic sector chain")
)
