package types

import "errors"

// Domain errors for type validation
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrEmptyURL        = errors.New("url cannot be empty")
	ErrEmptyPath       = errors.New("path cannot be empty")
	ErrUnknownPlatform = errors.New("unknown SDK platform")
	ErrInvalidRank     = errors.New("rank must be >= 1")
	ErrNegativeScore   = errors.New("score cannot be negative")
)
