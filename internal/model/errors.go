package model

import "errors"

// Input errors are fatal for the request: the caller must fix the input.
var (
	ErrEmptyDocument      = errors.New("document is empty")
	ErrInvalidUTF8        = errors.New("document is not valid UTF-8")
	ErrReviewDateRequired = errors.New("review date is required for AMSTAR evaluation")
)
