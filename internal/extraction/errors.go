package extraction

import "errors"

// Sentinel errors for extraction operations.
var (
	ErrMissingRequired = errors.New("extraction missing required field")
	ErrVisionFailed    = errors.New("vision extraction failed")
)
