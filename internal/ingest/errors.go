// Package ingest implements the document processing pipeline: render the
// scanned PDF to page images, extract structured metadata through the
// vision model, persist the result, and link the document to an issue.
package ingest

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrFileNotFound  = errors.New("pdf file not found")
	ErrNotPDF        = errors.New("not a pdf file")
	ErrTooManyPages  = errors.New("page count exceeds configured maximum")
	ErrRenderFailed  = errors.New("failed to render page images")
	ErrExtractFailed = errors.New("extraction failed")
	ErrPersistFailed = errors.New("failed to persist document")
	ErrLinkFailed    = errors.New("failed to link document to issue")
)
