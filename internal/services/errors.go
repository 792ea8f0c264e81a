package services

import "errors"

// Workbook service errors
var (
	// Upload errors
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUploadTooLarge      = errors.New("upload exceeds size limit")
	ErrEmptyUpload         = errors.New("empty upload")

	// Lookup errors
	ErrWorkbookNotFound = errors.New("workbook not found")
	ErrUnknownView      = errors.New("unknown view")
	ErrUnknownCohort    = errors.New("unknown cohort")

	// Store errors
	ErrStoreClosed = errors.New("workbook store closed")
)
