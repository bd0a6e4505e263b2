package thumbnails

import "errors"

var (
	// ErrInvalidPreset is returned when a preset name is not found in the preset registry.
	ErrInvalidPreset = errors.New("invalid thumbnail preset")

	// ErrHostNotAllowed is returned when the source URL is not on an allowed image host.
	ErrHostNotAllowed = errors.New("image host not allowed")

	// ErrFetchFailed is returned when downloading the source image fails for any reason.
	ErrFetchFailed = errors.New("failed to fetch source image")

	// ErrUnsupportedFormat is returned when the source image format cannot be processed.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrImageTooLarge is returned when the source image exceeds the maximum allowed size.
	ErrImageTooLarge = errors.New("source image exceeds size limit")

	// ErrProcessingFailed is returned when image processing fails for any reason.
	ErrProcessingFailed = errors.New("image processing failed")
)
