package thumbnails

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Processor transforms source images according to a preset.
type Processor interface {
	// Process returns the transformed image as JPEG bytes.
	Process(data []byte, preset Preset) ([]byte, error)
}

type imageProcessor struct{}

// NewProcessor creates a Processor backed by the imaging library
func NewProcessor() Processor {
	return imageProcessor{}
}

func (imageProcessor) Process(data []byte, preset Preset) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrUnsupportedFormat)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if err == image.ErrFormat {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrProcessingFailed, err)
	}

	var processed image.Image
	switch preset.Fit {
	case FitCover:
		processed = imaging.Fill(img, preset.Width, preset.Height, imaging.Center, imaging.Lanczos)
	case FitContain:
		processed = contain(img, preset.Width)
	default:
		return nil, fmt.Errorf("%w: unknown fit mode %q", ErrProcessingFailed, preset.Fit)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: preset.Quality}); err != nil {
		return nil, fmt.Errorf("%w: failed to encode JPEG: %v", ErrProcessingFailed, err)
	}
	return buf.Bytes(), nil
}

// contain scales img down to maxWidth keeping its aspect ratio. Smaller images are not upscaled.
func contain(img image.Image, maxWidth int) image.Image {
	if img.Bounds().Dx() <= maxWidth {
		return img
	}
	// height 0 lets imaging preserve the aspect ratio
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}
