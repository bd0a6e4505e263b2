package thumbnails

// FitMode defines how an image should be fitted to the target dimensions.
type FitMode string

const (
	// FitCover scales the image to cover the target dimensions, cropping if necessary.
	FitCover FitMode = "cover"
	// FitContain scales the image to fit within the target width, preserving aspect ratio.
	FitContain FitMode = "contain"
)

// Preset defines one thumbnail transformation.
type Preset struct {
	Name    string
	Fit     FitMode
	Width   int
	Height  int
	Quality int
}

// presets is the registry of all available thumbnail presets.
var presets = map[string]Preset{
	// post card header image
	"card": {
		Name:    "card",
		Width:   600,
		Height:  340,
		Fit:     FitCover,
		Quality: 80,
	},
	"card_small": {
		Name:    "card_small",
		Width:   320,
		Height:  180,
		Fit:     FitCover,
		Quality: 75,
	},
	// full-width image with no crop
	"wide": {
		Name:    "wide",
		Width:   1200,
		Fit:     FitContain,
		Quality: 80,
	},
}

// GetPreset returns the preset registered under name
func GetPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, ErrInvalidPreset
	}
	return preset, nil
}
