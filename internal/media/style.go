package media

import "fmt"

// Size names an embedding size preset.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// DefaultSize is the size given to a freshly embedded image.
const DefaultSize = SizeLarge

// DefaultWidths maps each size to a container width.
var DefaultWidths = map[Size]string{
	SizeSmall:  "30%",
	SizeMedium: "50%",
	SizeLarge:  "100%",
}

// ParseSize validates a size name.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), nil
	default:
		return "", fmt.Errorf("unknown image size %q (want small, medium or large)", s)
	}
}

// Style is the display configuration of one embedding.
type Style struct {
	Container ContainerStyle    `json:"container" yaml:"container"`
	Image     map[string]string `json:"image,omitempty" yaml:"image,omitempty"`
}

// ContainerStyle holds the CSS-ish properties of the wrapping element.
type ContainerStyle struct {
	Width string `json:"width" yaml:"width"`
}

// StyleFor derives the style for size from a width table, falling back to
// DefaultWidths for sizes the table does not know.
func StyleFor(size Size, widths map[Size]string) Style {
	w, ok := widths[size]
	if !ok {
		w = DefaultWidths[size]
	}
	return Style{Container: ContainerStyle{Width: w}, Image: map[string]string{}}
}

// Embedded is an image placed in the article body: an independent copy of
// the attached record plus its own display configuration.
type Embedded struct {
	Image Image `json:"image" yaml:"image"`
	Size  Size  `json:"size" yaml:"size"`
	Style Style `json:"style" yaml:"style"`
}
