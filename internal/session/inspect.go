package session

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// fileInfo is what can be learned from a picked file before uploading it.
type fileInfo struct {
	contentType   string
	width, height int
	artist        string
	description   string
}

// inspect decodes data as an image and reads the EXIF fields used as
// upload defaults. Files without EXIF are fine.
func inspect(data []byte) (fileInfo, error) {
	info := fileInfo{contentType: http.DetectContentType(data)}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return info, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	b := img.Bounds()
	info.width, info.height = b.Dx(), b.Dy()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return info, nil
	}
	info.artist = exifString(x, exif.Artist)
	info.description = exifString(x, exif.ImageDescription)
	return info, nil
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
