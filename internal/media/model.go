package media

// Image is one archive image as returned by the content API.
type Image struct {
	ID              int               `json:"id" yaml:"id"`
	Location        string            `json:"location,omitempty" yaml:"location,omitempty"`
	Basename        string            `json:"basename,omitempty" yaml:"basename,omitempty"`
	ThumbnailPath   string            `json:"thumbnailPath,omitempty" yaml:"thumbnail_path,omitempty"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Photographer    string            `json:"photographer,omitempty" yaml:"photographer,omitempty"`
	PhotographerURL string            `json:"photographerUrl,omitempty" yaml:"photographer_url,omitempty"`
	Width           int               `json:"width,omitempty" yaml:"width,omitempty"`
	Height          int               `json:"height,omitempty" yaml:"height,omitempty"`
	Renditions      map[string]string `json:"renditions,omitempty" yaml:"renditions,omitempty"`

	// Incomplete is set while only the partial record seen in a listing is
	// known; the full record has not been fetched yet.
	Incomplete bool `json:"-" yaml:"incomplete,omitempty"`
	// Included is set while the image is embedded in the article body.
	Included   bool `json:"-" yaml:"included,omitempty"`
}

// Clone returns a deep copy of the image.
func (i Image) Clone() Image {
	out := i
	if i.Renditions != nil {
		out.Renditions = make(map[string]string, len(i.Renditions))
		for k, v := range i.Renditions {
			out.Renditions[k] = v
		}
	}
	return out
}

// Merge copies every field of other that is still zero-valued on i.
// Identity and the transient flags are left alone.
func (i *Image) Merge(other Image) {
	if i.Location == "" {
		i.Location = other.Location
	}
	if i.Basename == "" {
		i.Basename = other.Basename
	}
	if i.ThumbnailPath == "" {
		i.ThumbnailPath = other.ThumbnailPath
	}
	if i.Description == "" {
		i.Description = other.Description
	}
	if i.Photographer == "" {
		i.Photographer = other.Photographer
	}
	if i.PhotographerURL == "" {
		i.PhotographerURL = other.PhotographerURL
	}
	if i.Width == 0 {
		i.Width = other.Width
	}
	if i.Height == 0 {
		i.Height = other.Height
	}
	for k, v := range other.Renditions {
		if i.Renditions == nil {
			i.Renditions = make(map[string]string, len(other.Renditions))
		}
		if _, ok := i.Renditions[k]; !ok {
			i.Renditions[k] = v
		}
	}
}
