package media

// ByID returns the first image with the given id, or nil.
func ByID(images []Image, id int) *Image {
	for i := range images {
		if images[i].ID == id {
			return &images[i]
		}
	}
	return nil
}

// IndexOf returns the position of id in images, or -1.
func IndexOf(images []Image, id int) int {
	for i := range images {
		if images[i].ID == id {
			return i
		}
	}
	return -1
}

// Append adds an image to the list and returns the updated slice.
// If an image with the same ID already exists it is left untouched.
func Append(images []Image, img Image) []Image {
	if IndexOf(images, img.ID) >= 0 {
		return images
	}
	return append(images, img)
}

// Remove removes an image by ID. Returns the updated slice and whether an
// image was actually removed.
func Remove(images []Image, id int) ([]Image, bool) {
	if i := IndexOf(images, id); i >= 0 {
		return append(images[:i], images[i+1:]...), true
	}
	return images, false
}

// IDs returns the ids of images in order.
func IDs(images []Image) []int {
	ids := make([]int, len(images))
	for i := range images {
		ids[i] = images[i].ID
	}
	return ids
}

// CloneAll deep-copies every image.
func CloneAll(images []Image) []Image {
	out := make([]Image, len(images))
	for i := range images {
		out[i] = images[i].Clone()
	}
	return out
}
