package form

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PhotoFile is a file handed over by a picker
type PhotoFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Photo is an attached image
type Photo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Size returns the size of the photo in bytes
func (p Photo) Size() int {
	return len(p.Data)
}

// AddPhotos appends the image files among files, in input order, and
// returns the ones that were accepted. Files without a MIME type are
// sniffed from their content; anything that is not an image is dropped.
func (f *Form) AddPhotos(files []PhotoFile) []Photo {
	var added []Photo
	for _, file := range files {
		mt := file.MIMEType
		if mt == "" {
			mt = mimetype.Detect(file.Data).String()
		}
		if !IsImageType(mt) {
			continue
		}
		p := Photo{
			ID:       uuid.NewString(),
			Name:     file.Name,
			MIMEType: mt,
			Data:     bytes.Clone(file.Data),
		}
		f.photos = append(f.photos, p)
		added = append(added, p)
	}
	return added
}

// RemovePhoto deletes the photo at index; later photos shift down by one
func (f *Form) RemovePhoto(index int) error {
	if index < 0 || index >= len(f.photos) {
		return fmt.Errorf("%w: %d (have %d)", ErrPhotoIndex, index, len(f.photos))
	}
	f.photos = slices.Delete(f.photos, index, index+1)
	return nil
}

// ClearPhotos removes every attached photo
func (f *Form) ClearPhotos() {
	f.photos = nil
}

// Photos returns the attached photos in order
func (f *Form) Photos() []Photo {
	out := slices.Clone(f.photos)
	for i := range out {
		out[i].Data = bytes.Clone(out[i].Data)
	}
	return out
}

// IsImageType reports whether a MIME type denotes an image
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}
