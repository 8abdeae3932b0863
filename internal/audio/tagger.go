package audio

import (
	"github.com/bogem/id3v2"

	"bandcamp-collection-dl/internal/model"
)

// Tagger writes ID3 tags to single-track MP3 downloads.
//
// Album purchases arrive as archives and are left alone; only
// individual track files in an MP3 encoding can be post-processed. The
// collection API supplies artist and title, and the item's cover art
// can be embedded when it was fetched.
//
// Example:
//
//	tagger := NewTagger()
//	err := tagger.SaveTags(result.Path, target, artworkJPEG)
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// SaveTags writes artist, title and optional cover art to the MP3 file
// at path. Existing frames other than these are preserved; Bandcamp
// ships its files pre-tagged and this only overlays the collection
// metadata.
//
// artwork, when non-nil, must be JPEG bytes and replaces any existing
// attached pictures.
func (t *Tagger) SaveTags(path string, target model.DownloadTarget, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if target.Artist != "" {
		tag.SetArtist(target.Artist)
	}
	if target.Title != "" {
		tag.SetTitle(target.Title)
	}

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}
