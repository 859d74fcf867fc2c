package draft

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/erazemk/delez/internal/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// MaxDocumentBytes bounds a single attached document.
const MaxDocumentBytes = 8 << 20

// ErrDocumentTooLarge is returned for documents over MaxDocumentBytes.
var ErrDocumentTooLarge = errors.New("document too large")

// AddImage processes an uploaded photo and appends it as a data URL.
func (d *Draft) AddImage(r io.Reader) error {
	photo, err := imaging.Process(r)
	if err != nil {
		return fmt.Errorf("adding image: %w", err)
	}
	d.Images = append(d.Images, photo.DataURL())
	return nil
}

// AddDocument appends an uploaded document as a data URL. The type is
// sniffed from the content, not taken from the client.
func (d *Draft) AddDocument(name string, r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	if len(data) > MaxDocumentBytes {
		return ErrDocumentTooLarge
	}

	mime := mimetype.Detect(data)
	d.Documents = append(d.Documents, Document{
		Name:    filepath.Base(name),
		Type:    mime.String(),
		Content: imaging.DataURL(mime.String(), data),
	})
	return nil
}
