// Package imaging normalizes uploaded property photos for inlining.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height of an inlined photo.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// MaxUploadBytes bounds a single uploaded photo.
const MaxUploadBytes = 16 << 20

// ErrUnsupported is returned for uploads that are not JPEG or PNG.
var ErrUnsupported = errors.New("unsupported image format")

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = errors.New("image too large")

var allowed = []string{"image/jpeg", "image/png"}

// Photo is a processed upload.
type Photo struct {
	Data          []byte
	MIME          string
	Width, Height int
}

// DataURL returns the photo as a base64 data URL.
func (p *Photo) DataURL() string {
	return DataURL(p.MIME, p.Data)
}

// DataURL encodes data as a base64 data URL of the given MIME type.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Process sniffs the upload, rejects anything other than JPEG and PNG,
// downscales it to MaxDimension and re-encodes it as JPEG.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowed...) {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupported, detected.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg", Width: b.Dx(), Height: b.Dy()}, nil
}

// fit scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. Images already within bounds are returned as is.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
