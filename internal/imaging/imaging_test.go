package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

func TestProcessPNGBecomesJPEG(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestPNG(100, 80)))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Width != 100 || photo.Height != 80 {
		t.Errorf("expected 100x80, got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessDownscale(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestJPEG(2048, 1024)))
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}
	if photo.Width != MaxDimension || photo.Height != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, photo.Width, photo.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != photo.Width {
		t.Errorf("encoded width %d does not match %d", img.Bounds().Dx(), photo.Width)
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestJPEG(50, 50)))
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}
	if photo.Width != 50 || photo.Height != 50 {
		t.Errorf("small image should not be resized: got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessRejectsOtherFormats(t *testing.T) {
	for name, data := range map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"),
	} {
		if _, err := Process(bytes.NewReader(data)); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", name, err)
		}
	}
}

func TestDataURL(t *testing.T) {
	photo, err := Process(bytes.NewReader(createTestJPEG(10, 10)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	url := photo.DataURL()
	prefix := "data:image/jpeg;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("unexpected data URL prefix: %.40s", url)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if !bytes.Equal(decoded, photo.Data) {
		t.Error("data URL payload does not match photo data")
	}
}
