package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// decodeStored decodes a stored photo data URI back into an image.
func decodeStored(t *testing.T, uri string) image.Image {
	t.Helper()

	data, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding stored photo: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("stored photo should be JPEG, got %s", format)
	}
	return img
}

func TestNormalizeJPEG(t *testing.T) {
	uri, err := Normalize(createTestJPEG(100, 100))
	if err != nil {
		t.Fatalf("Normalize JPEG: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("expected a JPEG data URI, got prefix %q", uri[:min(30, len(uri))])
	}
	decodeStored(t, uri)
}

func TestNormalizePNGBecomesJPEG(t *testing.T) {
	uri, err := Normalize(createTestPNG(100, 100))
	if err != nil {
		t.Fatalf("Normalize PNG: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Error("PNG input should be re-encoded as a JPEG data URI")
	}
}

func TestNormalizeDownscalesLargeImage(t *testing.T) {
	uri, err := Normalize(createTestJPEG(2048, 1024))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	img := decodeStored(t, uri)
	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected dimensions within %d, got %dx%d", MaxDimension, bounds.Dx(), bounds.Dy())
	}
	// Aspect ratio 2:1 preserved.
	if bounds.Dx() != MaxDimension || bounds.Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeKeepsSmallImageSize(t *testing.T) {
	uri, err := Normalize(createTestJPEG(64, 48))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	bounds := decodeStored(t, uri).Bounds()
	if bounds.Dx() != 64 || bounds.Dy() != 48 {
		t.Errorf("small image should not be resized, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeRejectsUnsupportedFormat(t *testing.T) {
	if _, err := Normalize([]byte("GIF89a not really an image")); err == nil {
		t.Error("expected error for non-JPEG/PNG data")
	}
}

func TestDecodeDataURI(t *testing.T) {
	raw := []byte("hello photo bytes")
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("got %q, want %q", got, raw)
	}
}

func TestDecodeDataURIBareBase64(t *testing.T) {
	raw := []byte{1, 2, 3}
	got, err := DecodeDataURI(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("DecodeDataURI bare: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("got %v, want %v", got, raw)
	}
}

func TestDecodeDataURIMalformed(t *testing.T) {
	if _, err := DecodeDataURI("data:image/jpeg;base64"); err == nil {
		t.Error("expected error for data URI without payload")
	}
	if _, err := DecodeDataURI("data:image/jpeg;base64,%%%"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
