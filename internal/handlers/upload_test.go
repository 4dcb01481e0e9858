package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) *bytes.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestGenerateThumbnail(t *testing.T) {
	t.Run("wide image is scaled down", func(t *testing.T) {
		src := encodePNG(t, 800, 600)
		data, err := generateThumbnail(src, 400)
		if err != nil {
			t.Fatalf("generateThumbnail: %v", err)
		}
		if data == nil {
			t.Fatal("expected thumbnail bytes")
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decoding thumbnail: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("format: got %q, want jpeg", format)
		}
		if cfg.Width != 400 || cfg.Height != 300 {
			t.Errorf("dimensions: got %dx%d, want 400x300", cfg.Width, cfg.Height)
		}
	})

	t.Run("small image is skipped", func(t *testing.T) {
		src := encodePNG(t, 300, 200)
		data, err := generateThumbnail(src, 400)
		if err != nil {
			t.Fatalf("generateThumbnail: %v", err)
		}
		if data != nil {
			t.Error("expected nil result for image under the limit")
		}
	})

	t.Run("garbage input fails", func(t *testing.T) {
		src := bytes.NewReader([]byte("not an image"))
		if _, err := generateThumbnail(src, 400); err == nil {
			t.Error("expected decode error")
		}
	})
}
