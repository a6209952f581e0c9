package mergepipe

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTargetDims(t *testing.T) {
	tests := []struct {
		w, h         int
		q            QualitySettings
		wantW, wantH int
	}{
		// within limit: native size kept
		{800, 600, QualitySettings{Downscale: true, MaxDimension: 1200}, 800, 600},
		// exactly at limit
		{1200, 900, QualitySettings{Downscale: true, MaxDimension: 1200}, 1200, 900},
		// landscape downscale, aspect preserved
		{4000, 2000, QualitySettings{Downscale: true, MaxDimension: 1200}, 1200, 600},
		// portrait downscale
		{2000, 4000, QualitySettings{Downscale: true, MaxDimension: 1200}, 600, 1200},
		// rounding to nearest
		{1999, 1000, QualitySettings{Downscale: true, MaxDimension: 1200}, 1200, 600},
		// downscale disabled: native size regardless
		{9000, 4500, QualitySettings{Downscale: false, MaxDimension: 1200}, 9000, 4500},
	}

	for _, tt := range tests {
		gotW, gotH := targetDims(tt.w, tt.h, tt.q)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("targetDims(%d, %d, %+v) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, tt.q, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestLosslessPassthrough(t *testing.T) {
	hi := ProfileFor(ModeHighFidelity)
	std := ProfileFor(ModeStandard)

	tests := []struct {
		format string
		q      QualitySettings
		want   bool
	}{
		{"png", hi, true},
		{"gif", hi, true},
		{"jpeg", hi, false},
		{"png", std, false},  // downscaling enabled
		{"webp", hi, false},  // always re-encoded
		{"tiff", hi, false},
		{"png", QualitySettings{JPEGQuality: 0.9}, false}, // 0.9 is not > 0.9
	}

	for _, tt := range tests {
		if got := losslessPassthrough(tt.format, tt.q); got != tt.want {
			t.Errorf("losslessPassthrough(%q, %+v) = %v, want %v", tt.format, tt.q, got, tt.want)
		}
	}
}

func TestImageSourceSinglePage(t *testing.T) {
	item := InputItem{Name: "photo.png", Data: pngBytes(t, 640, 480), Selected: true}

	seg, err := rasterImageSource{}.build(context.Background(), item, ProfileFor(ModeStandard))
	if err != nil {
		t.Fatal(err)
	}
	if seg.pages != 1 {
		t.Fatalf("image produced %d pages, want 1", seg.pages)
	}
	if n, err := pageCount(seg.data); err != nil || n != 1 {
		t.Fatalf("segment page count = %d, err = %v", n, err)
	}
}

func TestImageSourcePassthroughKeepsBytesSmall(t *testing.T) {
	// High-fidelity + png short-circuits re-encoding; the page must still
	// be a valid single-page document.
	item := InputItem{Name: "chart.png", Data: pngBytes(t, 300, 200), Selected: true}

	seg, err := rasterImageSource{}.build(context.Background(), item, ProfileFor(ModeHighFidelity))
	if err != nil {
		t.Fatal(err)
	}
	if seg.pages != 1 {
		t.Fatalf("got %d pages, want 1", seg.pages)
	}
}

func TestImageSourceRejectsGarbage(t *testing.T) {
	item := InputItem{Name: "broken.png", Data: []byte("not an image"), Selected: true}
	if _, err := (rasterImageSource{}).build(context.Background(), item, ProfileFor(ModeStandard)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestJPEGQualityClamps(t *testing.T) {
	tests := []struct {
		factor float64
		want   int
	}{{0.5, 50}, {0.95, 95}, {0, 1}, {1.5, 100}, {-1, 1}}
	for _, tt := range tests {
		if got := jpegQuality(tt.factor); got != tt.want {
			t.Errorf("jpegQuality(%v) = %d, want %d", tt.factor, got, tt.want)
		}
	}
}
