package mergepipe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// rasterImageSource rasterizes one image file into exactly one page sized
// to the final pixel dimensions, with the image drawn edge to edge.
type rasterImageSource struct{}

func (rasterImageSource) build(_ context.Context, item InputItem, q QualitySettings) (*segment, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(item.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has empty dimensions (%dx%d)", cfg.Width, cfg.Height)
	}

	outW, outH := targetDims(cfg.Width, cfg.Height, q)

	var (
		imgBytes []byte
		imgType  string
	)
	if losslessPassthrough(format, q) {
		// Quality/size trade-off short-circuit: the original lossless
		// bytes are embedded unmodified.
		imgBytes = item.Data
		imgType = strings.ToUpper(format)
	} else {
		src, _, err := image.Decode(bytes.NewReader(item.Data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		if outW != cfg.Width || outH != cfg.Height {
			src = resample(src, outW, outH)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality(q.JPEGQuality)}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		imgBytes = buf.Bytes()
		imgType = "JPG"
	}

	return imagePage(item.Name, imgBytes, imgType, outW, outH)
}

// targetDims scales both dimensions by maxDimension/max(w,h), rounding to
// nearest, when downscaling is enabled and the image exceeds the limit.
func targetDims(w, h int, q QualitySettings) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if !q.Downscale || longest <= q.MaxDimension {
		return w, h
	}
	scale := float64(q.MaxDimension) / float64(longest)
	outW := int(math.Round(float64(w) * scale))
	outH := int(math.Round(float64(h) * scale))
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}

// losslessPassthrough reports whether the original bytes should be
// embedded unmodified: lossless source, downscaling disabled, quality
// factor above 0.9. Limited to formats the page builder embeds natively;
// bmp/tiff/webp are always re-encoded.
func losslessPassthrough(format string, q QualitySettings) bool {
	if q.Downscale || q.JPEGQuality <= 0.9 {
		return false
	}
	return format == "png" || format == "gif"
}

func jpegQuality(factor float64) int {
	n := int(math.Round(factor * 100))
	if n < 1 {
		n = 1
	}
	if n > 100 {
		n = 100
	}
	return n
}

func resample(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// imagePage builds a one-page PDF sized w x h points with the image
// filling the page.
func imagePage(name string, imgBytes []byte, imgType string, w, h int) (*segment, error) {
	size := gofpdf.SizeType{Wd: float64(w), Ht: float64(h)}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{OrientationStr: "P", UnitStr: "pt", Size: size})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPageFormat("P", size)

	opts := gofpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(imgBytes))
	pdf.ImageOptions(name, 0, 0, float64(w), float64(h), false, opts, 0, "")
	if pdf.Err() {
		return nil, fmt.Errorf("compose image page: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write image page: %w", err)
	}
	return &segment{data: buf.Bytes(), pages: 1}, nil
}
