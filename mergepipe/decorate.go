package mergepipe

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// defaultWatermarkOpacity applies when the watermark is enabled with an
// unset opacity. The typical range is 0.05-0.5 but is not enforced.
const defaultWatermarkOpacity = 0.3

// stamp is one text overlay applied to every page.
type stamp struct {
	text string
	desc string // pdfcpu watermark description
}

// decorate runs the second pass over the finished page sequence: page
// numbers, header, footer, watermark, in that order. Called after TOC
// insertion so numbering accounts for TOC pages too.
func decorate(doc []byte, opts MergeOptions) ([]byte, error) {
	for _, st := range buildStamps(opts) {
		wm, err := api.TextWatermark(st.text, st.desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("stamp %q: %w", st.text, err)
		}
		var buf bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(doc), &buf, nil, wm, readConf()); err != nil {
			return nil, fmt.Errorf("apply stamp %q: %w", st.text, err)
		}
		doc = buf.Bytes()
	}
	return doc, nil
}

// buildStamps translates the options into pdfcpu stamp descriptions.
// Page numbers use the %p / %P placeholders so pdfcpu renders the true
// 1-based index against the total per page.
func buildStamps(opts MergeOptions) []stamp {
	var stamps []stamp

	if opts.PageNumbers {
		anchor, dx, dy := numberAnchor(opts.NumberPosition)
		stamps = append(stamps, stamp{
			text: numberText(opts.NumberFormat),
			desc: fmt.Sprintf("fontname:Helvetica, points:10, scale:1 abs, pos:%s, off:%d %d, fillc:#333333, rot:0, op:1", anchor, dx, dy),
		})
	}
	if opts.HeaderText != "" {
		stamps = append(stamps, stamp{
			text: opts.HeaderText,
			desc: "fontname:Helvetica, points:10, scale:1 abs, pos:tc, off:0 -24, fillc:#333333, rot:0, op:1",
		})
	}
	if opts.FooterText != "" {
		stamps = append(stamps, stamp{
			text: opts.FooterText,
			desc: "fontname:Helvetica, points:10, scale:1 abs, pos:bc, off:0 24, fillc:#333333, rot:0, op:1",
		})
	}
	if opts.WatermarkText != "" {
		op := opts.WatermarkOpacity
		if op == 0 {
			op = defaultWatermarkOpacity
		}
		stamps = append(stamps, stamp{
			text: opts.WatermarkText,
			desc: fmt.Sprintf("fontname:Helvetica-Bold, points:54, scale:1 abs, pos:c, rot:45, op:%.2f, fillc:#808080", op),
		})
	}
	return stamps
}

func numberText(format NumberFormat) string {
	switch format {
	case NumberFormatRatio:
		return "%p / %P"
	case NumberFormatPlain:
		return "%p"
	case NumberFormatDashed:
		return "- %p -"
	default:
		return "Page %p of %P"
	}
}

// numberAnchor maps a position to a pdfcpu anchor plus an inward offset.
// Anchors align the rendered text block against the margin, so the glyphs
// never overrun the page edge regardless of number width.
func numberAnchor(pos NumberPosition) (anchor string, dx, dy int) {
	switch pos {
	case PositionTopLeft:
		return "tl", 18, -18
	case PositionTopCenter:
		return "tc", 0, -18
	case PositionTopRight:
		return "tr", -18, -18
	case PositionBottomLeft:
		return "bl", 18, 18
	case PositionBottomRight:
		return "br", -18, 18
	default:
		return "bc", 0, 18
	}
}
