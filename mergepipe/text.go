package mergepipe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// layoutSpec fixes the page geometry and typography for synthesized text
// pages. Plain text and rich text share the layout algorithm and differ
// only in this spec.
type layoutSpec struct {
	pageW, pageH float64
	margin       float64

	bodyFont   string
	bodyStyle  string
	bodySize   float64
	lineHeight float64

	captionStyle string
	captionSize  float64
	captionSlots int // line slots reserved for the caption on page one
}

var plainTextLayout = layoutSpec{
	pageW: 612, pageH: 792, margin: 50,
	bodyFont: "Helvetica", bodySize: 11, lineHeight: 16,
	captionStyle: "I", captionSize: 9, captionSlots: 2,
}

var richTextLayout = layoutSpec{
	pageW: 612, pageH: 792, margin: 50,
	bodyFont: "Times", bodySize: 12, lineHeight: 18,
	captionStyle: "B", captionSize: 13, captionSlots: 3,
}

func (s layoutSpec) usableWidth() float64 { return s.pageW - 2*s.margin }

func (s layoutSpec) linesPerPage() int {
	return int((s.pageH - 2*s.margin) / s.lineHeight)
}

// plainTextSource word-wraps and paginates a plain text file.
type plainTextSource struct{}

func (plainTextSource) build(_ context.Context, item InputItem, _ QualitySettings) (*segment, error) {
	return renderTextPages(item.Name, string(item.Data), plainTextLayout)
}

// renderTextPages lays the text out on fixed-size pages. The first page
// carries a filename caption ahead of the body. Pagination never yields
// zero pages: empty input produces a single page with an "(empty)" body.
func renderTextPages(name, text string, spec layoutSpec) (*segment, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(spec.bodyFont, spec.bodyStyle, spec.bodySize)

	body := text
	if strings.TrimSpace(body) == "" {
		body = "(empty)"
	}
	lines := wrapText(body, spec.usableWidth(), pdf.GetStringWidth)
	pages := paginate(lines, spec.linesPerPage(), spec.captionSlots)

	for i, pageLines := range pages {
		pdf.AddPage()
		slot := 0
		if i == 0 {
			pdf.SetFont(spec.bodyFont, spec.captionStyle, spec.captionSize)
			caption := truncateToWidth(name, spec.usableWidth(), pdf.GetStringWidth)
			pdf.Text(spec.margin, spec.margin+spec.lineHeight, caption)
			pdf.SetFont(spec.bodyFont, spec.bodyStyle, spec.bodySize)
			slot = spec.captionSlots
		}
		for _, line := range pageLines {
			slot++
			if line == "" {
				continue
			}
			pdf.Text(spec.margin, spec.margin+spec.lineHeight*float64(slot), line)
		}
	}
	if pdf.Err() {
		return nil, fmt.Errorf("compose text pages: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write text pages: %w", err)
	}
	return &segment{data: buf.Bytes(), pages: len(pages)}, nil
}

// wrapText splits text on line breaks and greedily word-wraps each
// logical line against the usable width using the measure function. A
// line is flushed when the next word would overrun the width. Words wider
// than the usable width are broken at rune boundaries so no emitted line
// ever measures wider than usable.
func wrapText(text string, usable float64, measure func(string) float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	for _, logical := range strings.Split(text, "\n") {
		words := strings.Fields(logical)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := ""
		for _, word := range words {
			for _, piece := range breakLongWord(word, usable, measure) {
				candidate := piece
				if current != "" {
					candidate = current + " " + piece
				}
				if current != "" && measure(candidate) > usable {
					out = append(out, current)
					current = piece
				} else {
					current = candidate
				}
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return out
}

// breakLongWord splits a single word that is wider than the usable width
// into rune-boundary pieces that each fit. Fitting words pass through.
func breakLongWord(word string, usable float64, measure func(string) float64) []string {
	if measure(word) <= usable {
		return []string{word}
	}
	var pieces []string
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && measure(string(runes[start:end+1])) <= usable {
			end++
		}
		pieces = append(pieces, string(runes[start:end]))
		start = end
	}
	return pieces
}

// paginate slices wrapped lines into pages of linesPerPage, reserving
// captionSlots on the first page. Always returns at least one page.
func paginate(lines []string, linesPerPage, captionSlots int) [][]string {
	if linesPerPage <= captionSlots+1 {
		linesPerPage = captionSlots + 2 // degenerate geometry guard
	}
	var pages [][]string
	capacity := linesPerPage - captionSlots
	var page []string
	for _, line := range lines {
		if len(page) == capacity {
			pages = append(pages, page)
			page = nil
			capacity = linesPerPage
		}
		page = append(page, line)
	}
	if len(page) > 0 || len(pages) == 0 {
		pages = append(pages, page)
	}
	return pages
}

// truncateToWidth shortens s from the end with an ellipsis until it fits,
// preserving a minimum readable prefix.
func truncateToWidth(s string, max float64, measure func(string) float64) string {
	if measure(s) <= max {
		return s
	}
	const minRunes = 8
	runes := []rune(s)
	for len(runes) > minRunes && measure(string(runes)+"...") > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
