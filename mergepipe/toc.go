package mergepipe

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	tocMargin   = 50.0
	tocTitleY   = 80.0
	tocFirstY   = 120.0
	tocLineStep = 24.0
	tocBottomY  = 742.0
	tocLabelGap = 12.0 // gap between name/leader and leader/label
)

// applyTOC prepends a table of contents to the assembled content and
// shifts every start page by the TOC's own page count.
//
// Two passes are required: inserting the TOC ahead of the content shifts
// every content page's true position. The second pass is guaranteed
// stable because the TOC's length depends only on its entry count, never
// on the numeric values it displays.
func applyTOC(content []byte, infos []DocumentInfo) ([]byte, int, error) {
	draft, err := renderTOC(infos)
	if err != nil {
		return nil, 0, fmt.Errorf("draft toc: %w", err)
	}

	for i := range infos {
		infos[i].StartPage += draft.pages
	}

	final, err := renderTOC(infos)
	if err != nil {
		return nil, 0, fmt.Errorf("rebuild toc: %w", err)
	}

	merged, err := mergeSegments([]*segment{final, {data: content}})
	if err != nil {
		return nil, 0, fmt.Errorf("prepend toc: %w", err)
	}
	return merged, final.pages, nil
}

// renderTOC draws the listing pages: left-aligned truncated name, dotted
// leader, right-aligned "Page N". Overflows onto further pages when
// vertical space runs out.
func renderTOC(infos []DocumentInfo) (*segment, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(tocMargin, tocTitleY, "Contents")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetDrawColor(150, 150, 150)

	pageW, _ := pdf.GetPageSize()
	right := pageW - tocMargin
	y := tocFirstY

	for _, info := range infos {
		if y > tocBottomY {
			pdf.AddPage()
			y = tocMargin + tocLineStep
		}

		label := fmt.Sprintf("Page %d", info.StartPage)
		labelW := pdf.GetStringWidth(label)
		maxNameW := right - tocMargin - labelW - 2*tocLabelGap
		name := truncateToWidth(info.Name, maxNameW, pdf.GetStringWidth)

		pdf.Text(tocMargin, y, name)
		pdf.Text(right-labelW, y, label)

		x1 := tocMargin + pdf.GetStringWidth(name) + tocLabelGap
		x2 := right - labelW - tocLabelGap
		if x2 > x1 {
			pdf.SetDashPattern([]float64{1, 3}, 0)
			pdf.Line(x1, y-3, x2, y-3)
			pdf.SetDashPattern([]float64{}, 0)
		}

		y += tocLineStep
	}
	if pdf.Err() {
		return nil, fmt.Errorf("compose toc: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write toc: %w", err)
	}
	return &segment{data: buf.Bytes(), pages: pdf.PageCount()}, nil
}
