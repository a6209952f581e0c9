package mergepipe

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pageDocumentSource copies all pages of a PDF input into the output,
// unchanged and in original order. This is the only adapter that ignores
// the active quality profile: images already embedded in an input PDF are
// not re-encoded, so the compact profile's size reduction is unreliable
// for image-heavy PDF inputs. Known limitation.
type pageDocumentSource struct{}

func (pageDocumentSource) build(_ context.Context, item InputItem, _ QualitySettings) (*segment, error) {
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(item.Data), readConf())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if pctx.PageCount == 0 {
		return nil, fmt.Errorf("pdf contains no pages")
	}
	// The original bytes are the segment; the merge step re-parses them.
	return &segment{data: item.Data, pages: pctx.PageCount}, nil
}
