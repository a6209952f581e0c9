package mergepipe

import (
	"bytes"
	"context"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// segment is a self-contained PDF produced from one input item, ready to
// be appended to the accumulating output document.
type segment struct {
	data  []byte
	pages int
}

// pageSource turns one input item into a sequence of finished pages under
// the active quality settings. Implementations are stateless; a failure
// contributes no pages and is recorded by the compositor, which then
// continues with the next item.
type pageSource interface {
	build(ctx context.Context, item InputItem, q QualitySettings) (*segment, error)
}

// newSources builds the per-category adapter registry. Dispatch happens
// once per item via map lookup.
func newSources() map[Category]pageSource {
	return map[Category]pageSource{
		CategoryPageDocument: pageDocumentSource{},
		CategoryRasterImage:  rasterImageSource{},
		CategoryPlainText:    plainTextSource{},
		CategoryRichText:     richTextSource{},
	}
}

// readConf returns a pdfcpu configuration with relaxed validation, so
// inputs that declare encryption but remain readable still open. Only
// structural corruption fails.
func readConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// pageCount parses a PDF and returns its page count.
func pageCount(data []byte) (int, error) {
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), readConf())
	if err != nil {
		return 0, err
	}
	return pctx.PageCount, nil
}
