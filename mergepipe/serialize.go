package mergepipe

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// finalize serializes the decorated document: optimizes the cross
// reference table, applies document metadata, and writes the bytes with
// object/xref stream compaction when the profile's compact layout flag is
// set. Returns the final bytes and page count.
func finalize(doc []byte, opts MergeOptions, q QualitySettings) ([]byte, int, error) {
	conf := readConf()
	conf.WriteObjectStream = q.CompactLayout
	conf.WriteXRefStream = q.CompactLayout

	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc), conf)
	if err != nil {
		return nil, 0, fmt.Errorf("optimize: %w", err)
	}

	if err := setDocumentInfo(pctx, opts); err != nil {
		return nil, 0, fmt.Errorf("set metadata: %w", err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(pctx, &buf); err != nil {
		return nil, 0, fmt.Errorf("serialize: %w", err)
	}
	return buf.Bytes(), pctx.PageCount, nil
}

// setDocumentInfo writes Title/Author/Subject into the Info dictionary.
// Only non-empty values are set; existing entries otherwise stay
// untouched.
func setDocumentInfo(pctx *model.Context, opts MergeOptions) error {
	fields := []struct{ key, value string }{
		{"Title", opts.Title},
		{"Author", opts.Author},
		{"Subject", opts.Subject},
	}

	set := false
	for _, f := range fields {
		if f.value != "" {
			set = true
		}
	}
	if !set {
		return nil
	}

	var d types.Dict
	if pctx.Info != nil {
		var err error
		d, err = pctx.DereferenceDict(*pctx.Info)
		if err != nil {
			return fmt.Errorf("info dict: %w", err)
		}
	}
	if d == nil {
		d = types.Dict{}
		ir, err := pctx.IndRefForNewObject(d)
		if err != nil {
			return fmt.Errorf("new info dict: %w", err)
		}
		pctx.Info = ir
	}

	for _, f := range fields {
		if f.value != "" {
			d[f.key] = types.StringLiteral(escapeLiteral(f.value))
		}
	}
	return nil
}

// escapeLiteral escapes the characters with special meaning inside a PDF
// string literal.
func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
