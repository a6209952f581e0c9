// Package mergepipe assembles one merged PDF from a heterogeneous,
// user-ordered list of input files.
//
// Supported inputs:
//   - .pdf                      — pages copied unchanged
//   - .jpg/.png/.gif/.bmp/...   — rasterized onto one page, re-encoded
//   - .txt/.md/...              — word-wrapped and paginated
//   - .docx/.odt/.html          — plain text extracted, then paginated
//
// Files are processed strictly one at a time in list order; per-file
// failures are recorded and the run continues. The single fatal condition
// is a merge that produces zero pages.
//
// Usage:
//
//	pipe := mergepipe.New(mergepipe.Config{})
//	outcome, err := pipe.Merge(ctx, inputs, mergepipe.ModeStandard, opts, onProgress)
package mergepipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrNothingToMerge is the sole fatal error of a merge invocation: after
// processing every input, zero pages were produced. All other failures
// are per-file and reported in the outcome.
var ErrNothingToMerge = errors.New("nothing to merge")

// Pipeline is the merge engine. Safe for sequential reuse; one Merge call
// owns the accumulating output document for the run's duration.
type Pipeline struct {
	cfg     Config
	sources map[Category]pageSource
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{cfg: cfg, sources: newSources()}
}

// Classify exposes the format classifier for frontends.
func (p *Pipeline) Classify(name, contentType string) Category {
	return Classify(name, contentType)
}

// Merge runs the full pipeline: classify, synthesize pages per input,
// assemble, table of contents, decoration, serialization. Progress events
// are emitted synchronously in phase order. Returns ErrNothingToMerge
// when no input contributed any pages; per-file failures never abort the
// run.
func (p *Pipeline) Merge(ctx context.Context, inputs []InputItem, mode OutputMode, opts MergeOptions, onProgress ProgressFunc) (*MergeOutcome, error) {
	emit := func(ev ProgressEvent) {
		if onProgress != nil {
			onProgress(ev)
		}
	}
	q := ProfileFor(mode)

	var selected []InputItem
	for _, item := range inputs {
		if item.Selected {
			selected = append(selected, item)
		}
	}

	emit(ProgressEvent{Phase: PhasePreparing, Total: len(selected), Message: fmt.Sprintf("preparing %d files", len(selected))})

	processable := 0
	for i := range selected {
		if selected[i].Category == "" {
			selected[i].Category = Classify(selected[i].Name, selected[i].ContentType)
		}
		if selected[i].Category != CategoryUnrecognized {
			processable++
		}
	}
	if processable == 0 {
		return nil, ErrNothingToMerge
	}

	outcome := &MergeOutcome{}
	var segments []*segment
	pageTotal := 0

	fail := func(item InputItem, err error) {
		outcome.Errored++
		outcome.Errors = append(outcome.Errors, FileError{Name: item.Name, Message: err.Error()})
		p.cfg.Logger.Warn("input failed", "file", item.Name, "error", err)
	}

	for i, item := range selected {
		emit(ProgressEvent{Phase: PhaseProcessing, Current: i + 1, Total: len(selected), File: item.Name, Message: "processing " + item.Name})

		if item.Category == CategoryUnrecognized {
			outcome.Skipped++
			p.cfg.Logger.Debug("skipping unrecognized input", "file", item.Name)
			continue
		}
		if int64(len(item.Data)) > p.cfg.MaxFileSize {
			fail(item, fmt.Errorf("file too large: %d bytes (max %d)", len(item.Data), p.cfg.MaxFileSize))
			continue
		}

		seg, err := p.sources[item.Category].build(ctx, item, q)
		if err != nil {
			fail(item, err)
			continue
		}
		if item.Rotation != 0 {
			if seg, err = rotateSegment(seg, item.Rotation); err != nil {
				fail(item, fmt.Errorf("rotate: %w", err))
				continue
			}
		}

		outcome.Infos = append(outcome.Infos, DocumentInfo{
			Name:      item.Name,
			StartPage: pageTotal + 1,
			PageCount: seg.pages,
		})
		segments = append(segments, seg)
		pageTotal += seg.pages
		outcome.Succeeded++

		p.cfg.Logger.Debug("input processed", "file", item.Name, "pages", seg.pages)
	}

	if pageTotal == 0 {
		return nil, ErrNothingToMerge
	}

	emit(ProgressEvent{Phase: PhaseCompressing, Current: 1, Total: 1, Message: "assembling document"})
	doc, err := mergeSegments(segments)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	emit(ProgressEvent{Phase: PhaseFinalizing, Current: 1, Total: 1, Message: "finalizing document"})
	if opts.TOC {
		var tocPages int
		doc, tocPages, err = applyTOC(doc, outcome.Infos)
		if err != nil {
			return nil, fmt.Errorf("table of contents: %w", err)
		}
		p.cfg.Logger.Debug("toc inserted", "pages", tocPages)
	}

	doc, err = decorate(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("decorate: %w", err)
	}

	out, pages, err := finalize(doc, opts, q)
	if err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}

	outcome.Output = out
	outcome.PageCount = pages
	outcome.ByteSize = int64(len(out))

	emit(ProgressEvent{Phase: PhaseComplete, Current: 1, Total: 1, Message: fmt.Sprintf("complete: %d pages, %s", pages, FormatBytes(outcome.ByteSize))})
	return outcome, nil
}

// mergeSegments concatenates the per-input PDF segments into a single
// document, in order. A lone segment passes through untouched.
func mergeSegments(segs []*segment) ([]byte, error) {
	if len(segs) == 1 {
		return segs[0].data, nil
	}
	readers := make([]io.ReadSeeker, len(segs))
	for i, s := range segs {
		readers[i] = bytes.NewReader(s.data)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, readConf()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rotateSegment applies a page rotation override to every page of one
// segment.
func rotateSegment(seg *segment, rotation int) (*segment, error) {
	switch rotation {
	case 90, 180, 270:
	default:
		return nil, fmt.Errorf("unsupported rotation %d", rotation)
	}
	var buf bytes.Buffer
	if err := api.Rotate(bytes.NewReader(seg.data), &buf, rotation, nil, readConf()); err != nil {
		return nil, err
	}
	return &segment{data: buf.Bytes(), pages: seg.pages}, nil
}

// FormatBytes renders a byte count for human-readable progress messages.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
