package mergepipe

// Category identifies the kind of input file for adapter dispatch.
type Category string

const (
	CategoryPageDocument Category = "page-document"
	CategoryRasterImage  Category = "raster-image"
	CategoryPlainText    Category = "plain-text"
	CategoryRichText     Category = "rich-text"
	CategoryUnrecognized Category = "unrecognized"
)

// InputItem is one file handed to the merge pipeline. Immutable once
// passed to Merge for a given invocation.
type InputItem struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`         // display name, used in captions and errors
	ContentType string   `json:"content_type"` // declared MIME type, may be empty
	Data        []byte   `json:"-"`
	Size        int64    `json:"size"`
	Category    Category `json:"category,omitempty"` // filled by the classifier when empty
	Selected    bool     `json:"selected"`
	Rotation    int      `json:"rotation"` // page rotation override: 0, 90, 180, 270
}

// DocumentInfo records where one successfully processed input landed in
// the final document. StartPage is 1-based and already includes the TOC
// offset once a table of contents has been inserted.
type DocumentInfo struct {
	Name      string `json:"name"`
	StartPage int    `json:"start_page"`
	PageCount int    `json:"page_count"`
}

// NumberFormat selects one of the four page number renderings.
type NumberFormat string

const (
	NumberFormatLong   NumberFormat = "page-x-of-y" // "Page X of Y"
	NumberFormatRatio  NumberFormat = "x-of-y"      // "X / Y"
	NumberFormatPlain  NumberFormat = "plain"       // "X"
	NumberFormatDashed NumberFormat = "dashed"      // "- X -"
)

// NumberPosition anchors the page number at one of six fixed points.
type NumberPosition string

const (
	PositionTopLeft      NumberPosition = "top-left"
	PositionTopCenter    NumberPosition = "top-center"
	PositionTopRight     NumberPosition = "top-right"
	PositionBottomLeft   NumberPosition = "bottom-left"
	PositionBottomCenter NumberPosition = "bottom-center"
	PositionBottomRight  NumberPosition = "bottom-right"
)

// MergeOptions holds the decoration toggles and document metadata for one
// merge invocation. The zero value disables every decoration.
type MergeOptions struct {
	PageNumbers      bool           `json:"page_numbers" yaml:"page_numbers"`
	NumberFormat     NumberFormat   `json:"number_format,omitempty" yaml:"number_format"`
	NumberPosition   NumberPosition `json:"number_position,omitempty" yaml:"number_position"`
	HeaderText       string         `json:"header,omitempty" yaml:"header"`
	FooterText       string         `json:"footer,omitempty" yaml:"footer"`
	WatermarkText    string         `json:"watermark,omitempty" yaml:"watermark"`
	WatermarkOpacity float64        `json:"watermark_opacity,omitempty" yaml:"watermark_opacity"`
	TOC              bool           `json:"toc" yaml:"toc"`
	Title            string         `json:"title,omitempty" yaml:"title"`
	Author           string         `json:"author,omitempty" yaml:"author"`
	Subject          string         `json:"subject,omitempty" yaml:"subject"`
}

// Phase names one stage of the merge state machine. Phases occur in
// declaration order exactly once each, except PhaseProcessing which
// repeats once per input item.
type Phase string

const (
	PhasePreparing   Phase = "preparing"
	PhaseProcessing  Phase = "processing"
	PhaseCompressing Phase = "compressing"
	PhaseFinalizing  Phase = "finalizing"
	PhaseComplete    Phase = "complete"
)

// ProgressEvent is emitted synchronously between pipeline steps. Current
// is strictly monotonically increasing within a phase.
type ProgressEvent struct {
	Phase   Phase  `json:"phase"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

// ProgressFunc observes progress events. May be nil.
type ProgressFunc func(ProgressEvent)

// FileError names one input that could not be processed.
type FileError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// MergeOutcome is the result of one merge invocation.
type MergeOutcome struct {
	Succeeded int            `json:"succeeded"`
	Skipped   int            `json:"skipped"`
	Errored   int            `json:"errored"`
	Errors    []FileError    `json:"errors,omitempty"` // in input order
	Infos     []DocumentInfo `json:"infos"`            // in input order
	Output    []byte         `json:"-"`
	PageCount int            `json:"page_count"`
	ByteSize  int64          `json:"byte_size"`
}
