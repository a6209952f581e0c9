package mergepipe

// OutputMode selects a quality profile for one merge invocation.
type OutputMode string

const (
	ModeCompact      OutputMode = "compact"
	ModeStandard     OutputMode = "standard"
	ModeHighFidelity OutputMode = "high-fidelity"
)

// QualitySettings is the fixed profile tuple applied uniformly to all
// raster content in one merge. Pages copied from input PDFs are exempt:
// their embedded images are never re-encoded.
type QualitySettings struct {
	JPEGQuality   float64 // re-encode quality factor, 0..1
	MaxDimension  int     // largest allowed raster dimension in pixels
	Downscale     bool
	CompactLayout bool // write object/xref streams on serialization
}

var profiles = map[OutputMode]QualitySettings{
	ModeCompact:      {JPEGQuality: 0.5, MaxDimension: 1200, Downscale: true, CompactLayout: true},
	ModeStandard:     {JPEGQuality: 0.8, MaxDimension: 2400, Downscale: true, CompactLayout: true},
	ModeHighFidelity: {JPEGQuality: 0.95, MaxDimension: 4800, Downscale: false, CompactLayout: false},
}

// ProfileFor returns the quality settings for mode. Unknown modes fall
// back to the standard profile.
func ProfileFor(mode OutputMode) QualitySettings {
	if q, ok := profiles[mode]; ok {
		return q
	}
	return profiles[ModeStandard]
}

// Modes lists the supported output modes.
func Modes() []OutputMode {
	return []OutputMode{ModeCompact, ModeStandard, ModeHighFidelity}
}
