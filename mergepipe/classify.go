package mergepipe

import (
	"path/filepath"
	"strings"
)

var (
	documentExts  = extSet(".pdf")
	imageExts     = extSet(".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp")
	richTextExts  = extSet(".docx", ".odt", ".html", ".htm")
	plainTextExts = extSet(".txt", ".text", ".md", ".markdown", ".log", ".csv")
)

func extSet(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

// Classify maps a file name and declared content type to a category.
// The extension is authoritative; the content type is only a fallback for
// files without a recognized extension. Never fails: anything else is
// CategoryUnrecognized.
func Classify(name, contentType string) Category {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case has(documentExts, ext):
		return CategoryPageDocument
	case has(imageExts, ext):
		return CategoryRasterImage
	case has(richTextExts, ext):
		return CategoryRichText
	case has(plainTextExts, ext):
		return CategoryPlainText
	}

	ct := strings.ToLower(contentType)
	switch {
	case ct == "":
		return CategoryUnrecognized
	case strings.Contains(ct, "pdf"):
		return CategoryPageDocument
	case strings.HasPrefix(ct, "image/"):
		return CategoryRasterImage
	case strings.Contains(ct, "officedocument"),
		strings.Contains(ct, "opendocument"),
		strings.Contains(ct, "msword"),
		strings.Contains(ct, "html"):
		return CategoryRichText
	case strings.HasPrefix(ct, "text/"):
		return CategoryPlainText
	}
	return CategoryUnrecognized
}

func has(set map[string]struct{}, ext string) bool {
	_, ok := set[ext]
	return ok
}

// SupportedExtensions lists every extension the classifier recognizes,
// for frontends that filter file pickers or directory walks.
func SupportedExtensions() []string {
	var out []string
	for _, set := range []map[string]struct{}{documentExts, imageExts, richTextExts, plainTextExts} {
		for e := range set {
			out = append(out, e)
		}
	}
	return out
}
