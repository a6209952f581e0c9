package mergepipe

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// richTextSource extracts plain text from a word-processing container
// (docx, odt) or html file, then reuses the shared pagination with Times
// typography and a larger bold caption.
type richTextSource struct{}

func (richTextSource) build(_ context.Context, item InputItem, _ QualitySettings) (*segment, error) {
	text, err := extractRichText(item)
	if err != nil {
		return nil, err
	}
	return renderTextPages(item.Name, text, richTextLayout)
}

func extractRichText(item InputItem) (string, error) {
	switch strings.ToLower(filepath.Ext(item.Name)) {
	case ".docx":
		return extractDocxText(item.Data)
	case ".odt":
		return extractODTText(item.Data)
	case ".html", ".htm":
		return extractHTMLText(item.Data)
	}

	ct := strings.ToLower(item.ContentType)
	switch {
	case strings.Contains(ct, "opendocument"):
		return extractODTText(item.Data)
	case strings.Contains(ct, "html"):
		return extractHTMLText(item.Data)
	default:
		return extractDocxText(item.Data)
	}
}

// extractDocxText reads word/document.xml from the ZIP archive and
// collects one line of text per paragraph.
func extractDocxText(data []byte) (string, error) {
	return extractZipXMLText(data, "word/document.xml", map[string]bool{"p": true})
}

// extractODTText reads content.xml from the ZIP archive. Paragraphs and
// headings each become a line.
func extractODTText(data []byte) (string, error) {
	return extractZipXMLText(data, "content.xml", map[string]bool{"p": true, "h": true})
}

// extractZipXMLText walks the XML token stream of one archive member and
// emits the character data of every paragraph-like element.
func extractZipXMLText(data []byte, member string, paraElems map[string]bool) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == member {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%s not found in archive", member)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", member, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var out strings.Builder
	var current strings.Builder
	depth := 0 // nesting depth of paragraph-like elements

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if paraElems[t.Name.Local] {
				depth++
				if depth == 1 {
					current.Reset()
				}
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		case xml.EndElement:
			if paraElems[t.Name.Local] && depth > 0 {
				depth--
				if depth == 0 {
					out.WriteString(strings.TrimSpace(current.String()))
					out.WriteByte('\n')
				}
			}
		}
	}
	return out.String(), nil
}

var htmlBlockElems = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "section": true, "article": true,
	"blockquote": true, "pre": true,
}

// extractHTMLText collects the visible text of an HTML document, one line
// per block-level element. Script and style subtrees are skipped.
func extractHTMLText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
					out.WriteByte(' ')
				}
				out.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && htmlBlockElems[n.Data] {
			if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
				out.WriteByte('\n')
			}
		}
	}
	walk(doc)
	return out.String(), nil
}
