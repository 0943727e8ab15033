// Package extract pulls plain text out of uploaded resume documents.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrNoText is returned when a document yields no usable text. Callers
// treat it the same as a failed extraction for gating purposes.
var ErrNoText = errors.New("document contains no usable text")

// minTextLength is the shortest trimmed extraction considered real
// content rather than formatting debris.
const minTextLength = 10

// Extract returns the plain text of an uploaded document. Supported
// inputs are .docx archives and plain-text files; anything else, and any
// document whose text is shorter than the minimum, returns ErrNoText.
func Extract(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(path.Ext(filename)) {
	case ".docx":
		text, err = extractDocx(data)
	case ".txt", ".md", "":
		text = string(data)
	default:
		return "", ErrNoText
	}
	if err != nil {
		return "", err
	}

	text = normalizeWhitespace(text)
	if len(strings.TrimSpace(text)) < minTextLength {
		return "", ErrNoText
	}
	return text, nil
}

// extractDocx reads word/document.xml out of the docx zip and collects
// the text runs, inserting a newline at each paragraph boundary.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", ErrNoText
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", ErrNoText
	}

	rc, err := doc.Open()
	if err != nil {
		return "", ErrNoText
	}
	defer rc.Close()

	return collectRuns(rc)
}

// collectRuns walks the WordprocessingML token stream. Character data
// inside <w:t> elements is the document text; </w:p> and <w:br> mark
// line breaks.
func collectRuns(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var b strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", ErrNoText
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br", "cr":
				b.WriteByte('\n')
			case "tab":
				b.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

// normalizeWhitespace collapses runs of blank lines and trims each line.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
