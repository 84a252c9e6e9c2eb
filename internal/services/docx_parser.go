package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	docx "github.com/fumiama/go-docx"
)

const docxBodyPart = "word/document.xml"

type DOCXParserService interface {
	// ExtractText walks the document body: paragraphs become lines and each
	// table row becomes one line with cells joined by " | ". Text box
	// paragraphs follow the body.
	ExtractText(filePath string) (string, error)
	// ExtractRawText dumps every text run of the body, headers, footers and
	// notes, ignoring structure.
	ExtractRawText(filePath string) (string, error)
}

type docxParserService struct{}

func NewDOCXParserService() DOCXParserService {
	return &docxParserService{}
}

func (p *docxParserService) ExtractText(filePath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse DOCX: %v", r)
		}
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat DOCX: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("failed to parse DOCX: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if line := normalizeSpace(it.String()); line != "" {
				lines = append(lines, line)
			}
		case *docx.Table:
			lines = append(lines, tableLines(it)...)
		}
	}

	// Text boxes hang off drawings inside runs and are not part of the
	// paragraph text above.
	zr, err := zip.NewReader(f, info.Size())
	if err == nil {
		if body, err := readZipEntry(zr, docxBodyPart); err == nil {
			lines = append(lines, scanParagraphs(body, scanTextBoxes)...)
		}
	}

	return DedupeLines(strings.Join(lines, "\n")), nil
}

func (p *docxParserService) ExtractRawText(filePath string) (string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer zr.Close()

	parts := textBearingParts(&zr.Reader)
	if len(parts) == 0 {
		return "", errors.New("DOCX has no word parts")
	}

	var runs, loose []string
	for _, name := range parts {
		data, err := readZipEntry(&zr.Reader, name)
		if err != nil {
			continue
		}
		runs = append(runs, scanParagraphs(data, scanTextRuns)...)
		loose = append(loose, scanParagraphs(data, scanAnyText)...)
	}

	text := DedupeLines(strings.Join(runs, "\n"))
	if text == "" {
		text = DedupeLines(strings.Join(loose, "\n"))
	}
	return text, nil
}

func tableLines(tbl *docx.Table) []string {
	var lines []string
	for _, row := range tbl.TableRows {
		cells := make([]string, 0, len(row.TableCells))
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if text := normalizeSpace(para.String()); text != "" {
					parts = append(parts, text)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		if line := joinCells(cells); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found in DOCX", name)
}

// textBearingParts lists the document body first, then headers, footers and
// notes in name order.
func textBearingParts(zr *zip.Reader) []string {
	var extra []string
	hasBody := false
	for _, f := range zr.File {
		name := f.Name
		switch {
		case name == docxBodyPart:
			hasBody = true
		case strings.HasPrefix(name, "word/header"),
			strings.HasPrefix(name, "word/footer"),
			name == "word/footnotes.xml",
			name == "word/endnotes.xml":
			if strings.HasSuffix(name, ".xml") {
				extra = append(extra, name)
			}
		}
	}
	sort.Strings(extra)

	if hasBody {
		return append([]string{docxBodyPart}, extra...)
	}
	return extra
}

func joinCells(cells []string) string {
	nonEmpty := make([]string, 0, len(cells))
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return strings.Join(nonEmpty, " | ")
}

type scanMode int

const (
	scanTextRuns  scanMode = iota // w:t runs of every paragraph
	scanAnyText                   // any character data of every paragraph
	scanTextBoxes                 // w:t runs of paragraphs inside w:txbxContent
)

// scanParagraphs returns one line per paragraph, innermost first. Each open
// paragraph keeps its own buffer, so a text box nested in a paragraph does not
// disturb the text around it.
func scanParagraphs(data []byte, mode scanMode) []string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var (
		lines     []string
		open      []*strings.Builder
		boxDepth  int
		inTextRun bool
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inTextRun = true
			case "txbxContent":
				boxDepth++
			case "tab", "br", "cr":
				if len(open) > 0 {
					open[len(open)-1].WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "txbxContent":
				boxDepth--
			case "p":
				if len(open) == 0 {
					break
				}
				top := open[len(open)-1]
				open = open[:len(open)-1]
				if mode == scanTextBoxes && boxDepth == 0 {
					break
				}
				if line := normalizeSpace(top.String()); line != "" {
					lines = append(lines, line)
				}
			}
		case xml.CharData:
			if len(open) == 0 {
				break
			}
			if inTextRun || mode == scanAnyText {
				top := open[len(open)-1]
				top.Write(t)
				if mode == scanAnyText {
					top.WriteByte(' ')
				}
			}
		}
	}

	for i := len(open) - 1; i >= 0; i-- {
		if line := normalizeSpace(open[i].String()); line != "" && mode != scanTextBoxes {
			lines = append(lines, line)
		}
	}
	return lines
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DedupeLines trims every line, drops empty ones and keeps only the first
// occurrence of each distinct line.
func DedupeLines(text string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
